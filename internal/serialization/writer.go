package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gorgonia.org/tensor"
)

const denseVersion = "0.3.1" // Current dense version

// Writer writes checkpoints in .dense format.
type Writer struct {
	file   *os.File
	closed bool
}

// NewWriter creates a new .dense file writer.
func NewWriter(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return &Writer{file: file}, nil
}

// WriteStateDict writes a state dictionary together with the architecture
// record to the .dense file.
//
// The state dictionary is a map from parameter names to dense tensors.
// Tensors are written in sorted name order so the file layout is
// deterministic for a given state dict.
func (w *Writer) WriteStateDict(stateDict map[string]*tensor.Dense, arch Arch, modelType string, metadata map[string]string) error {
	header := Header{
		FormatVersion: FormatVersion,
		DenseVersion:  denseVersion,
		ModelType:     modelType,
		CreatedAt:     time.Now().UTC(),
		Arch:          arch,
		Metadata:      metadata,
	}
	return w.WriteStateDictWithHeader(stateDict, header)
}

// WriteStateDictWithHeader writes a state dictionary with a custom header.
//
// This allows setting TrainingMeta and other custom header fields. The
// header's Tensors field is rebuilt from the state dict; FormatVersion,
// DenseVersion and CreatedAt are always stamped by the writer.
func (w *Writer) WriteStateDictWithHeader(stateDict map[string]*tensor.Dense, header Header) error {
	if w.closed {
		return fmt.Errorf("writer is closed")
	}
	return writeTo(w.file, stateDict, header)
}

// Close closes the writer and the underlying file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// WriteTo writes the state dictionary to an io.Writer.
// This is useful for writing to buffers or network connections.
func WriteTo(writer io.Writer, stateDict map[string]*tensor.Dense, arch Arch, modelType string, metadata map[string]string) error {
	header := Header{
		FormatVersion: FormatVersion,
		DenseVersion:  denseVersion,
		ModelType:     modelType,
		CreatedAt:     time.Now().UTC(),
		Arch:          arch,
		Metadata:      metadata,
	}
	return writeTo(writer, stateDict, header)
}

// writeTo serializes the full .dense layout: fixed fields, JSON header,
// alignment padding, then raw tensor data in header order.
func writeTo(writer io.Writer, stateDict map[string]*tensor.Dense, header Header) error {
	header.FormatVersion = FormatVersion
	header.DenseVersion = denseVersion
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	// Serialize tensors in sorted name order and compute offsets.
	names := make([]string, 0, len(stateDict))
	for name := range stateDict {
		names = append(names, name)
	}
	sort.Strings(names)

	header.Tensors = make([]TensorMeta, 0, len(stateDict))
	payloads := make([][]byte, 0, len(stateDict))

	var currentOffset int64
	for _, name := range names {
		t := stateDict[name]
		dtype, ok := dtypeToString(t.Dtype())
		if !ok {
			return fmt.Errorf("%w: tensor %s has dtype %v", ErrUnknownDType, name, t.Dtype())
		}

		data, err := tensorBytes(t)
		if err != nil {
			return fmt.Errorf("failed to serialize tensor %s: %w", name, err)
		}

		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  dtype,
			Shape:  []int(t.Shape()),
			Offset: currentOffset,
			Size:   int64(len(data)),
		})
		payloads = append(payloads, data)
		currentOffset += int64(len(data))
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	// Write magic bytes
	if _, err := writer.Write([]byte(MagicBytes)); err != nil {
		return fmt.Errorf("failed to write magic bytes: %w", err)
	}

	// Write version
	if err := binary.Write(writer, binary.LittleEndian, uint32(FormatVersion)); err != nil {
		return fmt.Errorf("failed to write version: %w", err)
	}

	// Write flags
	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if header.Training != nil {
		flags |= FlagHasTraining
	}
	if err := binary.Write(writer, binary.LittleEndian, flags); err != nil {
		return fmt.Errorf("failed to write flags: %w", err)
	}

	// Write header size
	headerSize := uint64(len(headerJSON))
	if err := binary.Write(writer, binary.LittleEndian, headerSize); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}

	// Write header JSON
	if _, err := writer.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// Pad so tensor data starts on a HeaderAlignment boundary.
	currentPos := int64(4+4+4+8) + int64(headerSize)
	padding := (HeaderAlignment - (currentPos % HeaderAlignment)) % HeaderAlignment
	if padding > 0 {
		if _, err := writer.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	// Write tensor data in header order.
	for i, data := range payloads {
		if _, err := writer.Write(data); err != nil {
			return fmt.Errorf("failed to write tensor %s: %w", header.Tensors[i].Name, err)
		}
	}

	return nil
}
