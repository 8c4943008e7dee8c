package serialization

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gorgonia.org/tensor"
)

// testStateDict builds a small two-layer state dict with recognizable values.
func testStateDict() map[string]*tensor.Dense {
	return map[string]*tensor.Dense{
		"fc0.weight": tensor.New(
			tensor.WithShape(2, 3),
			tensor.WithBacking([]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}),
		),
		"fc0.bias": tensor.New(
			tensor.WithShape(1, 3),
			tensor.WithBacking([]float64{0.01, 0.02, 0.03}),
		),
		"fc1.weight": tensor.New(
			tensor.WithShape(3, 1),
			tensor.WithBacking([]float64{-1.5, 2.5, -3.5}),
		),
		"fc1.bias": tensor.New(
			tensor.WithShape(1, 1),
			tensor.WithBacking([]float64{0.25}),
		),
	}
}

var testArch = Arch{Input: 2, Output: 1, Hidden: []int{3}}

// TestRoundTripFile verifies that a state dict written to disk reads back
// with bit-identical values.
func TestRoundTripFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.dense")
	state := testStateDict()

	writer, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if err := writer.WriteStateDict(state, testArch, "MLP", map[string]string{"task": "test"}); err != nil {
		t.Fatalf("WriteStateDict failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	loaded, err := reader.ReadStateDict()
	if err != nil {
		t.Fatalf("ReadStateDict failed: %v", err)
	}

	if len(loaded) != len(state) {
		t.Fatalf("Expected %d tensors, got %d", len(state), len(loaded))
	}
	for name, want := range state {
		got, ok := loaded[name]
		if !ok {
			t.Fatalf("Tensor %s missing after round trip", name)
		}
		if !got.Shape().Eq(want.Shape()) {
			t.Errorf("Tensor %s shape = %v, want %v", name, got.Shape(), want.Shape())
		}
		// Exact float64 comparison: the round trip must be bit-identical.
		if !reflect.DeepEqual(got.Data(), want.Data()) {
			t.Errorf("Tensor %s data = %v, want %v", name, got.Data(), want.Data())
		}
	}
}

// TestRoundTripBuffer verifies WriteTo/ReadFrom over an in-memory buffer.
func TestRoundTripBuffer(t *testing.T) {
	state := testStateDict()

	var buf bytes.Buffer
	if err := WriteTo(&buf, state, testArch, "MLP", nil); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	loaded, header, err := ReadFrom(&buf)
	if err != nil {
		t.Fatalf("ReadFrom failed: %v", err)
	}

	if header.ModelType != "MLP" {
		t.Errorf("ModelType = %q, want %q", header.ModelType, "MLP")
	}
	if header.FormatVersion != FormatVersion {
		t.Errorf("FormatVersion = %d, want %d", header.FormatVersion, FormatVersion)
	}
	for name, want := range state {
		got, ok := loaded[name]
		if !ok {
			t.Fatalf("Tensor %s missing after round trip", name)
		}
		if !reflect.DeepEqual(got.Data(), want.Data()) {
			t.Errorf("Tensor %s data = %v, want %v", name, got.Data(), want.Data())
		}
	}
}

// TestRoundTripFloat32 verifies the float32 path survives a round trip.
func TestRoundTripFloat32(t *testing.T) {
	state := map[string]*tensor.Dense{
		"fc0.weight": tensor.New(
			tensor.WithShape(2, 2),
			tensor.WithBacking([]float32{1.5, -2.5, 3.5, -4.5}),
		),
	}

	var buf bytes.Buffer
	if err := WriteTo(&buf, state, Arch{Input: 2, Output: 2}, "MLP", nil); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	loaded, header, err := ReadFrom(&buf)
	if err != nil {
		t.Fatalf("ReadFrom failed: %v", err)
	}
	if header.Tensors[0].DType != DTypeFloat32 {
		t.Errorf("DType = %q, want %q", header.Tensors[0].DType, DTypeFloat32)
	}
	if !reflect.DeepEqual(loaded["fc0.weight"].Data(), []float32{1.5, -2.5, 3.5, -4.5}) {
		t.Errorf("Data = %v after round trip", loaded["fc0.weight"].Data())
	}
}

// TestHeaderArch verifies the architecture record survives a round trip.
func TestHeaderArch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.dense")
	arch := Arch{Input: 784, Output: 10, Hidden: []int{128, 64}}

	writer, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if err := writer.WriteStateDict(testStateDict(), arch, "MLP", nil); err != nil {
		t.Fatalf("WriteStateDict failed: %v", err)
	}
	writer.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	got := reader.Arch()
	if got.Input != 784 || got.Output != 10 {
		t.Errorf("Arch = %+v, want input 784 output 10", got)
	}
	if !reflect.DeepEqual(got.Hidden, []int{128, 64}) {
		t.Errorf("Hidden = %v, want [128 64]", got.Hidden)
	}
}

// TestTensorNamesSorted verifies tensors appear in sorted name order so the
// file layout is deterministic.
func TestTensorNamesSorted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.dense")

	writer, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if err := writer.WriteStateDict(testStateDict(), testArch, "MLP", nil); err != nil {
		t.Fatalf("WriteStateDict failed: %v", err)
	}
	writer.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	want := []string{"fc0.bias", "fc0.weight", "fc1.bias", "fc1.weight"}
	if got := reader.TensorNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("TensorNames = %v, want %v", got, want)
	}

	// Offsets must be ascending and contiguous.
	var next int64
	for _, meta := range reader.Header().Tensors {
		if meta.Offset != next {
			t.Errorf("Tensor %s offset = %d, want %d", meta.Name, meta.Offset, next)
		}
		next += meta.Size
	}
}

// TestReadSingleTensor verifies ReadTensor and TensorInfo for one entry.
func TestReadSingleTensor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.dense")
	state := testStateDict()

	writer, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if err := writer.WriteStateDict(state, testArch, "MLP", nil); err != nil {
		t.Fatalf("WriteStateDict failed: %v", err)
	}
	writer.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	info, err := reader.TensorInfo("fc1.weight")
	if err != nil {
		t.Fatalf("TensorInfo failed: %v", err)
	}
	if info.DType != DTypeFloat64 {
		t.Errorf("DType = %q, want %q", info.DType, DTypeFloat64)
	}
	if !reflect.DeepEqual(info.Shape, []int{3, 1}) {
		t.Errorf("Shape = %v, want [3 1]", info.Shape)
	}
	if info.Size != 24 {
		t.Errorf("Size = %d, want 24", info.Size)
	}

	got, err := reader.ReadTensor("fc1.weight")
	if err != nil {
		t.Fatalf("ReadTensor failed: %v", err)
	}
	if !reflect.DeepEqual(got.Data(), state["fc1.weight"].Data()) {
		t.Errorf("Data = %v, want %v", got.Data(), state["fc1.weight"].Data())
	}

	if _, err := reader.ReadTensor("fc9.weight"); !errors.Is(err, ErrTensorNotFound) {
		t.Errorf("Expected ErrTensorNotFound, got: %v", err)
	}
}

// TestMetadata verifies custom metadata and its flag bit.
func TestMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.dense")
	metadata := map[string]string{"task": "xor", "author": "tests"}

	writer, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if err := writer.WriteStateDict(testStateDict(), testArch, "MLP", metadata); err != nil {
		t.Fatalf("WriteStateDict failed: %v", err)
	}
	writer.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	if !reflect.DeepEqual(reader.Metadata(), metadata) {
		t.Errorf("Metadata = %v, want %v", reader.Metadata(), metadata)
	}
	if reader.flags&FlagHasMetadata == 0 {
		t.Error("Expected FlagHasMetadata to be set")
	}
	if reader.flags&FlagHasTraining != 0 {
		t.Error("FlagHasTraining should not be set without training state")
	}
}

// TestTrainingMeta verifies the optional training state and its flag bit.
func TestTrainingMeta(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.dense")

	writer, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	header := Header{
		ModelType: "MLP",
		Arch:      testArch,
		Training: &TrainingMeta{
			Epoch:      7,
			Step:       420,
			Loss:       0.125,
			SolverType: "adam",
			SolverConfig: map[string]any{
				"learn_rate": 0.01,
			},
		},
	}
	if err := writer.WriteStateDictWithHeader(testStateDict(), header); err != nil {
		t.Fatalf("WriteStateDictWithHeader failed: %v", err)
	}
	writer.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	training := reader.Header().Training
	if training == nil {
		t.Fatal("Expected training state in header")
	}
	if training.Epoch != 7 || training.Step != 420 || training.Loss != 0.125 {
		t.Errorf("Training = %+v", training)
	}
	if training.SolverType != "adam" {
		t.Errorf("SolverType = %q, want %q", training.SolverType, "adam")
	}
	if reader.flags&FlagHasTraining == 0 {
		t.Error("Expected FlagHasTraining to be set")
	}
}

// TestInvalidMagic verifies that non-.dense files are rejected.
func TestInvalidMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.dense")
	if err := os.WriteFile(path, []byte("NOPE and some trailing junk"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewReader(path)
	if !errors.Is(err, ErrInvalidMagic) {
		t.Errorf("Expected ErrInvalidMagic, got: %v", err)
	}

	_, _, err = ReadFrom(bytes.NewReader([]byte("NOPE and some trailing junk")))
	if !errors.Is(err, ErrInvalidMagic) {
		t.Errorf("Expected ErrInvalidMagic from ReadFrom, got: %v", err)
	}
}

// TestUnsupportedVersion verifies that a future format version is rejected.
func TestUnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTo(&buf, testStateDict(), testArch, "MLP", nil); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	// Patch the version field (bytes 4-7) to a future version.
	data := buf.Bytes()
	binary.LittleEndian.PutUint32(data[4:], 99)

	_, _, err := ReadFrom(bytes.NewReader(data))
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("Expected ErrUnsupportedVersion, got: %v", err)
	}
}

// TestDataAlignment verifies tensor data starts on a 64-byte boundary.
func TestDataAlignment(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTo(&buf, testStateDict(), testArch, "MLP", nil); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	data := buf.Bytes()
	headerSize := binary.LittleEndian.Uint64(data[12:20])
	currentPos := int64(20) + int64(headerSize)
	padding := (HeaderAlignment - (currentPos % HeaderAlignment)) % HeaderAlignment
	dataOffset := currentPos + padding

	if dataOffset%HeaderAlignment != 0 {
		t.Errorf("Data offset %d not aligned to %d bytes", dataOffset, HeaderAlignment)
	}
	// The first tensor in sorted order is fc0.bias.
	want, err := tensorBytes(testStateDict()["fc0.bias"])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data[dataOffset:dataOffset+int64(len(want))], want) {
		t.Error("First tensor data not found at computed data offset")
	}
}

// TestWriterCloseIdempotent verifies Close can be called multiple times.
func TestWriterCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.dense")

	writer, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if err := writer.WriteStateDict(testStateDict(), testArch, "MLP", nil); err != nil {
		t.Fatalf("WriteStateDict failed: %v", err)
	}

	if err := writer.Close(); err != nil {
		t.Errorf("First Close failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
	if err := writer.WriteStateDict(testStateDict(), testArch, "MLP", nil); err == nil {
		t.Error("Expected error writing to closed writer")
	}
}

// TestReaderCloseIdempotent verifies Close can be called multiple times.
func TestReaderCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.dense")

	writer, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if err := writer.WriteStateDict(testStateDict(), testArch, "MLP", nil); err != nil {
		t.Fatalf("WriteStateDict failed: %v", err)
	}
	writer.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if err := reader.Close(); err != nil {
		t.Errorf("First Close failed: %v", err)
	}
	if err := reader.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
	if _, err := reader.ReadStateDict(); err == nil {
		t.Error("Expected error reading from closed reader")
	}
}
