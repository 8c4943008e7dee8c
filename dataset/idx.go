package dataset

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// IDX magic numbers for the MNIST distribution.
const (
	idxImagesMagic = 2051 // 0x00000803: unsigned byte, 3 dimensions
	idxLabelsMagic = 2049 // 0x00000801: unsigned byte, 1 dimension
)

// readIDXImages reads an MNIST image file in IDX format and returns the
// pixel data flattened to one row per image, together with the row width.
//
//	magic number: 0x00000803 (2051)
//	number of images, rows, cols: 4 bytes each, big-endian
//	pixel data: unsigned bytes (0-255)
func readIDXImages(filename string) (pixels []byte, count, width int, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, 0, 0, err
	}
	defer file.Close()

	var magic uint32
	if err := binary.Read(file, binary.BigEndian, &magic); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read magic: %w", err)
	}
	if magic != idxImagesMagic {
		return nil, 0, 0, fmt.Errorf("invalid magic number: got %d, want %d", magic, idxImagesMagic)
	}

	var numImages, numRows, numCols uint32
	if err := binary.Read(file, binary.BigEndian, &numImages); err != nil {
		return nil, 0, 0, err
	}
	if err := binary.Read(file, binary.BigEndian, &numRows); err != nil {
		return nil, 0, 0, err
	}
	if err := binary.Read(file, binary.BigEndian, &numCols); err != nil {
		return nil, 0, 0, err
	}

	count = int(numImages)
	width = int(numRows * numCols)
	pixels = make([]byte, count*width)
	if _, err := io.ReadFull(file, pixels); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read pixel data: %w", err)
	}

	return pixels, count, width, nil
}

// readIDXLabels reads an MNIST label file in IDX format.
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes, big-endian
//	label data: unsigned bytes (0-9)
func readIDXLabels(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var magic uint32
	if err := binary.Read(file, binary.BigEndian, &magic); err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", err)
	}
	if magic != idxLabelsMagic {
		return nil, fmt.Errorf("invalid magic number: got %d, want %d", magic, idxLabelsMagic)
	}

	var numLabels uint32
	if err := binary.Read(file, binary.BigEndian, &numLabels); err != nil {
		return nil, err
	}

	labels := make([]byte, numLabels)
	if _, err := io.ReadFull(file, labels); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}

	return labels, nil
}
