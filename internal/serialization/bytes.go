package serialization

import (
	"encoding/binary"
	"fmt"
	"math"

	"gorgonia.org/tensor"
)

// tensorBytes serializes the backing data of a dense tensor to little-endian
// bytes. Only float64 and float32 backings are supported.
func tensorBytes(t *tensor.Dense) ([]byte, error) {
	switch data := t.Data().(type) {
	case []float64:
		buf := make([]byte, 8*len(data))
		for i, v := range data {
			binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
		}
		return buf, nil
	case []float32:
		buf := make([]byte, 4*len(data))
		for i, v := range data {
			binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
		}
		return buf, nil
	case float64:
		// Scalar tensors back onto a bare value rather than a slice.
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, math.Float64bits(data))
		return buf, nil
	case float32:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, math.Float32bits(data))
		return buf, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownDType, data)
	}
}

// tensorFromBytes reconstructs a dense tensor from little-endian bytes.
func tensorFromBytes(data []byte, dtype string, shape []int) (*tensor.Dense, error) {
	n := 1
	for _, d := range shape {
		n *= d
	}

	elemSize := dtypeSize(dtype)
	if elemSize == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDType, dtype)
	}
	if len(data) != n*elemSize {
		return nil, fmt.Errorf("%w: %d bytes for shape %v dtype %s", ErrSizeMismatch, len(data), shape, dtype)
	}

	switch dtype {
	case DTypeFloat64:
		backing := make([]float64, n)
		for i := range backing {
			backing[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
		}
		return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing)), nil
	case DTypeFloat32:
		backing := make([]float32, n)
		for i := range backing {
			backing[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		}
		return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDType, dtype)
	}
}
