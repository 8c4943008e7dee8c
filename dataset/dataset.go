package dataset

import (
	"errors"
	"fmt"

	T "gorgonia.org/tensor"
)

// Common errors.
var (
	ErrEmpty          = errors.New("dataset is empty")
	ErrRagged         = errors.New("ragged sample widths")
	ErrLengthMismatch = errors.New("inputs and targets length mismatch")
	ErrBadBatchSize   = errors.New("invalid batch size")
	ErrBadSplit       = errors.New("invalid split ratio")
)

// InMemory is a dataset held fully in memory as two dense tensors:
// Inputs with shape [n, in] and Targets with shape [n, out].
type InMemory struct {
	Inputs  *T.Dense
	Targets *T.Dense
}

// FromSlices builds an InMemory dataset from per-sample slices.
// Every input row must have the same width, and likewise every target row.
func FromSlices(inputs, targets [][]float64) (*InMemory, error) {
	if len(inputs) == 0 {
		return nil, ErrEmpty
	}
	if len(inputs) != len(targets) {
		return nil, fmt.Errorf("%w: %d inputs, %d targets", ErrLengthMismatch, len(inputs), len(targets))
	}

	inDim := len(inputs[0])
	outDim := len(targets[0])
	if inDim == 0 || outDim == 0 {
		return nil, fmt.Errorf("%w: zero-width samples", ErrRagged)
	}

	xBacking := make([]float64, 0, len(inputs)*inDim)
	yBacking := make([]float64, 0, len(targets)*outDim)
	for i := range inputs {
		if len(inputs[i]) != inDim {
			return nil, fmt.Errorf("%w: input row %d has width %d, want %d", ErrRagged, i, len(inputs[i]), inDim)
		}
		if len(targets[i]) != outDim {
			return nil, fmt.Errorf("%w: target row %d has width %d, want %d", ErrRagged, i, len(targets[i]), outDim)
		}
		xBacking = append(xBacking, inputs[i]...)
		yBacking = append(yBacking, targets[i]...)
	}

	return &InMemory{
		Inputs:  T.New(T.WithShape(len(inputs), inDim), T.WithBacking(xBacking)),
		Targets: T.New(T.WithShape(len(targets), outDim), T.WithBacking(yBacking)),
	}, nil
}

// Len returns the number of samples.
func (d *InMemory) Len() int {
	return d.Inputs.Shape()[0]
}

// InDim returns the input width.
func (d *InMemory) InDim() int {
	return d.Inputs.Shape()[1]
}

// OutDim returns the target width.
func (d *InMemory) OutDim() int {
	return d.Targets.Shape()[1]
}

// Split divides the dataset into a leading train set and trailing validation
// set. ratio is the validation fraction, e.g. 0.2 keeps the last 20% of
// samples for validation. Both halves must end up non-empty.
func (d *InMemory) Split(ratio float64) (train, val *InMemory, err error) {
	if ratio <= 0 || ratio >= 1 {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadSplit, ratio)
	}

	n := d.Len()
	splitIdx := int(float64(n) * (1.0 - ratio))
	if splitIdx == 0 || splitIdx == n {
		return nil, nil, fmt.Errorf("%w: ratio %v leaves an empty half for %d samples", ErrBadSplit, ratio, n)
	}

	train = &InMemory{
		Inputs:  d.rows(d.Inputs, 0, splitIdx),
		Targets: d.rows(d.Targets, 0, splitIdx),
	}
	val = &InMemory{
		Inputs:  d.rows(d.Inputs, splitIdx, n),
		Targets: d.rows(d.Targets, splitIdx, n),
	}
	return train, val, nil
}

// rows copies the half-open row range [from, to) of t into a fresh tensor.
func (d *InMemory) rows(t *T.Dense, from, to int) *T.Dense {
	width := t.Shape()[1]
	data := t.Data().([]float64)
	backing := append([]float64(nil), data[from*width:to*width]...)
	return T.New(T.WithShape(to-from, width), T.WithBacking(backing))
}
