package mlp

import "fmt"

// Arch describes a feed-forward network: input width, output width and the
// ordered hidden-layer widths. It is the exact record stored in a checkpoint,
// and two models with equal Arch values always have identically shaped
// parameters.
type Arch struct {
	In     int
	Out    int
	Hidden []int
}

// Validate checks that every dimension is positive.
func (a Arch) Validate() error {
	if a.In <= 0 {
		return fmt.Errorf("%w: input width %d", ErrInvalidArch, a.In)
	}
	if a.Out <= 0 {
		return fmt.Errorf("%w: output width %d", ErrInvalidArch, a.Out)
	}
	for i, h := range a.Hidden {
		if h <= 0 {
			return fmt.Errorf("%w: hidden layer %d width %d", ErrInvalidArch, i, h)
		}
	}
	return nil
}

// NumLayers returns the number of weight layers (hidden layers plus the
// output layer).
func (a Arch) NumLayers() int {
	return len(a.Hidden) + 1
}

// Equal reports whether two architectures are identical.
func (a Arch) Equal(b Arch) bool {
	if a.In != b.In || a.Out != b.Out || len(a.Hidden) != len(b.Hidden) {
		return false
	}
	for i := range a.Hidden {
		if a.Hidden[i] != b.Hidden[i] {
			return false
		}
	}
	return true
}

// dims returns the full width sequence [In, Hidden..., Out].
func (a Arch) dims() []int {
	dims := make([]int, 0, len(a.Hidden)+2)
	dims = append(dims, a.In)
	dims = append(dims, a.Hidden...)
	dims = append(dims, a.Out)
	return dims
}

// WeightName returns the canonical parameter name of layer i's weight matrix.
func WeightName(i int) string {
	return fmt.Sprintf("fc%d.weight", i)
}

// BiasName returns the canonical parameter name of layer i's bias row.
func BiasName(i int) string {
	return fmt.Sprintf("fc%d.bias", i)
}
