package dataset

import (
	"math"
	"math/rand"

	T "gorgonia.org/tensor"
)

// XOR returns the four-sample XOR truth table: inputs [4, 2], targets [4, 1].
func XOR() *InMemory {
	return &InMemory{
		Inputs: T.New(
			T.WithShape(4, 2),
			T.WithBacking([]float64{0, 0, 0, 1, 1, 0, 1, 1}),
		),
		Targets: T.New(
			T.WithShape(4, 1),
			T.WithBacking([]float64{0, 1, 1, 0}),
		),
	}
}

// Sine returns n samples of y = sin(x) with x drawn uniformly from [-π, π].
// Inputs have shape [n, 1], targets [n, 1].
func Sine(n int, seed int64) *InMemory {
	rng := rand.New(rand.NewSource(seed))

	xBacking := make([]float64, n)
	yBacking := make([]float64, n)
	for i := 0; i < n; i++ {
		x := (rng.Float64()*2 - 1) * math.Pi
		xBacking[i] = x
		yBacking[i] = math.Sin(x)
	}

	return &InMemory{
		Inputs:  T.New(T.WithShape(n, 1), T.WithBacking(xBacking)),
		Targets: T.New(T.WithShape(n, 1), T.WithBacking(yBacking)),
	}
}

// TwoSpirals returns the classic two-interleaved-spirals classification
// task: n samples alternating between the two arms, inputs [n, 2], one-hot
// targets [n, 2]. A small amount of seeded noise is added to each point.
func TwoSpirals(n int, seed int64) *InMemory {
	rng := rand.New(rand.NewSource(seed))

	xBacking := make([]float64, 0, n*2)
	yBacking := make([]float64, 0, n*2)
	for i := 0; i < n; i++ {
		arm := i % 2
		// Radius grows along the arm; the second arm is rotated by π.
		t := float64(i/2) / float64(n/2) * 3 * math.Pi
		r := t / (3 * math.Pi)
		phase := t + float64(arm)*math.Pi

		px := r*math.Cos(phase) + rng.NormFloat64()*0.02
		py := r*math.Sin(phase) + rng.NormFloat64()*0.02
		xBacking = append(xBacking, px, py)

		if arm == 0 {
			yBacking = append(yBacking, 1, 0)
		} else {
			yBacking = append(yBacking, 0, 1)
		}
	}

	return &InMemory{
		Inputs:  T.New(T.WithShape(n, 2), T.WithBacking(xBacking)),
		Targets: T.New(T.WithShape(n, 2), T.WithBacking(yBacking)),
	}
}
