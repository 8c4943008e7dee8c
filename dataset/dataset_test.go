package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSlices(t *testing.T) {
	ds, err := FromSlices(
		[][]float64{{1, 2}, {3, 4}, {5, 6}},
		[][]float64{{0}, {1}, {0}},
	)
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, 2, ds.InDim())
	assert.Equal(t, 1, ds.OutDim())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, ds.Inputs.Data())
	assert.Equal(t, []float64{0, 1, 0}, ds.Targets.Data())
}

func TestFromSlicesErrors(t *testing.T) {
	_, err := FromSlices(nil, nil)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = FromSlices([][]float64{{1}}, [][]float64{{0}, {1}})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = FromSlices([][]float64{{1, 2}, {3}}, [][]float64{{0}, {1}})
	assert.ErrorIs(t, err, ErrRagged)

	_, err = FromSlices([][]float64{{1}, {2}}, [][]float64{{0}, {1, 2}})
	assert.ErrorIs(t, err, ErrRagged)

	_, err = FromSlices([][]float64{{}}, [][]float64{{0}})
	assert.ErrorIs(t, err, ErrRagged)
}

func TestSplit(t *testing.T) {
	ds, err := FromSlices(
		[][]float64{{0}, {1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}, {9}},
		[][]float64{{0}, {1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}, {9}},
	)
	require.NoError(t, err)

	train, val, err := ds.Split(0.2)
	require.NoError(t, err)

	assert.Equal(t, 8, train.Len())
	assert.Equal(t, 2, val.Len())
	// The validation half is the tail of the original order.
	assert.Equal(t, []float64{8, 9}, val.Inputs.Data())

	// The halves are copies, not views.
	train.Inputs.Data().([]float64)[0] = 99
	assert.Equal(t, 0.0, ds.Inputs.Data().([]float64)[0])
}

func TestSplitErrors(t *testing.T) {
	ds, err := FromSlices([][]float64{{1}, {2}}, [][]float64{{0}, {1}})
	require.NoError(t, err)

	_, _, err = ds.Split(0)
	assert.ErrorIs(t, err, ErrBadSplit)
	_, _, err = ds.Split(1)
	assert.ErrorIs(t, err, ErrBadSplit)
	_, _, err = ds.Split(0.01) // leaves an empty validation half
	assert.ErrorIs(t, err, ErrBadSplit)
}

func TestXOR(t *testing.T) {
	ds := XOR()
	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, 2, ds.InDim())
	assert.Equal(t, 1, ds.OutDim())
	assert.Equal(t, []float64{0, 1, 1, 0}, ds.Targets.Data())
}

func TestSine(t *testing.T) {
	ds := Sine(100, 1)
	assert.Equal(t, 100, ds.Len())

	xs := ds.Inputs.Data().([]float64)
	ys := ds.Targets.Data().([]float64)
	for i := range xs {
		assert.GreaterOrEqual(t, xs[i], -math.Pi)
		assert.LessOrEqual(t, xs[i], math.Pi)
		assert.InDelta(t, math.Sin(xs[i]), ys[i], 1e-12)
	}

	// Same seed, same data.
	again := Sine(100, 1)
	assert.Equal(t, ds.Inputs.Data(), again.Inputs.Data())
}

func TestTwoSpirals(t *testing.T) {
	ds := TwoSpirals(200, 3)
	assert.Equal(t, 200, ds.Len())
	assert.Equal(t, 2, ds.InDim())
	assert.Equal(t, 2, ds.OutDim())

	ys := ds.Targets.Data().([]float64)
	for i := 0; i < 200; i++ {
		assert.Equal(t, 1.0, ys[i*2]+ys[i*2+1], "row %d must be one-hot", i)
	}
	// Arms alternate.
	assert.Equal(t, 1.0, ys[0])
	assert.Equal(t, 1.0, ys[3])
}
