package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialDataset(t *testing.T, n int) *InMemory {
	t.Helper()
	inputs := make([][]float64, n)
	targets := make([][]float64, n)
	for i := range inputs {
		inputs[i] = []float64{float64(i)}
		targets[i] = []float64{float64(i)}
	}
	ds, err := FromSlices(inputs, targets)
	require.NoError(t, err)
	return ds
}

func TestNewLoaderErrors(t *testing.T) {
	ds := sequentialDataset(t, 10)

	_, err := NewLoader(ds, 0, false, 0)
	assert.ErrorIs(t, err, ErrBadBatchSize)

	_, err = NewLoader(ds, 11, false, 0)
	assert.ErrorIs(t, err, ErrBadBatchSize)
}

func TestLoaderPreservesOrderWithoutShuffle(t *testing.T) {
	ds := sequentialDataset(t, 10)
	loader, err := NewLoader(ds, 4, false, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, loader.NumBatches())
	assert.Equal(t, 4, loader.BatchSize())

	x, _, ok := loader.Next()
	require.True(t, ok)
	assert.Equal(t, []float64{0, 1, 2, 3}, x.Data())

	x, _, ok = loader.Next()
	require.True(t, ok)
	assert.Equal(t, []float64{4, 5, 6, 7}, x.Data())

	// Samples 8 and 9 do not fill a batch and are dropped.
	_, _, ok = loader.Next()
	assert.False(t, ok)
}

func TestLoaderShuffleDeterministic(t *testing.T) {
	ds := sequentialDataset(t, 20)

	a, err := NewLoader(ds, 5, true, 42)
	require.NoError(t, err)
	b, err := NewLoader(ds, 5, true, 42)
	require.NoError(t, err)

	for {
		xa, _, okA := a.Next()
		xb, _, okB := b.Next()
		require.Equal(t, okA, okB)
		if !okA {
			break
		}
		assert.Equal(t, xa.Data(), xb.Data(), "same seed must yield the same batches")
	}
}

func TestLoaderShuffleCoversAllSamples(t *testing.T) {
	ds := sequentialDataset(t, 12)
	loader, err := NewLoader(ds, 4, true, 7)
	require.NoError(t, err)

	seen := make(map[float64]bool)
	for {
		x, y, ok := loader.Next()
		if !ok {
			break
		}
		assert.Equal(t, x.Data(), y.Data())
		for _, v := range x.Data().([]float64) {
			assert.False(t, seen[v], "sample %v appeared twice in one epoch", v)
			seen[v] = true
		}
	}
	assert.Len(t, seen, 12)
}

func TestLoaderResetStartsNewEpoch(t *testing.T) {
	ds := sequentialDataset(t, 8)
	loader, err := NewLoader(ds, 4, false, 0)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _, ok := loader.Next()
		require.True(t, ok)
	}
	_, _, ok := loader.Next()
	require.False(t, ok)

	loader.Reset()
	x, _, ok := loader.Next()
	require.True(t, ok)
	assert.Equal(t, []float64{0, 1, 2, 3}, x.Data())
}

func TestLoaderBatchesAreCopies(t *testing.T) {
	ds := sequentialDataset(t, 4)
	loader, err := NewLoader(ds, 4, false, 0)
	require.NoError(t, err)

	x, _, ok := loader.Next()
	require.True(t, ok)
	x.Data().([]float64)[0] = 99
	assert.Equal(t, 0.0, ds.Inputs.Data().([]float64)[0])
}
