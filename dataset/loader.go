package dataset

import (
	"fmt"
	"math/rand"

	T "gorgonia.org/tensor"
)

// Loader iterates over an InMemory dataset in fixed-size mini-batches.
//
// Because gorgonia graphs are shape-static, every batch must have exactly
// batchSize rows; a trailing partial batch is dropped. With shuffling
// enabled the sample order is re-drawn on every Reset from a seeded
// generator, so runs are reproducible.
type Loader struct {
	ds        *InMemory
	batchSize int
	shuffle   bool
	rng       *rand.Rand
	order     []int
	pos       int
}

// NewLoader creates a loader over ds. seed only matters when shuffle is true.
func NewLoader(ds *InMemory, batchSize int, shuffle bool, seed int64) (*Loader, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadBatchSize, batchSize)
	}
	if batchSize > ds.Len() {
		return nil, fmt.Errorf("%w: %d exceeds dataset size %d", ErrBadBatchSize, batchSize, ds.Len())
	}

	l := &Loader{
		ds:        ds,
		batchSize: batchSize,
		shuffle:   shuffle,
		rng:       rand.New(rand.NewSource(seed)),
		order:     make([]int, ds.Len()),
	}
	for i := range l.order {
		l.order[i] = i
	}
	l.Reset()
	return l, nil
}

// BatchSize returns the fixed batch size.
func (l *Loader) BatchSize() int {
	return l.batchSize
}

// NumBatches returns the number of full batches per epoch.
func (l *Loader) NumBatches() int {
	return l.ds.Len() / l.batchSize
}

// Reset rewinds the loader and, if shuffling, re-draws the sample order.
func (l *Loader) Reset() {
	l.pos = 0
	if l.shuffle {
		l.rng.Shuffle(len(l.order), func(i, j int) {
			l.order[i], l.order[j] = l.order[j], l.order[i]
		})
	}
}

// Next returns the next batch as freshly allocated [batchSize, in] and
// [batchSize, out] tensors. ok is false once fewer than batchSize samples
// remain; call Reset to start the next epoch.
func (l *Loader) Next() (x, y *T.Dense, ok bool) {
	if l.pos+l.batchSize > l.ds.Len() {
		return nil, nil, false
	}

	inDim := l.ds.InDim()
	outDim := l.ds.OutDim()
	xData := l.ds.Inputs.Data().([]float64)
	yData := l.ds.Targets.Data().([]float64)

	xBacking := make([]float64, l.batchSize*inDim)
	yBacking := make([]float64, l.batchSize*outDim)
	for row := 0; row < l.batchSize; row++ {
		idx := l.order[l.pos+row]
		copy(xBacking[row*inDim:(row+1)*inDim], xData[idx*inDim:(idx+1)*inDim])
		copy(yBacking[row*outDim:(row+1)*outDim], yData[idx*outDim:(idx+1)*outDim])
	}
	l.pos += l.batchSize

	x = T.New(T.WithShape(l.batchSize, inDim), T.WithBacking(xBacking))
	y = T.New(T.WithShape(l.batchSize, outDim), T.WithBacking(yBacking))
	return x, y, true
}
