package dataset

import (
	"errors"
	"fmt"
	"math"

	"github.com/pkoukk/tiktoken-go"
)

// Encoder tokenizes text into BPE token ids. *tiktoken.Tiktoken satisfies
// it; tests can substitute a fixed-vocabulary stub.
type Encoder interface {
	Encode(text string, allowedSpecial, disallowedSpecial []string) []int
}

// BagOfTokens turns text into fixed-width feature vectors by hashing BPE
// token ids into dim buckets and counting. The counts are L2-normalised so
// long and short documents are comparable. It is a deliberately simple
// featurizer for the text classification tutorial; the heavy lifting (the
// BPE vocabulary and merges) belongs to the tokenizer.
type BagOfTokens struct {
	enc Encoder
	dim int
}

// NewBagOfTokens creates a featurizer over the given encoder.
func NewBagOfTokens(enc Encoder, dim int) (*BagOfTokens, error) {
	if enc == nil {
		return nil, errors.New("nil encoder")
	}
	if dim <= 0 {
		return nil, fmt.Errorf("invalid feature dimension %d", dim)
	}
	return &BagOfTokens{enc: enc, dim: dim}, nil
}

// NewTiktokenBag creates a featurizer backed by a named tiktoken encoding,
// e.g. "cl100k_base".
func NewTiktokenBag(encoding string, dim int) (*BagOfTokens, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encoding, err)
	}
	return NewBagOfTokens(enc, dim)
}

// Dim returns the feature vector width.
func (b *BagOfTokens) Dim() int {
	return b.dim
}

// Featurize converts one document into an L2-normalised hashed
// token-count vector of width Dim.
func (b *BagOfTokens) Featurize(text string) []float64 {
	vec := make([]float64, b.dim)
	for _, id := range b.enc.Encode(text, nil, nil) {
		vec[id%b.dim]++
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// Dataset featurizes a labelled corpus into an InMemory set with one-hot
// targets over numClasses.
func (b *BagOfTokens) Dataset(texts []string, labels []int, numClasses int) (*InMemory, error) {
	if len(texts) != len(labels) {
		return nil, fmt.Errorf("%w: %d texts, %d labels", ErrLengthMismatch, len(texts), len(labels))
	}
	if numClasses <= 0 {
		return nil, fmt.Errorf("invalid class count %d", numClasses)
	}

	inputs := make([][]float64, len(texts))
	targets := make([][]float64, len(texts))
	for i, text := range texts {
		if labels[i] < 0 || labels[i] >= numClasses {
			return nil, fmt.Errorf("label out of range at sample %d: %d", i, labels[i])
		}
		inputs[i] = b.Featurize(text)
		targets[i] = make([]float64, numClasses)
		targets[i][labels[i]] = 1
	}

	return FromSlices(inputs, targets)
}
