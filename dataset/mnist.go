package dataset

import (
	"fmt"
	"path/filepath"

	T "gorgonia.org/tensor"
)

const mnistClasses = 10

// LoadMNIST loads the official MNIST IDX files from dataDir: pixels are
// normalised to [0, 1] and labels one-hot encoded over 10 classes, ready to
// feed a classifier trained with softmax + cross-entropy.
//
// Expected files in dataDir:
//   - train-images-idx3-ubyte and train-labels-idx1-ubyte (train = true)
//   - t10k-images-idx3-ubyte and t10k-labels-idx1-ubyte (train = false)
//
// maxSamples limits how many samples are kept (0 = all).
func LoadMNIST(dataDir string, train bool, maxSamples int) (*InMemory, error) {
	var imageFile, labelFile string
	if train {
		imageFile = filepath.Join(dataDir, "train-images-idx3-ubyte")
		labelFile = filepath.Join(dataDir, "train-labels-idx1-ubyte")
	} else {
		imageFile = filepath.Join(dataDir, "t10k-images-idx3-ubyte")
		labelFile = filepath.Join(dataDir, "t10k-labels-idx1-ubyte")
	}

	pixels, count, width, err := readIDXImages(imageFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	labels, err := readIDXLabels(labelFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}
	if count != len(labels) {
		return nil, fmt.Errorf("image count (%d) != label count (%d)", count, len(labels))
	}

	if maxSamples > 0 && count > maxSamples {
		count = maxSamples
	}

	xBacking := make([]float64, count*width)
	for i := range xBacking {
		xBacking[i] = float64(pixels[i]) / 255.0
	}

	yBacking := make([]float64, count*mnistClasses)
	for i := 0; i < count; i++ {
		label := int(labels[i])
		if label >= mnistClasses {
			return nil, fmt.Errorf("label out of range at sample %d: %d", i, label)
		}
		yBacking[i*mnistClasses+label] = 1
	}

	return &InMemory{
		Inputs:  T.New(T.WithShape(count, width), T.WithBacking(xBacking)),
		Targets: T.New(T.WithShape(count, mnistClasses), T.WithBacking(yBacking)),
	}, nil
}
