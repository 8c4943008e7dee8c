// Copyright 2025 The Dense Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package checkpoint

import (
	"fmt"

	"github.com/dense-ml/dense/internal/serialization"
	"github.com/dense-ml/dense/mlp"
)

// Save writes a model's architecture and parameters to a .dense file.
//
// The resulting file is self-describing: Load can rebuild a matching model
// from it without any out-of-band knowledge of the dimensions.
//
// Example:
//
//	model, _ := mlp.New(mlp.Arch{In: 784, Out: 10, Hidden: []int{128}})
//	err := checkpoint.Save(model, "mnist.dense", map[string]string{"task": "mnist"})
func Save(m *mlp.MLP, path string, metadata map[string]string) error {
	return save(m, path, serialization.Header{
		ModelType: mlp.ModelType,
		Arch:      archRecord(m.Arch()),
		Metadata:  metadata,
	})
}

// SaveWithTraining is Save with training-state metadata (epoch, step, loss,
// solver) recorded in the header. The Trainer uses it for periodic
// checkpoints.
func SaveWithTraining(m *mlp.MLP, path string, metadata map[string]string, training *serialization.TrainingMeta) error {
	return save(m, path, serialization.Header{
		ModelType: mlp.ModelType,
		Arch:      archRecord(m.Arch()),
		Metadata:  metadata,
		Training:  training,
	})
}

func save(m *mlp.MLP, path string, header serialization.Header) error {
	writer, err := serialization.NewWriter(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = writer.Close()
	}()

	return writer.WriteStateDictWithHeader(m.StateDict(), header)
}

// Load reads a .dense file, rebuilds a model from the recorded input,
// output and hidden-layer widths, and populates it with the stored
// parameters.
//
// The architecture always comes from the file; opts supply everything the
// record does not carry (batch size, activations, loss). A file whose
// tensors do not exactly match the shapes implied by its own architecture
// record fails to load.
func Load(path string, opts ...mlp.Option) (*mlp.MLP, *serialization.Header, error) {
	reader, err := serialization.NewReader(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = reader.Close()
	}()

	arch := reader.Arch()
	model, err := mlp.New(mlp.Arch{In: arch.Input, Out: arch.Output, Hidden: arch.Hidden}, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to rebuild model from recorded architecture: %w", err)
	}

	state, err := reader.ReadStateDict()
	if err != nil {
		_ = model.Close()
		return nil, nil, err
	}
	if err := model.SetState(state); err != nil {
		_ = model.Close()
		return nil, nil, err
	}

	header := reader.Header()
	return model, &header, nil
}

// LoadInto populates an existing model with the parameters stored at path.
//
// The stored tensors must exactly match the model's expected shapes; on any
// mismatch LoadInto returns a shape-mismatch error and leaves the model's
// parameters untouched. No reshaping and no partial loading.
func LoadInto(path string, m *mlp.MLP) error {
	reader, err := serialization.NewReader(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = reader.Close()
	}()

	state, err := reader.ReadStateDict()
	if err != nil {
		return err
	}
	return m.SetState(state)
}

// archRecord converts the model architecture to its serialized form.
func archRecord(a mlp.Arch) serialization.Arch {
	return serialization.Arch{Input: a.In, Output: a.Out, Hidden: a.Hidden}
}
