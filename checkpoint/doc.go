// Copyright 2025 The Dense Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package checkpoint saves and restores trained models.
//
// A checkpoint is a single .dense file bundling the model's architecture
// record (input width, output width, ordered hidden-layer widths) with its
// parameter tensors. The contract is strict on the way back in: a model is
// first rebuilt from the recorded dimensions, then populated, and loading
// fails outright if any stored tensor does not exactly match the shape the
// rebuilt model expects. There is no shape adaptation, no partial loading
// and no tolerance; a failed load never mutates the target model.
//
//	// After training:
//	checkpoint.Save(model, "model.dense", nil)
//
//	// Later, possibly in another process:
//	model, header, err := checkpoint.Load("model.dense", mlp.WithBatchSize(1))
package checkpoint
