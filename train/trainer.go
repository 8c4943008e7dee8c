package train

import (
	"errors"
	"fmt"
	"log/slog"

	G "gorgonia.org/gorgonia"

	"github.com/dense-ml/dense/checkpoint"
	"github.com/dense-ml/dense/dataset"
	"github.com/dense-ml/dense/internal/serialization"
	"github.com/dense-ml/dense/mlp"
)

// EpochStats records one epoch of training.
type EpochStats struct {
	Epoch       int
	Loss        float64 // average training batch loss
	ValLoss     float64
	ValAccuracy float64
	HasVal      bool
}

// History is the per-epoch record of a training run.
type History []EpochStats

// Trainer drives epochs of batch updates over a model. Execution is
// strictly sequential: fetch batch, forward, backward, solver step, next
// batch. The only mutable state is the model's own parameters.
type Trainer struct {
	model  *mlp.MLP
	solver G.Solver
	log    *slog.Logger

	val *dataset.Loader

	ckptPath  string
	ckptEvery int
	metadata  map[string]string

	solverType   string
	solverConfig map[string]any

	step int64
}

// TrainerOption configures a Trainer.
type TrainerOption func(*Trainer)

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(log *slog.Logger) TrainerOption {
	return func(t *Trainer) { t.log = log }
}

// WithValidation evaluates the model on the given loader after every epoch.
func WithValidation(val *dataset.Loader) TrainerOption {
	return func(t *Trainer) { t.val = val }
}

// WithCheckpoint saves the model to path every `every` epochs and after the
// final epoch, stamping the header with the training state.
func WithCheckpoint(path string, every int, metadata map[string]string) TrainerOption {
	return func(t *Trainer) {
		t.ckptPath = path
		t.ckptEvery = every
		t.metadata = metadata
	}
}

// WithSolverInfo records the solver's name and hyperparameters in
// checkpoint headers. Gorgonia solvers don't expose their configuration,
// so the caller that constructed the solver supplies it.
func WithSolverInfo(name string, config map[string]any) TrainerOption {
	return func(t *Trainer) {
		t.solverType = name
		t.solverConfig = config
	}
}

// New creates a Trainer for the model and solver.
func New(model *mlp.MLP, solver G.Solver, opts ...TrainerOption) *Trainer {
	t := &Trainer{
		model:  model,
		solver: solver,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run trains for the given number of epochs and returns the history.
func (t *Trainer) Run(loader *dataset.Loader, epochs int) (History, error) {
	if epochs <= 0 {
		return nil, errors.New("epochs must be positive")
	}

	history := make(History, 0, epochs)
	for epoch := 1; epoch <= epochs; epoch++ {
		loader.Reset()

		var sum float64
		batches := 0
		for {
			x, y, ok := loader.Next()
			if !ok {
				break
			}
			loss, err := t.model.FitBatch(x, y, t.solver)
			if err != nil {
				return history, fmt.Errorf("epoch %d batch %d: %w", epoch, batches, err)
			}
			sum += loss
			batches++
			t.step++
		}
		if batches == 0 {
			return history, errors.New("loader produced no batches")
		}

		stats := EpochStats{Epoch: epoch, Loss: sum / float64(batches)}

		if t.val != nil {
			valLoss, valAcc, err := t.Evaluate(t.val)
			if err != nil {
				return history, fmt.Errorf("epoch %d validation: %w", epoch, err)
			}
			stats.ValLoss = valLoss
			stats.ValAccuracy = valAcc
			stats.HasVal = true
			t.log.Info("epoch complete",
				"epoch", epoch, "loss", stats.Loss,
				"val_loss", valLoss, "val_accuracy", valAcc)
		} else {
			t.log.Info("epoch complete", "epoch", epoch, "loss", stats.Loss)
		}

		history = append(history, stats)

		if t.shouldCheckpoint(epoch, epochs) {
			if err := t.saveCheckpoint(stats); err != nil {
				return history, fmt.Errorf("epoch %d checkpoint: %w", epoch, err)
			}
			t.log.Info("checkpoint saved", "path", t.ckptPath, "epoch", epoch)
		}
	}

	return history, nil
}

// Evaluate runs the model over every batch of the loader without updating
// parameters, returning the average loss and accuracy.
func (t *Trainer) Evaluate(loader *dataset.Loader) (loss, accuracy float64, err error) {
	loader.Reset()

	batches := 0
	for {
		x, y, ok := loader.Next()
		if !ok {
			break
		}
		batchLoss, pred, err := t.model.Eval(x, y)
		if err != nil {
			return 0, 0, err
		}
		loss += batchLoss
		accuracy += Accuracy(pred, y)
		batches++
	}
	if batches == 0 {
		return 0, 0, errors.New("loader produced no batches")
	}

	return loss / float64(batches), accuracy / float64(batches), nil
}

func (t *Trainer) shouldCheckpoint(epoch, totalEpochs int) bool {
	if t.ckptPath == "" {
		return false
	}
	if epoch == totalEpochs {
		return true
	}
	return t.ckptEvery > 0 && epoch%t.ckptEvery == 0
}

func (t *Trainer) saveCheckpoint(stats EpochStats) error {
	return checkpoint.SaveWithTraining(t.model, t.ckptPath, t.metadata, &serialization.TrainingMeta{
		Epoch:        stats.Epoch,
		Step:         t.step,
		Loss:         stats.Loss,
		SolverType:   t.solverType,
		SolverConfig: t.solverConfig,
	})
}
