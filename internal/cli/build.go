package cli

import (
	"fmt"

	G "gorgonia.org/gorgonia"

	"github.com/dense-ml/dense/dataset"
	"github.com/dense-ml/dense/internal/config"
	"github.com/dense-ml/dense/mlp"
)

// buildDataset synthesizes the task named by the experiment.
func buildDataset(exp config.Experiment) (*dataset.InMemory, error) {
	switch exp.Task {
	case "xor":
		return dataset.XOR(), nil
	case "sine":
		return dataset.Sine(exp.Samples, exp.Seed), nil
	case "spirals":
		return dataset.TwoSpirals(exp.Samples, exp.Seed), nil
	default:
		return nil, fmt.Errorf("unknown task %q", exp.Task)
	}
}

// modelOptions maps experiment fields to mlp construction options.
// The architecture itself is not an option; it comes from the dataset and
// config (train) or from the checkpoint record (eval).
func modelOptions(exp config.Experiment) []mlp.Option {
	return []mlp.Option{
		mlp.WithBatchSize(exp.BatchSize),
		mlp.WithHiddenActivation(mlp.Activation(exp.HiddenActivation)),
		mlp.WithOutputActivation(mlp.Activation(exp.OutputActivation)),
		mlp.WithLoss(mlp.Loss(exp.Loss)),
	}
}

// buildModel constructs a fresh model for the dataset's dimensions.
func buildModel(exp config.Experiment, ds *dataset.InMemory) (*mlp.MLP, error) {
	arch := mlp.Arch{In: ds.InDim(), Out: ds.OutDim(), Hidden: exp.Hidden}
	return mlp.New(arch, modelOptions(exp)...)
}

// buildSolver constructs the configured gorgonia solver and returns it
// along with the name and hyperparameters to record in checkpoints.
func buildSolver(exp config.Experiment) (G.Solver, string, map[string]any, error) {
	lr := exp.Solver.LearnRate
	cfg := map[string]any{"learn_rate": lr}

	switch exp.Solver.Type {
	case "adam":
		return G.NewAdamSolver(G.WithLearnRate(lr)), "adam", cfg, nil
	case "rmsprop":
		return G.NewRMSPropSolver(G.WithLearnRate(lr)), "rmsprop", cfg, nil
	case "vanilla":
		return G.NewVanillaSolver(G.WithLearnRate(lr)), "vanilla", cfg, nil
	default:
		return nil, "", nil, fmt.Errorf("unknown solver type %q", exp.Solver.Type)
	}
}
