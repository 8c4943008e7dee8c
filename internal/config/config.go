// Package config loads and validates YAML experiment descriptions for the
// dense CLI.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Common errors.
var (
	ErrInvalidConfig = errors.New("invalid config")
)

// Experiment describes one training run: the task to synthesize, the
// network shape and the optimization settings.
type Experiment struct {
	Task      string `yaml:"task"` // xor | sine | spirals
	Samples   int    `yaml:"samples"`
	Epochs    int    `yaml:"epochs"`
	BatchSize int    `yaml:"batch_size"`
	Seed      int64  `yaml:"seed"`

	Hidden           []int  `yaml:"hidden"`
	HiddenActivation string `yaml:"hidden_activation"`
	OutputActivation string `yaml:"output_activation"`
	Loss             string `yaml:"loss"`

	Solver SolverConfig `yaml:"solver"`

	EvalSplit  float64          `yaml:"eval_split"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`
}

// SolverConfig selects the gradient update rule.
type SolverConfig struct {
	Type      string  `yaml:"type"` // adam | rmsprop | vanilla
	LearnRate float64 `yaml:"learn_rate"`
}

// CheckpointConfig controls periodic checkpointing during training.
type CheckpointConfig struct {
	Path  string `yaml:"path"`
	Every int    `yaml:"every"`
}

// Load reads an experiment file, applies defaults and validates it.
func Load(path string) (Experiment, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Experiment{}, fmt.Errorf("failed to read config: %w", err)
	}

	var exp Experiment
	if err := yaml.Unmarshal(b, &exp); err != nil {
		return Experiment{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	exp.applyDefaults()
	if err := exp.Validate(); err != nil {
		return Experiment{}, err
	}
	return exp, nil
}

func (e *Experiment) applyDefaults() {
	if e.Samples == 0 {
		e.Samples = 1000
	}
	if e.Epochs == 0 {
		e.Epochs = 100
	}
	if e.BatchSize == 0 {
		e.BatchSize = 32
	}
	if e.HiddenActivation == "" {
		e.HiddenActivation = "sigmoid"
	}
	if e.OutputActivation == "" {
		e.OutputActivation = "identity"
	}
	if e.Loss == "" {
		e.Loss = "mse"
	}
	if e.Solver.Type == "" {
		e.Solver.Type = "adam"
	}
	if e.Solver.LearnRate == 0 {
		e.Solver.LearnRate = 0.01
	}
}

// Validate returns a field-specific error for the first problem found.
func (e Experiment) Validate() error {
	switch e.Task {
	case "xor", "sine", "spirals":
	case "":
		return fmt.Errorf("%w: task is required", ErrInvalidConfig)
	default:
		return fmt.Errorf("%w: unknown task %q", ErrInvalidConfig, e.Task)
	}

	if e.Samples < 0 {
		return fmt.Errorf("%w: samples must be non-negative, got %d", ErrInvalidConfig, e.Samples)
	}
	if e.Epochs <= 0 {
		return fmt.Errorf("%w: epochs must be positive, got %d", ErrInvalidConfig, e.Epochs)
	}
	if e.BatchSize <= 0 {
		return fmt.Errorf("%w: batch_size must be positive, got %d", ErrInvalidConfig, e.BatchSize)
	}
	for i, h := range e.Hidden {
		if h <= 0 {
			return fmt.Errorf("%w: hidden[%d] must be positive, got %d", ErrInvalidConfig, i, h)
		}
	}

	switch e.HiddenActivation {
	case "sigmoid", "tanh", "relu", "identity":
	default:
		return fmt.Errorf("%w: unknown hidden_activation %q", ErrInvalidConfig, e.HiddenActivation)
	}
	switch e.OutputActivation {
	case "sigmoid", "tanh", "relu", "identity", "softmax":
	default:
		return fmt.Errorf("%w: unknown output_activation %q", ErrInvalidConfig, e.OutputActivation)
	}
	switch e.Loss {
	case "mse", "cross_entropy":
	default:
		return fmt.Errorf("%w: unknown loss %q", ErrInvalidConfig, e.Loss)
	}

	switch e.Solver.Type {
	case "adam", "rmsprop", "vanilla":
	default:
		return fmt.Errorf("%w: unknown solver type %q", ErrInvalidConfig, e.Solver.Type)
	}
	if e.Solver.LearnRate <= 0 {
		return fmt.Errorf("%w: learn_rate must be positive, got %v", ErrInvalidConfig, e.Solver.LearnRate)
	}

	if e.EvalSplit < 0 || e.EvalSplit >= 1 {
		return fmt.Errorf("%w: eval_split must be in [0, 1), got %v", ErrInvalidConfig, e.EvalSplit)
	}
	if e.Checkpoint.Every < 0 {
		return fmt.Errorf("%w: checkpoint.every must be non-negative, got %d", ErrInvalidConfig, e.Checkpoint.Every)
	}
	return nil
}
