package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dense-ml/dense/dataset"
	"github.com/dense-ml/dense/internal/config"
	"github.com/dense-ml/dense/train"
)

func newTrainCmd(debug *bool) *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a network described by an experiment config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := newLogger(*debug)

			exp, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			ds, err := buildDataset(exp)
			if err != nil {
				return err
			}

			trainSet := ds
			var opts []train.TrainerOption
			if exp.EvalSplit > 0 {
				var valSet *dataset.InMemory
				trainSet, valSet, err = ds.Split(exp.EvalSplit)
				if err != nil {
					return err
				}
				valLoader, err := dataset.NewLoader(valSet, exp.BatchSize, false, exp.Seed)
				if err != nil {
					return fmt.Errorf("validation loader: %w", err)
				}
				opts = append(opts, train.WithValidation(valLoader))
			}

			loader, err := dataset.NewLoader(trainSet, exp.BatchSize, true, exp.Seed)
			if err != nil {
				return fmt.Errorf("train loader: %w", err)
			}

			model, err := buildModel(exp, ds)
			if err != nil {
				return err
			}
			defer func() {
				_ = model.Close()
			}()

			solver, solverName, solverCfg, err := buildSolver(exp)
			if err != nil {
				return err
			}

			opts = append(opts,
				train.WithLogger(log),
				train.WithSolverInfo(solverName, solverCfg),
			)
			if exp.Checkpoint.Path != "" {
				opts = append(opts, train.WithCheckpoint(
					exp.Checkpoint.Path,
					exp.Checkpoint.Every,
					map[string]string{"task": exp.Task},
				))
			}

			log.Info("training",
				"task", exp.Task,
				"samples", trainSet.Len(),
				"epochs", exp.Epochs,
				"batch_size", exp.BatchSize,
				"hidden", fmt.Sprint(exp.Hidden),
				"solver", solverName)

			history, err := train.New(model, solver, opts...).Run(loader, exp.Epochs)
			if err != nil {
				return err
			}

			final := history[len(history)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "final loss: %.6f\n", final.Loss)
			if final.HasVal {
				fmt.Fprintf(cmd.OutOrStdout(), "val loss: %.6f, val accuracy: %.2f%%\n",
					final.ValLoss, final.ValAccuracy*100)
			}
			if exp.Checkpoint.Path != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "checkpoint: %s\n", exp.Checkpoint.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "experiment config file (YAML)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}
