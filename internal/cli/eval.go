package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dense-ml/dense/checkpoint"
	"github.com/dense-ml/dense/dataset"
	"github.com/dense-ml/dense/internal/config"
	"github.com/dense-ml/dense/train"
)

func newEvalCmd(debug *bool) *cobra.Command {
	var cfgPath string
	var ckptPath string

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a checkpoint against its experiment's task",
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
			loader, err := dataset.NewLoader(ds, exp.BatchSize, false, exp.Seed)
			if err != nil {
				return err
			}

			// The architecture comes from the checkpoint record; the config
			// only supplies what the record does not carry.
			model, header, err := checkpoint.Load(ckptPath, modelOptions(exp)...)
			if err != nil {
				return err
			}
			defer func() {
				_ = model.Close()
			}()

			log.Debug("checkpoint loaded",
				"model_type", header.ModelType,
				"arch", fmt.Sprintf("%d-%v-%d", header.Arch.Input, header.Arch.Hidden, header.Arch.Output))

			loss, accuracy, err := train.New(model, nil, train.WithLogger(log)).Evaluate(loader)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "loss: %.6f\n", loss)
			if exp.Loss == "cross_entropy" {
				fmt.Fprintf(cmd.OutOrStdout(), "accuracy: %.2f%%\n", accuracy*100)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "experiment config file (YAML)")
	cmd.Flags().StringVar(&ckptPath, "checkpoint", "", "checkpoint file (.dense)")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("checkpoint")
	return cmd
}
