package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dense-ml/dense/internal/serialization"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <checkpoint>",
		Short: "Print the header and tensor table of a .dense file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := serialization.NewReader(args[0])
			if err != nil {
				return err
			}
			defer func() {
				_ = reader.Close()
			}()

			header := reader.Header()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "model type:     %s\n", header.ModelType)
			fmt.Fprintf(out, "format version: %d\n", header.FormatVersion)
			fmt.Fprintf(out, "dense version:  %s\n", header.DenseVersion)
			fmt.Fprintf(out, "created at:     %s\n", header.CreatedAt.Format(time.RFC3339))
			fmt.Fprintf(out, "architecture:   in=%d hidden=%v out=%d\n",
				header.Arch.Input, header.Arch.Hidden, header.Arch.Output)

			if t := header.Training; t != nil {
				fmt.Fprintf(out, "training:       epoch=%d step=%d loss=%.6f solver=%s\n",
					t.Epoch, t.Step, t.Loss, t.SolverType)
			}

			if len(header.Metadata) > 0 {
				fmt.Fprintln(out, "metadata:")
				keys := make([]string, 0, len(header.Metadata))
				for k := range header.Metadata {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(out, "  %s: %s\n", k, header.Metadata[k])
				}
			}

			fmt.Fprintln(out, "tensors:")
			tw := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "  NAME\tDTYPE\tSHAPE\tBYTES")
			for _, meta := range header.Tensors {
				fmt.Fprintf(tw, "  %s\t%s\t%v\t%d\n", meta.Name, meta.DType, meta.Shape, meta.Size)
			}
			return tw.Flush()
		},
	}
	return cmd
}
