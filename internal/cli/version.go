package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "v0.3.1"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dense %s\n", version)
		},
	}
}
