package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"dirtally/internal/report"
	"dirtally/internal/tree"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <snapshot.json>",
	Short: "Print overall and per-module totals of a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := tree.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), report.Generate(snapshot))
		return nil
	},
}
