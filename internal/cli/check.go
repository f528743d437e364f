package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"dirtally/internal/tree"
)

var checkCmd = &cobra.Command{
	Use:   "check <snapshot.json>",
	Short: "List snapshot entries that cannot be decoded",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := tree.Load(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(snapshot.Malformed) == 0 {
			printSuccess(out, "Every entry has a valid 'type' key")
			return nil
		}
		for _, m := range snapshot.Malformed {
			fmt.Fprintf(out, "%s at path: %s\n", m.Reason, m.Path)
		}
		printWarning(out, fmt.Sprintf("%d malformed entries", len(snapshot.Malformed)))
		return nil
	},
}
