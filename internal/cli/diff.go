package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"dirtally/internal/compare"
	"dirtally/internal/tree"
)

var diffCmd = &cobra.Command{
	Use:   "diff <old.json> <new.json>",
	Short: "List files added, modified or deleted between two snapshots",
	Long:  `Match files of both snapshots by relative path and compare their content hashes. Exits with status 1 when anything changed.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		oldSnapshot, err := tree.Load(args[0])
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", args[0], err)
		}
		newSnapshot, err := tree.Load(args[1])
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", args[1], err)
		}

		out := cmd.OutOrStdout()
		if oldSnapshot.Digest != "" && oldSnapshot.Digest == newSnapshot.Digest {
			printSuccess(out, "Digests match: "+newSnapshot.Digest)
			return nil
		}

		result := compare.Compare(oldSnapshot.Tree, newSnapshot.Tree)
		fmt.Fprintln(out, compare.FormatReport(result))

		if result.HasChanges() {
			return fmt.Errorf("%d added, %d modified, %d deleted",
				len(result.Added), len(result.Modified), len(result.Deleted))
		}
		return nil
	},
}
