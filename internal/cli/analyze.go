package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"dirtally/internal/tree"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <directory>",
	Short: "Snapshot a directory and write all analysis artefacts",
	Long: `Traverse the directory unfiltered and filtered, traverse every module listed
in the modules file, verify the filtered snapshot and write the JSON
snapshots, the error analysis report and the ASCII tree to the output
directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.analyzer().Run(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		files, dirs := result.Filtered.Tree.Stats()
		printSuccess(out, "Analysis complete")
		printLabelValue(out, "Root", result.Filtered.Root)
		printLabelValue(out, "Digest", result.Filtered.Digest)
		printLabelValue(out, "Entries", fmt.Sprintf("%d files, %d directories", files, dirs))
		printLabelValue(out, "Totals", tree.Aggregate(result.Filtered.Tree).String())
		printLabelValue(out, "Modules", fmt.Sprintf("%d", len(result.Filtered.Modules)))

		printSection(out, "Artefacts")
		for _, p := range result.Written {
			printDim(out, "  "+p)
		}

		if result.Verification.HasDiscrepancies() {
			printWarning(out, fmt.Sprintf("%d directories disagree with their stored totals", len(result.Verification.Discrepancies)))
		}
		return nil
	},
}
