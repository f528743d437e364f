package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"dirtally/internal/index"
	"dirtally/internal/progress"
	"dirtally/internal/tree"
	"dirtally/internal/verify"
)

var verifyReportPath string

var verifyCmd = &cobra.Command{
	Use:   "verify <snapshot.json>",
	Short: "Check a snapshot's directory totals against the filesystem",
	Long: `Re-traverse every directory recorded in the snapshot and compare its
stored totals with what is on disk now. Exits with status 1 when any
directory disagrees.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		snapshot, err := tree.Load(args[0])
		if err != nil {
			return err
		}
		state, err := index.LoadState(a.cfg.IndexFile)
		if err != nil {
			return err
		}

		bar := progress.New(int64(verify.CountDirectories(snapshot.Tree)), cmd.ErrOrStderr())
		result := verify.New(a.walker(), state, a.log).WithProgress(bar).Verify(snapshot)
		bar.Finish()

		report := verify.FormatReport(result)
		out := cmd.OutOrStdout()
		if verifyReportPath != "" {
			if err := writeFile(verifyReportPath, report); err != nil {
				return err
			}
			printLabelValue(out, "Report", verifyReportPath)
		} else {
			fmt.Fprint(out, report)
		}

		if result.HasDiscrepancies() {
			return fmt.Errorf("verification found %d discrepancies", len(result.Discrepancies))
		}
		printSuccess(out, fmt.Sprintf("%d directories match their stored totals", result.Checked))
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyReportPath, "report", "r", "", "Write the Markdown report to this file instead of stdout")
}
