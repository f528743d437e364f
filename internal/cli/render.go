package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"dirtally/internal/render"
	"dirtally/internal/tree"
)

var (
	renderOutput string
	renderColor  bool
)

var renderCmd = &cobra.Command{
	Use:   "render <snapshot.json>",
	Short: "Draw a snapshot as an ASCII tree",
	Args:  cobra.ExactArgs(1),
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
		for _, m := range snapshot.Malformed {
			a.log.Warningf("'type' key not found for item %s", m.Path)
		}

		r := &render.Renderer{
			Color: renderColor,
			Warn: func(name string) {
				a.log.Warningf("'type' key not found for item %s", name)
			},
		}
		drawn := r.Render(snapshot.Tree)

		if renderOutput == "" {
			fmt.Fprint(cmd.OutOrStdout(), drawn)
			return nil
		}
		if err := writeFile(renderOutput, drawn); err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), "ASCII tree written to "+renderOutput)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write the tree to this file instead of stdout")
	renderCmd.Flags().BoolVar(&renderColor, "color", false, "Print directory names in colour")
}
