package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/parley/internal/catalog"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a catalog file for schema and structure problems",
	Long: `Validate a catalog file without starting the game.

Reports schema violations, unsupported versions, dangling next nodes,
unreachable nodes, answers missing from their options and duplicate ids.
With no file the built-in catalog is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else if p, _ := cmd.Flags().GetString("content"); p != "" {
			path = p
		}

		var (
			cat *catalog.Catalog
			err error
		)
		name := "built-in catalog"
		if path == "" {
			cat, err = catalog.Default()
		} else {
			name = path
			cat, err = catalog.Load(path)
		}
		out := cmd.OutOrStdout()
		if err != nil {
			fmt.Fprintf(out, "%s: invalid\n\n%v\n", name, err)
			return fmt.Errorf("%s failed validation", name)
		}

		fmt.Fprintf(out, "%s: ok (version %s)\n", name, cat.Version())
		fmt.Fprintf(out, "  %d scenarios, %d topics, %d levels\n",
			len(cat.Scenarios()), len(cat.Topics()), cat.LevelCount())
		return nil
	},
}
