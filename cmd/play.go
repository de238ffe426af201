package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <id>",
	Short: "Open a scenario or quiz topic directly",
	Long: `Open a scenario or quiz topic by id, skipping the welcome screen.

Use "parley catalog list" to see the available ids.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, args[0])
	},
}
