package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the content catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scenarios and topics (optionally only one kind)",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		switch kind {
		case "", "all", "scenarios", "topics":
		default:
			return fmt.Errorf("invalid kind %q: must be scenarios, topics or all", kind)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cfg.ContentPath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if kind != "topics" {
			fmt.Fprintf(out, "%-20s  %-30s  %5s\n", "SCENARIO", "Title", "Nodes")
			fmt.Fprintln(out, strings.Repeat("─", 60))
			for _, sc := range cat.Scenarios() {
				fmt.Fprintf(out, "%-20s  %-30s  %5d\n", sc.ID, truncate(sc.Title, 30), len(sc.Nodes))
			}
			fmt.Fprintln(out)
		}
		if kind != "scenarios" {
			fmt.Fprintf(out, "%-20s  %-30s  %-16s  %6s\n", "TOPIC", "Name", "Category", "Levels")
			fmt.Fprintln(out, strings.Repeat("─", 78))
			for _, c := range cat.Categories() {
				for _, t := range c.Topics {
					fmt.Fprintf(out, "%-20s  %-30s  %-16s  %6d\n", t.ID, truncate(t.Name, 30), c.Name, len(t.Levels))
				}
			}
			fmt.Fprintln(out)
		}

		fmt.Fprintf(out, "%d scenarios, %d topics (catalog %s)\n",
			len(cat.Scenarios()), len(cat.Topics()), cat.Version())
		return nil
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the catalog as normalized JSON",
	Long: `Print the active catalog (built-in or --content) as a JSON document.

The output carries the canonical version and explicit level types, and
can be passed back with --content.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cfg.ContentPath)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(cat.Document(), "", "  ")
		if err != nil {
			return fmt.Errorf("encode catalog: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	catalogListCmd.Flags().String("kind", "all", "What to list: scenarios, topics or all")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogExportCmd)
}
