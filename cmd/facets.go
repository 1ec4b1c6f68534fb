package cmd

import (
	"github.com/spf13/cobra"
	"github.com/techjojo/catalogue/internal/display"
)

var facetsCmd = &cobra.Command{
	Use:   "facets [category]",
	Short: "List the filter values and price ranges a category offers",
	Long: "Loads a category and prints every column with two or more distinct values,\n" +
		"with how many products carry each value, followed by the price ranges.\n" +
		"Use the values with --filter KEY=VALUE and --price.",
	Example: `  techjojo facets --category monitors
  techjojo facets gaming-laptops --json
  techjojo facets --url https://example.com/sheet.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFacets,
}

func init() {
	rootCmd.AddCommand(facetsCmd)

	registerSourceFlags(facetsCmd.Flags())
}

func runFacets(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	src, err := a.resolveSource(args)
	if err != nil {
		return err
	}
	table, err := a.loadTable(cmd.Context(), src)
	if err != nil {
		return err
	}
	session, err := newSession(src, table)
	if err != nil {
		return err
	}

	headers := session.Dataset().Headers
	if flagJSON {
		return display.PrintFacetsJSON(cmd.OutOrStdout(), src.Title, headers, session.Facets(), session.Buckets())
	}
	display.PrintFacets(cmd.OutOrStdout(), src.Title, headers, session.Facets(), session.Buckets())
	return nil
}
