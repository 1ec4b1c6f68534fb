package cmd

import (
	"github.com/spf13/cobra"
	"github.com/techjojo/catalogue/internal/display"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the catalogue's categories",
	Example: `  techjojo categories
  techjojo categories --json
  techjojo categories --config ./categories.yaml`,
	Args: cobra.NoArgs,
	RunE: runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	if flagJSON {
		return display.PrintCategoriesJSON(cmd.OutOrStdout(), a.cfg.Categories)
	}
	display.PrintCategories(cmd.OutOrStdout(), a.cfg.Store.Name, a.cfg.Categories)
	return nil
}
