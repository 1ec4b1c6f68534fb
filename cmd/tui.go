package cmd

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/techjojo/catalogue/internal/display"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [category]",
	Short: "Browse the catalogue interactively in the terminal",
	Example: `  techjojo tui --category monitors
  techjojo tui gaming-laptops --filter ram=16GB --sort price
  techjojo tui --url https://example.com/sheet.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	registerSourceFlags(tuiCmd.Flags())
	registerQueryFlags(tuiCmd.Flags())
	registerPageFlags(tuiCmd.Flags())
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !flagJSON && !isInteractiveSession(cmd.InOrStdin(), cmd.OutOrStdout()) {
		return invalidArgsError(
			"`techjojo tui` requires an interactive terminal",
			"Use `techjojo --category monitors --json` in pipelines.",
		)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	src, err := a.resolveSource(args)
	if err != nil {
		return err
	}

	if flagJSON {
		table, err := a.loadTable(cmd.Context(), src)
		if err != nil {
			return err
		}
		session, err := newSession(src, table)
		if err != nil {
			return err
		}
		return display.PrintListingJSON(cmd.OutOrStdout(), display.Listing{
			Category: src.Title,
			Headers:  session.Dataset().Headers,
			View:     session.View(),
			Money:    a.money,
			WhatsApp: a.cfg.Store.WhatsApp,
		})
	}

	// Log lines on stderr would tear the alternate screen.
	if !flagVerbose {
		a.logger = zap.NewNop()
	}

	model := newCatalogueTUIModel(cmd.Context(), a, a.tuiSources(src), src)
	defer model.close()

	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	if m, ok := final.(catalogueTUIModel); ok && m.fatalErr != nil {
		return m.fatalErr
	}
	return nil
}

// tuiSources lists the categories the TUI can switch between. A custom sheet
// stands alone.
func (a *app) tuiSources(initial source) []source {
	if initial.Slug == "custom" {
		return []source{initial}
	}
	out := make([]source, 0, len(a.cfg.Categories))
	for _, cat := range a.cfg.Categories {
		out = append(out, sourceFor(cat))
	}
	return out
}

func isInteractiveSession(stdin io.Reader, stdout io.Writer) bool {
	inputFile, ok := stdin.(*os.File)
	if !ok {
		return false
	}
	if !term.IsTerminal(int(inputFile.Fd())) {
		return false
	}
	return isTTY(stdout)
}
