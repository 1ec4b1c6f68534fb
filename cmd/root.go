package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/techjojo/catalogue/internal/api"
	"github.com/techjojo/catalogue/internal/browse"
	"github.com/techjojo/catalogue/internal/catalog"
	"github.com/techjojo/catalogue/internal/config"
	"github.com/techjojo/catalogue/internal/display"
	"github.com/techjojo/catalogue/internal/filter"
	"github.com/techjojo/catalogue/internal/loader"
	"go.uber.org/zap"
)

var (
	flagConfig   string
	flagTheme    string
	flagVerbose  bool
	flagJSON     bool
	flagCategory string
	flagURL      string
	flagQuery    string
	flagFilters  []string
	flagPrice    string
	flagPage     int
	flagPageSize int
	flagSort     string
	flagLimit    int
)

var rootCmd = &cobra.Command{
	Use:   "techjojo [category]",
	Short: "Browse techjojo's electronics catalogue from the terminal",
	Long: "CLI tool that loads a product sheet (a published CSV export), derives filters from\n" +
		"its columns, and shows one page of matching products at a time.\n\n" +
		"Agent-friendly mode: minor syntax issues are auto-corrected when intent is clear " +
		"(for example: -category monitors, query=dell, --categroy monitors).",
	Example: `  techjojo --category monitors
  techjojo --category gaming-laptops --filter ram=16GB --price 300K-400K
  techjojo --category macbook --query "m2 air" --sort price
  techjojo --url https://example.com/sheet.csv --json
  techjojo facets --category monitors
  techjojo search --query odyssey
  techjojo tui --category desktops`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to a categories YAML file (default: built-in, or $TECHJOJO_CONFIG)")
	pf.StringVar(&flagTheme, "theme", "", "Colour theme: dark or light (default from config)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Log fetches and timings to stderr")
	pf.BoolVar(&flagJSON, "json", false, "Output as JSON")

	registerSourceFlags(rootCmd.Flags())
	registerQueryFlags(rootCmd.Flags())
	registerPageFlags(rootCmd.Flags())
}

// Execute runs the root command.
func Execute() {
	os.Exit(runCLI(os.Args[1:], os.Stdout, os.Stderr))
}

func runCLI(args []string, stdout, stderr io.Writer) int {
	resetCLIState()

	normalizedArgs, notes := normalizeCLIArgs(args)
	for _, note := range notes {
		fmt.Fprintf(stderr, "note: %s\n", note)
	}

	if len(normalizedArgs) == 0 {
		if err := printQuickStart(stdout, !isTTY(stdout)); err != nil {
			cliErr := classifyCLIError(err)
			fmt.Fprintln(stderr, formatCLIErrorText(cliErr))
			return cliErr.ExitCode
		}
		return ExitSuccess
	}

	if shouldAutoJSON(normalizedArgs, isTTY(stdout)) {
		normalizedArgs = append(normalizedArgs, "--json")
	}

	setCommandIO(rootCmd, stdout, stderr)
	rootCmd.SetArgs(normalizedArgs)

	if err := rootCmd.Execute(); err != nil {
		cliErr := classifyCLIError(err)
		if hasJSONPreference(normalizedArgs) {
			if jerr := printCLIErrorJSON(stderr, cliErr); jerr != nil {
				fmt.Fprintln(stderr, formatCLIErrorText(classifyCLIError(jerr)))
				return ExitInternal
			}
		} else {
			fmt.Fprintln(stderr, formatCLIErrorText(cliErr))
		}
		return cliErr.ExitCode
	}
	return ExitSuccess
}

func setCommandIO(cmd *cobra.Command, stdout, stderr io.Writer) {
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	for _, child := range cmd.Commands() {
		setCommandIO(child, stdout, stderr)
	}
}

func resetCLIState() {
	flagConfig = ""
	flagTheme = ""
	flagVerbose = false
	flagJSON = false
	flagCategory = ""
	flagURL = ""
	flagQuery = ""
	flagFilters = nil
	flagPrice = ""
	flagPage = 1
	flagPageSize = 0
	flagSort = ""
	flagLimit = 0
	flagSearchTop = 3
}

func registerSourceFlags(f *pflag.FlagSet) {
	f.StringVarP(&flagCategory, "category", "c", "", "Category slug or title (see `techjojo categories`)")
	f.StringVarP(&flagURL, "url", "u", "", "Load any published CSV export instead of a category")
}

func registerQueryFlags(f *pflag.FlagSet) {
	f.StringVarP(&flagQuery, "query", "q", "", "Search every column (case, accents and punctuation ignored)")
	f.StringArrayVarP(&flagFilters, "filter", "f", nil, "Exact column filter KEY=VALUE, repeatable (e.g., ram=16GB)")
	f.StringVarP(&flagPrice, "price", "p", "", "Price range such as 300K-400K")
}

func registerPageFlags(f *pflag.FlagSet) {
	f.IntVar(&flagPage, "page", 1, "Page number (clamped to the available pages)")
	f.IntVar(&flagPageSize, "page-size", 0, "Products per page (default from config, 8)")
	f.StringVar(&flagSort, "sort", "", "Sort by source, price, price-desc, or name")
	f.IntVarP(&flagLimit, "limit", "n", 0, "Limit number of matched products (0 = all)")
}

// app holds what every command needs once flags are parsed.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	money  *display.CurrencyFormatter
}

func newApp(cmd *cobra.Command) (*app, error) {
	if err := config.LoadEnv(""); err != nil {
		return nil, invalidArgsError(err.Error(), "Fix or remove the .env file in the working directory.")
	}
	cfg, err := config.Load(config.ResolvePath(flagConfig))
	if err != nil {
		return nil, invalidArgsError(err.Error(), "techjojo categories --config ./categories.yaml")
	}

	theme := flagTheme
	if theme == "" {
		theme = os.Getenv(config.EnvTheme)
	}
	if theme == "" {
		theme = cfg.Store.Theme
	}
	if err := display.UseTheme(theme); err != nil {
		return nil, invalidArgsError(err.Error(), "techjojo --theme light --category monitors")
	}

	return &app{
		cfg:    cfg,
		logger: newLogger(cmd.ErrOrStderr(), flagVerbose),
		money:  display.NewCurrencyFormatter(cfg.Store.Currency, cfg.Store.Locale),
	}, nil
}

// source is where one catalogue's rows come from.
type source struct {
	Slug     string
	Title    string
	URL      string
	Fallback catalog.Table
	Keys     []filter.FilterKey
	PageSize int
}

func (a *app) resolveSource(positional []string) (source, error) {
	if flagURL != "" {
		return source{Slug: "custom", Title: "Custom sheet", URL: flagURL, PageSize: browse.DefaultPageSize}, nil
	}

	name := flagCategory
	if name == "" && len(positional) > 0 {
		name = positional[0]
	}
	if strings.TrimSpace(name) == "" {
		return source{}, invalidArgsError(
			"please provide --category SLUG or --url CSV_URL",
			"techjojo --category monitors",
			"techjojo categories",
		)
	}

	cat, err := a.cfg.Category(name)
	if err != nil {
		if errors.Is(err, config.ErrUnknownCategory) {
			suggestions := []string{"techjojo categories"}
			if slug, ok := closestMatch(strings.ToLower(name), a.cfg.Slugs(), 3); ok {
				suggestions = append([]string{fmt.Sprintf("Did you mean `%s`?", slug)}, suggestions...)
			}
			return source{}, notFoundError(err.Error(), suggestions...)
		}
		return source{}, err
	}
	return sourceFor(cat), nil
}

func sourceFor(cat config.Category) source {
	return source{
		Slug:     cat.Slug,
		Title:    cat.Title,
		URL:      cat.URL,
		Fallback: cat.Fallback(),
		Keys:     cat.Filters,
		PageSize: cat.PageSize,
	}
}

func (a *app) loadTable(ctx context.Context, src source) (catalog.Table, error) {
	l := loader.New(api.NewClient(), src.Fallback, a.logger.With(zap.String("category", src.Slug)))
	defer l.Close()

	state, _ := l.Load(ctx, src.URL)
	if state.Err != "" {
		return catalog.Table{}, loadFailure(state)
	}
	if len(state.Rows) == 0 {
		return catalog.Table{}, notFoundError(
			fmt.Sprintf("no products found in %s", src.Title),
			"Check the sheet is published as CSV.",
		)
	}
	return catalog.Table{Headers: state.Headers, Rows: state.Rows}, nil
}

// newSession builds a query session over table from the shared query and
// page flags.
func newSession(src source, table catalog.Table) (*browse.Session, error) {
	pageSize := src.PageSize
	if flagPageSize > 0 {
		pageSize = flagPageSize
	}
	s := browse.NewSession(pageSize, browse.WithFilterKeys(src.Keys), browse.WithLimit(flagLimit))
	s.SetTable(table)

	if err := applyQueryFlags(s, src); err != nil {
		return nil, err
	}
	s.GoTo(flagPage)
	return s, nil
}

func applyQueryFlags(s *browse.Session, src source) error {
	mode, ok := filter.NormalizeSortMode(flagSort)
	if !ok {
		return invalidArgsError(
			"invalid value for --sort (use source, price, price-desc, or name)",
			"techjojo --category monitors --sort price",
		)
	}
	s.SetSort(mode)
	s.SetQuery(flagQuery)

	if flagPrice != "" {
		if _, ok := filter.RangeFromLabel(flagPrice); !ok {
			return invalidArgsError(
				fmt.Sprintf("invalid value for --price: %q", flagPrice),
				"techjojo --category monitors --price 100K-200K",
			)
		}
		s.SetFilter(filter.PriceRangeKey, flagPrice)
	}

	headers := s.Dataset().Headers
	for _, raw := range flagFilters {
		key, value, found := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return invalidArgsError(
				fmt.Sprintf("invalid value for --filter: %q (want KEY=VALUE)", raw),
				"techjojo --category monitors --filter brand=Samsung",
			)
		}
		header, ok := filter.ResolveKey(headers, src.Keys, key)
		if !ok {
			return invalidArgsError(
				fmt.Sprintf("unknown filter %q for %s", key, src.Title),
				fmt.Sprintf("techjojo facets --category %s", src.Slug),
			)
		}
		s.SetFilter(header, value)
	}
	return nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
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

	view := session.View()
	if view.Matched == 0 {
		return notFoundError(
			"no products match your filters",
			"Relax filters like --query/--filter/--price.",
		)
	}

	listing := display.Listing{
		Category: src.Title,
		Headers:  session.Dataset().Headers,
		View:     view,
		Money:    a.money,
		WhatsApp: a.cfg.Store.WhatsApp,
	}
	if flagJSON {
		return display.PrintListingJSON(cmd.OutOrStdout(), listing)
	}
	if src.URL == "" {
		display.PrintContext(cmd.OutOrStdout(), fmt.Sprintf("Showing built-in %s listings.", src.Title))
	}
	display.PrintListing(cmd.OutOrStdout(), listing)
	return nil
}
