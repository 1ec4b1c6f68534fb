package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/techjojo/catalogue/internal/display"
	"github.com/techjojo/catalogue/internal/filter"
	"go.uber.org/zap"
)

var flagSearchTop int

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search every category at once",
	Long: "Loads every configured category in parallel, applies the same query, filters\n" +
		"and price range to each, and ranks categories by how many products match.",
	Example: `  techjojo search odyssey
  techjojo search --query "16gb" --price 300K-400K
  techjojo search --query hp --top 5 --json`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	registerQueryFlags(searchCmd.Flags())
	searchCmd.Flags().StringVar(&flagSort, "sort", "", "Order of the top names: source, price, price-desc, or name")
	searchCmd.Flags().IntVar(&flagSearchTop, "top", 3, "Product names to show per category (0-10)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	if flagQuery == "" && len(args) > 0 {
		flagQuery = strings.Join(args, " ")
	}
	if strings.TrimSpace(flagQuery) == "" && len(flagFilters) == 0 && flagPrice == "" {
		return invalidArgsError(
			"please provide a query, --filter, or --price to search with",
			"techjojo search odyssey",
			"techjojo search --price 100K-200K",
		)
	}
	if flagSearchTop < 0 || flagSearchTop > 10 {
		return invalidArgsError(
			"--top must be between 0 and 10",
			"techjojo search --query hp --top 3",
		)
	}
	if _, ok := filter.NormalizeSortMode(flagSort); !ok {
		return invalidArgsError(
			"invalid value for --sort (use source, price, price-desc, or name)",
			"techjojo search --query hp --sort price",
		)
	}
	if flagPrice != "" {
		if _, ok := filter.RangeFromLabel(flagPrice); !ok {
			return invalidArgsError(
				fmt.Sprintf("invalid value for --price: %q", flagPrice),
				"techjojo search --price 100K-200K",
			)
		}
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	hits := make([]display.SearchHit, len(a.cfg.Categories))
	var wg sync.WaitGroup
	for i, cat := range a.cfg.Categories {
		wg.Add(1)
		go func(i int, src source) {
			defer wg.Done()
			hits[i] = a.searchCategory(cmd.Context(), src)
		}(i, sourceFor(cat))
	}
	wg.Wait()

	results := make([]display.SearchHit, 0, len(hits))
	errCount := 0
	for _, h := range hits {
		switch {
		case h.Error != "":
			errCount++
			results = append(results, h)
		case h.Matched > 0:
			results = append(results, h)
		}
	}
	if errCount == len(hits) {
		return &cliError{
			Code:        "UPSTREAM_ERROR",
			Message:     fmt.Sprintf("loading products: all %d category loads failed", len(hits)),
			Suggestions: []string{"Retry in a moment.", "techjojo --category monitors --verbose"},
			ExitCode:    ExitUpstream,
		}
	}
	if len(results) == errCount {
		return notFoundError(
			"no category has products matching your search",
			"Relax filters like --query/--filter/--price.",
		)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Error == "") != (results[j].Error == "") {
			return results[i].Error == ""
		}
		if results[i].Matched != results[j].Matched {
			return results[i].Matched > results[j].Matched
		}
		return strings.ToLower(results[i].Title) < strings.ToLower(results[j].Title)
	})

	if flagJSON {
		return display.PrintSearchJSON(cmd.OutOrStdout(), results)
	}
	display.PrintSearch(cmd.OutOrStdout(), flagQuery, results)
	if errCount > 0 {
		display.PrintWarning(cmd.OutOrStdout(), fmt.Sprintf("note: skipped %d category(ies) that failed to load.", errCount))
	}
	return nil
}

func (a *app) searchCategory(ctx context.Context, src source) display.SearchHit {
	hit := display.SearchHit{Slug: src.Slug, Title: src.Title, Top: []string{}}

	table, err := a.loadTable(ctx, src)
	if err != nil {
		var cliErr *cliError
		if errors.As(err, &cliErr) && cliErr.ExitCode == ExitNotFound {
			return hit
		}
		hit.Error = err.Error()
		return hit
	}

	session, err := newSession(src, table)
	if err != nil {
		// A --filter naming a column this category lacks cannot match here.
		a.logger.Debug("category skipped", zap.String("category", src.Slug), zap.Error(err))
		return hit
	}

	matched := session.Matched()
	hit.Total = len(session.Dataset().Products)
	hit.Matched = len(matched)
	for i := 0; i < len(matched) && i < flagSearchTop; i++ {
		hit.Top = append(hit.Top, matched[i].Name)
	}
	return hit
}
