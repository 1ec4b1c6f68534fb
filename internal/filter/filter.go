// Package filter derives facets from a dataset and narrows it by free text,
// exact facet values and price range.
package filter

import (
	"strings"

	"github.com/techjojo/catalogue/internal/catalog"
	"github.com/techjojo/catalogue/internal/text"
)

// PriceRangeKey is the synthetic filter key holding a bucket label.
const PriceRangeKey = "price_range"

// Options holds all filter criteria.
type Options struct {
	Query   string
	Filters map[string]string
	Sort    string
	Limit   int
}

// Apply returns the products matching every criterion, in source order unless
// a sort mode is set. Filters on headers without an offered facet are ignored,
// as are placeholder values such as "any" or "-".
func Apply(ds catalog.Dataset, facets Facets, opts Options) []catalog.Product {
	result := ds.Products

	if r, ok := RangeFromLabel(opts.Filters[PriceRangeKey]); ok {
		if header, found := FindPriceHeader(ds.Headers); found {
			result = where(result, func(p catalog.Product) bool {
				price, ok := ParsePriceCell(p.Cell(header))
				return ok && r.Contains(price)
			})
		}
	}

	if q := text.Normalize(opts.Query); q != "" {
		result = where(result, func(p catalog.Product) bool {
			return strings.Contains(Haystack(ds.Headers, p), q)
		})
	}

	for header, value := range opts.Filters {
		if header == PriceRangeKey {
			continue
		}
		want := text.CleanOne(value)
		if want == "" || !text.IsMeaningful(want) || !facets.Offered(header) {
			continue
		}
		wantKey := text.Canon(want)
		result = where(result, func(p catalog.Product) bool {
			return text.Canon(text.CleanOne(p.Cell(header).String())) == wantKey
		})
	}

	result = applySort(result, ds.Headers, opts.Sort)

	if opts.Limit > 0 && opts.Limit < len(result) {
		result = result[:opts.Limit]
	}

	return result
}

// Haystack is the normalized text searched for product p.
func Haystack(headers []string, p catalog.Product) string {
	parts := make([]string, 0, len(headers))
	for _, h := range headers {
		parts = append(parts, text.Normalize(p.Cell(h).SearchText()))
	}
	return strings.Join(parts, " ")
}

func where(items []catalog.Product, fn func(catalog.Product) bool) []catalog.Product {
	var result []catalog.Product
	for _, item := range items {
		if fn(item) {
			result = append(result, item)
		}
	}
	return result
}
