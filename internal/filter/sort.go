package filter

import (
	"sort"
	"strings"

	"github.com/techjojo/catalogue/internal/catalog"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort modes accepted by Options.Sort.
const (
	SortSource    = ""
	SortPrice     = "price"
	SortPriceDesc = "price-desc"
	SortName      = "name"
)

// SortModes lists the sort modes in cycling order.
var SortModes = []string{SortSource, SortPrice, SortPriceDesc, SortName}

// NormalizeSortMode maps user spellings onto a sort mode. Unknown values map
// to source order and report false.
func NormalizeSortMode(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "source", "default", "relevance":
		return SortSource, true
	case "price", "price-asc", "cheapest", "low":
		return SortPrice, true
	case "price-desc", "priciest", "high", "expensive":
		return SortPriceDesc, true
	case "name", "alpha", "az", "a-z":
		return SortName, true
	default:
		return SortSource, false
	}
}

func applySort(items []catalog.Product, headers []string, raw string) []catalog.Product {
	mode, _ := NormalizeSortMode(raw)
	if mode == SortSource || len(items) < 2 {
		return items
	}

	out := append([]catalog.Product(nil), items...)
	switch mode {
	case SortPrice, SortPriceDesc:
		header, ok := FindPriceHeader(headers)
		if !ok {
			return out
		}
		desc := mode == SortPriceDesc
		sort.SliceStable(out, func(i, j int) bool {
			pi, okI := ParsePriceCell(out[i].Cell(header))
			pj, okJ := ParsePriceCell(out[j].Cell(header))
			if okI != okJ {
				return okI
			}
			if !okI || pi == pj {
				return false
			}
			if desc {
				return pi > pj
			}
			return pi < pj
		})
	case SortName:
		col := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Name, out[j].Name) < 0
		})
	}
	return out
}
