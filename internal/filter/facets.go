package filter

import (
	"sort"
	"strings"

	"github.com/techjojo/catalogue/internal/catalog"
	"github.com/techjojo/catalogue/internal/text"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Option is one offered value of a facet.
type Option struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Facets maps a header to its offered values. An empty list means the header
// has fewer than two distinct values and gets no control.
type Facets map[string][]Option

var skipHeaders = []string{"id", "img", "image", "imageurl", "image_url"}

// Skipped reports whether header never gets a facet or filter control.
func Skipped(header string) bool {
	return text.EqualFoldAny(header, skipHeaders...)
}

// Offered reports whether header has a usable facet.
func (f Facets) Offered(header string) bool {
	return len(f[header]) > 0
}

// Labels returns the facet labels for header in facet order.
func (f Facets) Labels(header string) []string {
	opts := f[header]
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Label)
	}
	return out
}

// BuildFacets tallies the distinct values of every eligible header. Values
// are grouped by their loose key and the first label seen wins. Options are
// ordered by count, then label.
func BuildFacets(ds catalog.Dataset) Facets {
	col := collate.New(language.English, collate.IgnoreCase)
	out := make(Facets, len(ds.Headers))

	for _, h := range ds.Headers {
		if Skipped(h) {
			continue
		}

		type tally struct {
			label string
			count int
		}
		byKey := map[string]*tally{}
		order := []string{}

		for _, p := range ds.Products {
			label := text.CleanOne(p.Cell(h).String())
			if label == catalog.Sentinel || !text.IsMeaningful(label) {
				continue
			}
			key := text.Normalize(label)
			if key == "" {
				continue
			}
			if t, ok := byKey[key]; ok {
				t.count++
				continue
			}
			byKey[key] = &tally{label: label, count: 1}
			order = append(order, key)
		}

		if len(order) < 2 {
			out[h] = []Option{}
			continue
		}

		opts := make([]Option, 0, len(order))
		for _, key := range order {
			opts = append(opts, Option{Label: byKey[key].label, Count: byKey[key].count})
		}
		sort.SliceStable(opts, func(i, j int) bool {
			if opts[i].Count != opts[j].Count {
				return opts[i].Count > opts[j].Count
			}
			if c := col.CompareString(opts[i].Label, opts[j].Label); c != 0 {
				return c < 0
			}
			return strings.Compare(opts[i].Label, opts[j].Label) < 0
		})
		out[h] = opts
	}
	return out
}
