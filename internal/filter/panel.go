package filter

import (
	"sort"
	"strings"

	"github.com/techjojo/catalogue/internal/text"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterKey configures one filter control. Aliases are alternative header
// spellings, matched case-insensitively.
type FilterKey struct {
	Key     string   `yaml:"key" json:"key"`
	Label   string   `yaml:"label" json:"label"`
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// Control is a resolved filter control bound to an actual header.
type Control struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Header  string   `json:"header"`
	Options []string `json:"options"`
}

// Controls resolves keys against headers and lists each control's options:
// facet labels, cleaned, de-duplicated case-insensitively and sorted
// alphabetically. With no keys configured every non-skipped header with a
// facet becomes a control. Headers without options are left out.
func Controls(headers []string, facets Facets, keys []FilterKey) []Control {
	if len(keys) == 0 {
		for _, h := range headers {
			if Skipped(h) {
				continue
			}
			keys = append(keys, FilterKey{Key: h, Label: h})
		}
	}

	col := collate.New(language.English, collate.IgnoreCase)
	seen := map[string]bool{}
	out := make([]Control, 0, len(keys))
	for _, k := range keys {
		header, ok := resolveAliases(headers, append([]string{k.Key}, k.Aliases...))
		if !ok || seen[header] || Skipped(header) {
			continue
		}
		seen[header] = true

		options := panelOptions(facets.Labels(header))
		if len(options) == 0 {
			continue
		}
		sort.SliceStable(options, func(i, j int) bool {
			return col.CompareString(options[i], options[j]) < 0
		})

		label := k.Label
		if label == "" {
			label = header
		}
		out = append(out, Control{Key: k.Key, Label: label, Header: header, Options: options})
	}
	return out
}

// ResolveKey finds the header a user-supplied filter name refers to: a
// configured key or alias first, then the built-in header synonyms, then the
// header itself.
func ResolveKey(headers []string, keys []FilterKey, name string) (string, bool) {
	want := normalizeHeaderName(name)
	if want == "" {
		return "", false
	}
	for _, k := range keys {
		candidates := append([]string{k.Key}, k.Aliases...)
		for _, c := range append(candidates, k.Label) {
			if normalizeHeaderName(c) == want {
				return resolveAliases(headers, candidates)
			}
		}
	}
	return ResolveHeader(headers, name)
}

// KnownName reports whether name is a configured key, alias or label, or one
// of the built-in header synonyms.
func KnownName(keys []FilterKey, name string) bool {
	want := normalizeHeaderName(name)
	if want == "" {
		return false
	}
	for _, k := range keys {
		for _, c := range append([]string{k.Key, k.Label}, k.Aliases...) {
			if normalizeHeaderName(c) == want {
				return true
			}
		}
	}
	for group, synonyms := range headerSynonyms {
		if normalizeHeaderName(group) == want {
			return true
		}
		for _, c := range synonyms {
			if normalizeHeaderName(c) == want {
				return true
			}
		}
	}
	return false
}

func panelOptions(labels []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		clean := text.CleanOne(l)
		if clean == "" || !text.IsMeaningful(clean) {
			continue
		}
		key := strings.ToLower(clean)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, clean)
	}
	return out
}

// ActiveCount counts the filters that currently constrain results: meaningful
// values on offered headers, plus one for a price range.
func ActiveCount(filters map[string]string, facets Facets) int {
	count := 0
	for key, value := range filters {
		clean := text.CleanOne(value)
		if clean == "" || !text.IsMeaningful(clean) {
			continue
		}
		if key == PriceRangeKey || facets.Offered(key) {
			count++
		}
	}
	return count
}

// SafeValue returns the selected value for header when it is still offered,
// and "" otherwise.
func SafeValue(filters map[string]string, facets Facets, header string) string {
	value := text.CleanOne(filters[header])
	if value == "" || !text.IsMeaningful(value) {
		return ""
	}
	want := text.Canon(value)
	for _, o := range facets[header] {
		if text.Canon(o.Label) == want {
			return o.Label
		}
	}
	return ""
}
