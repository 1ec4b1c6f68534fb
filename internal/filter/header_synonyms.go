package filter

import "strings"

// headerSynonyms lists, per detail group, the header spellings seen across the
// store's sheets in preference order.
var headerSynonyms = map[string][]string{
	"category":         {"category", "type", "segment"},
	"display":          {"display", "screen", "screen size", "panel", "display size"},
	"cpu":              {"cpu", "processor", "chip", "processor model"},
	"ram":              {"ram", "memory", "system memory"},
	"storage":          {"storage", "ssd", "hdd", "drive", "disk"},
	"gpu":              {"gpu", "graphics", "graphics card", "video"},
	"keyboard":         {"keyboard", "backlit", "keyboard type"},
	"refresh":          {"refresh rate", "hz", "response time"},
	"connectivity":     {"connectivity", "wifi", "bluetooth", "ports", "network"},
	"special_features": {"special_features", "special features", "features"},
	"build":            {"build", "build quality", "material"},
	"adjustments":      {"adjustments", "height", "tilt", "swivel", "pivot"},
	"security":         {"security", "fingerprint", "tpm", "smart card", "camera shutter"},
	"lock":             {"lock", "kensington lock", "kensington lock slot"},
	"condition":        {"condition"},
	"bundle":           {"bundle", "included", "freebies", "extras"},
	"delivery":         {"delivery", "shipping"},
	"referral":         {"referral bonus", "referral"},
	"price":            priceHeaderAliases,
}

// ResolveHeader finds the header serving group (for example "cpu" or
// "refresh"). Unknown groups resolve by their own name.
func ResolveHeader(headers []string, group string) (string, bool) {
	return resolveAliases(headers, headerAliasList(group))
}

func headerAliasList(group string) []string {
	key := normalizeHeaderName(group)
	if key == "" {
		return nil
	}
	for name, synonyms := range headerSynonyms {
		if normalizeHeaderName(name) == key {
			return synonyms
		}
	}
	return []string{group}
}

// resolveAliases returns the first header matching a candidate, in candidate
// order. Exact case-insensitive matches win; a second pass treats '_' and '-'
// as spaces so "refresh_rate" finds "Refresh Rate".
func resolveAliases(headers, candidates []string) (string, bool) {
	for _, c := range candidates {
		for _, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(c)) {
				return h, true
			}
		}
	}
	for _, c := range candidates {
		want := normalizeHeaderName(c)
		if want == "" {
			continue
		}
		for _, h := range headers {
			if normalizeHeaderName(h) == want {
				return h, true
			}
		}
	}
	return "", false
}

func normalizeHeaderName(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}
