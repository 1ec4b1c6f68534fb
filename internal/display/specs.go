package display

import (
	"regexp"
	"strings"

	"github.com/techjojo/catalogue/internal/catalog"
	"github.com/techjojo/catalogue/internal/filter"
	"github.com/techjojo/catalogue/internal/text"
)

// SpecLine is one highlighted product detail.
type SpecLine struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

var specOrder = []string{
	"display", "cpu", "ram", "storage", "gpu", "keyboard", "connectivity", "refresh",
	"special_features", "build",
	"adjustments", "security", "lock", "condition", "bundle", "delivery", "referral",
}

var specLabels = map[string]string{
	"refresh":          "Refresh Rate",
	"lock":             "Security",
	"special_features": "Special Features",
	"build":            "Build",
}

type iconRule struct {
	icon     string
	keywords []string
}

// Header keywords are checked in order; the first hit wins.
var headerIcons = []iconRule{
	{"🖥", []string{"display", "screen", "screen size", "panel"}},
	{"💻", []string{"cpu", "processor", "chip"}},
	{"🧠", []string{"ram", "memory"}},
	{"💾", []string{"storage", "ssd", "hdd", "drive", "disk"}},
	{"🎮", []string{"gpu", "graphics", "video"}},
	{"⌨", []string{"keyboard"}},
	{"📶", []string{"connectivity", "wifi", "bluetooth", "ports", "network"}},
	{"🎮", []string{"refresh", "hz", "response"}},
	{"🔧", []string{"adjustments", "adjustment", "tilt", "swivel", "pivot", "height"}},
	{"🔒", []string{"lock", "kensington", "security"}},
	{"📦", []string{"condition"}},
	{"🎁", []string{"bundle", "included", "extras"}},
	{"🚚", []string{"delivery", "shipping"}},
	{"💰", []string{"referral"}},
	{"✨", []string{"special_features", "special features", "features"}},
	{"🛠", []string{"build", "build quality", "material"}},
}

var (
	reMonitorOrDesktop = regexp.MustCompile(`(?i)monitor|desktop`)
	reLaptop           = regexp.MustCompile(`(?i)laptop|notebook`)
	reAccessory        = regexp.MustCompile(`(?i)accessor`)
)

// SpecIcon picks the icon for a detail line from its header, then from
// hints in the value.
func SpecIcon(header, value string) string {
	h := strings.ToLower(header)
	for _, rule := range headerIcons {
		for _, k := range rule.keywords {
			if strings.Contains(h, k) {
				return rule.icon
			}
		}
	}
	v := strings.ToLower(text.CleanOne(value))
	switch {
	case strings.Contains(v, "free shipping"):
		return "🚚"
	case strings.Contains(v, "backlit"):
		return "⌨"
	case strings.Contains(v, "wifi"), strings.Contains(v, "bluetooth"):
		return "📶"
	}
	return "•"
}

// SpecLines returns the curated detail lines for p in display order. A
// category line, when present, comes first with an empty Text.
func SpecLines(p catalog.Product, headers []string) []SpecLine {
	var lines []SpecLine
	if header, ok := filter.ResolveHeader(headers, "category"); ok {
		if cat, ok := specValue(p, header); ok {
			lines = append(lines, SpecLine{Icon: categoryIcon(cat), Label: cat})
		}
	}

	seen := map[string]bool{}
	for _, group := range specOrder {
		header, ok := filter.ResolveHeader(headers, group)
		if !ok || seen[header] {
			continue
		}
		value, ok := specValue(p, header)
		if !ok {
			continue
		}
		seen[header] = true
		label := header
		if l, ok := specLabels[group]; ok {
			label = l
		}
		lines = append(lines, SpecLine{Icon: SpecIcon(header, value), Label: label, Text: value})
	}
	return lines
}

func specValue(p catalog.Product, header string) (string, bool) {
	c := p.Cell(header)
	if c.IsSentinel() {
		return "", false
	}
	v := c.String()
	if clean := text.CleanOne(v); clean == "" || !text.IsMeaningful(clean) {
		return "", false
	}
	return v, true
}

func categoryIcon(cat string) string {
	switch {
	case reMonitorOrDesktop.MatchString(cat):
		return "🖥"
	case reLaptop.MatchString(cat):
		return "💻"
	case reAccessory.MatchString(cat):
		return "🎯"
	default:
		return "🧩"
	}
}
