// Package text cleans and keys the free-form strings that come out of
// spreadsheet exports.
package text

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reSpace   = regexp.MustCompile(`\s+`)
	reNonWord = regexp.MustCompile(`[^a-z0-9]+`)

	quoteReplacer = strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
	)
)

// junk values are placeholders, not data.
var junk = map[string]struct{}{
	"":          {},
	"-":         {},
	"—":         {},
	"n/a":       {},
	"na":        {},
	"any":       {},
	"null":      {},
	"undefined": {},
}

var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	},
}

// CleanOne tidies a single cell: smart quotes become straight quotes,
// whitespace runs collapse, one layer of wrapping quotes is removed along with
// any stray leading or trailing quote characters, and doubled quotes unescape.
// The result is stable: CleanOne(CleanOne(s)) == CleanOne(s).
func CleanOne(raw string) string {
	s := raw
	for {
		next := cleanPass(s)
		if next == s {
			return next
		}
		s = next
	}
}

func cleanPass(raw string) string {
	if raw == "" {
		return ""
	}
	s := quoteReplacer.Replace(raw)
	s = strings.TrimSpace(reSpace.ReplaceAllString(s, " "))

	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	s = strings.Trim(s, `"'`)
	s = strings.ReplaceAll(s, `""`, `"`)
	return strings.TrimSpace(s)
}

// IsMeaningful reports whether v carries data rather than a placeholder.
func IsMeaningful(v string) bool {
	_, isJunk := junk[strings.ToLower(v)]
	return !isJunk
}

// Normalize returns the loose search key for v: lower case, diacritics folded,
// every run of characters outside [a-z0-9] replaced by one space.
func Normalize(v string) string {
	return strings.TrimSpace(reNonWord.ReplaceAllString(fold(v), " "))
}

// Canon returns the strict equality key for v: Normalize without the spaces.
func Canon(v string) string {
	return reNonWord.ReplaceAllString(fold(v), "")
}

// SplitList splits a tag-style cell on '|' or ',' and keeps the meaningful
// cleaned tokens.
func SplitList(v string) []string {
	parts := strings.FieldsFunc(v, func(r rune) bool { return r == '|' || r == ',' })
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		clean := CleanOne(part)
		if clean == "" || !IsMeaningful(clean) {
			continue
		}
		out = append(out, clean)
	}
	return out
}

// EqualFoldAny reports whether v matches one of candidates case-insensitively.
func EqualFoldAny(v string, candidates ...string) bool {
	for _, c := range candidates {
		if strings.EqualFold(v, c) {
			return true
		}
	}
	return false
}

func fold(v string) string {
	s := strings.ToLower(v)
	if isASCII(s) {
		return s
	}
	t := foldPool.Get().(transform.Transformer)
	defer func() {
		t.Reset()
		foldPool.Put(t)
	}()
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
