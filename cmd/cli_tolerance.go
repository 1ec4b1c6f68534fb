package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/techjojo/catalogue/internal/config"
	"github.com/techjojo/catalogue/internal/filter"
	"github.com/techjojo/catalogue/internal/text"
)

// flagAliases maps names people reach for to the flag that does the job.
var flagAliases = map[string]string{
	"cat":         "category",
	"search":      "query",
	"sheet":       "url",
	"csv":         "url",
	"max":         "limit",
	"per-page":    "page-size",
	"pagesize":    "page-size",
	"budget":      "price",
	"price-range": "price",
	"where":       "filter",
}

// cliVocabulary is what argument rewriting may correct towards: the flags and
// commands registered on the command tree, plus the category slugs and filter
// names of the built-in catalogue.
type cliVocabulary struct {
	flags      map[string]bool // long name -> takes a value
	shorthands map[byte]string
	commands   []string
	categories []string
	filterKeys []filter.FilterKey
}

var vocabulary = sync.OnceValue(func() cliVocabulary {
	return vocabularyOf(rootCmd)
})

func vocabularyOf(root *cobra.Command) cliVocabulary {
	v := cliVocabulary{
		flags:      map[string]bool{"help": false},
		shorthands: map[byte]string{'h': "help"},
		commands:   []string{"help", "completion"},
	}
	addFlag := func(f *pflag.Flag) {
		v.flags[f.Name] = f.NoOptDefVal == ""
		if len(f.Shorthand) == 1 {
			v.shorthands[f.Shorthand[0]] = f.Name
		}
	}
	root.PersistentFlags().VisitAll(addFlag)
	root.Flags().VisitAll(addFlag)
	for _, c := range root.Commands() {
		if !slices.Contains(v.commands, c.Name()) {
			v.commands = append(v.commands, c.Name())
		}
		c.Flags().VisitAll(addFlag)
	}

	if cfg, err := config.Default(); err == nil {
		v.categories = cfg.Slugs()
		for _, cat := range cfg.Categories {
			v.filterKeys = append(v.filterKeys, cat.Filters...)
		}
	}
	return v
}

// takesValue reports whether the flag token tok consumes the next argument.
func (v cliVocabulary) takesValue(tok string) bool {
	if len(tok) == 2 && tok[0] == '-' {
		long, ok := v.shorthands[tok[1]]
		return ok && v.flags[long]
	}
	name, _, hasValue := strings.Cut(strings.TrimPrefix(tok, "--"), "=")
	return !hasValue && v.flags[name]
}

func (v cliVocabulary) exactFlag(raw string) (string, bool) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-")
	if canonical, ok := flagAliases[name]; ok {
		return canonical, true
	}
	if _, ok := v.flags[name]; ok {
		return name, true
	}
	return "", false
}

func (v cliVocabulary) resolveFlag(raw string) (string, bool) {
	if canonical, ok := v.exactFlag(raw); ok {
		return canonical, true
	}
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-")
	return closestMatch(name, slices.Sorted(maps.Keys(v.flags)), 2)
}

func (v cliVocabulary) resolveCommand(raw string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if slices.Contains(v.commands, name) {
		return name, true
	}
	return closestMatch(name, v.commands, 2)
}

func (v cliVocabulary) isCategory(raw string) bool {
	want := text.Canon(raw)
	return slices.ContainsFunc(v.categories, func(slug string) bool { return text.Canon(slug) == want })
}

func (v cliVocabulary) knowsFilter(name string) bool {
	return filter.KnownName(v.filterKeys, name)
}

// argRewriter walks the argument list once, fixing near-miss flag syntax,
// command typos and filter pairs when the intent is unambiguous.
type argRewriter struct {
	vocab cliVocabulary
	out   []string
	notes []string

	command     string
	nestedTaken bool
	allowBare   bool
	valueFor    string
	passthrough bool
}

func normalizeCLIArgs(args []string) ([]string, []string) {
	r := &argRewriter{
		vocab:     vocabulary(),
		out:       make([]string, 0, len(args)),
		notes:     make([]string, 0, 2),
		allowBare: true,
	}
	for _, tok := range args {
		r.next(tok)
	}
	return r.out, r.notes
}

// firstCommand returns the first argument naming a command, skipping flag
// values.
func firstCommand(args []string) string {
	v := vocabulary()
	skip := false
	for _, arg := range args {
		switch {
		case skip:
			skip = false
		case arg == "--":
			return ""
		case strings.HasPrefix(arg, "-"):
			skip = v.takesValue(arg)
		case !v.isCategory(arg):
			return arg
		}
	}
	return ""
}

func (r *argRewriter) emit(tok, original string) {
	if tok != original {
		r.notes = append(r.notes, fmt.Sprintf("interpreted `%s` as `%s`; use `%s` next time.", original, tok, tok))
	}
	r.out = append(r.out, tok)
}

func (r *argRewriter) next(tok string) {
	switch {
	case r.passthrough:
		r.out = append(r.out, tok)
	case r.valueFor != "":
		flag := r.valueFor
		r.valueFor = ""
		if flag == "filter" {
			r.emit(r.filterPair(tok), tok)
			return
		}
		r.out = append(r.out, tok)
	case tok == "--":
		r.passthrough = true
		r.out = append(r.out, tok)
	case strings.HasPrefix(tok, "-"):
		r.flag(tok)
	default:
		r.word(tok)
	}
}

func (r *argRewriter) flag(tok string) {
	if len(tok) == 2 {
		if r.vocab.takesValue(tok) {
			r.valueFor = r.vocab.shorthands[tok[1]]
		}
		r.out = append(r.out, tok)
		return
	}

	name, value, hasValue := strings.Cut(strings.TrimLeft(tok, "-"), "=")
	canonical, ok := r.vocab.resolveFlag(name)
	if !ok {
		r.out = append(r.out, tok)
		return
	}
	rewritten := "--" + canonical
	switch {
	case hasValue && canonical == "filter":
		rewritten += "=" + r.filterPair(value)
	case hasValue:
		rewritten += "=" + value
	case r.vocab.flags[canonical]:
		r.valueFor = canonical
	}
	r.emit(rewritten, tok)
}

func (r *argRewriter) word(tok string) {
	if key, value, ok := strings.Cut(tok, "="); ok {
		if canonical, found := r.vocab.exactFlag(key); found {
			r.emit("--"+canonical+"="+value, tok)
			return
		}
		// brand=HP on its own is a filter, not a positional.
		if r.vocab.knowsFilter(key) {
			r.emit("--filter="+strings.TrimSpace(key)+"="+value, tok)
			return
		}
		if canonical, found := r.vocab.resolveFlag(key); found {
			r.emit("--"+canonical+"="+value, tok)
			return
		}
	}

	canBeCommand := r.command == "" || (allowsNestedCommandArg(r.command) && !r.nestedTaken)
	if canBeCommand && !r.vocab.isCategory(tok) {
		if cmd, ok := r.vocab.resolveCommand(tok); ok {
			if r.command == "" {
				r.command = cmd
				r.allowBare = bareFlagRewriteAllowed(cmd)
			} else {
				r.nestedTaken = true
			}
			r.emit(cmd, tok)
			return
		}
	}

	if r.allowBare && !r.vocab.isCategory(tok) {
		if canonical, ok := r.vocab.resolveFlag(tok); ok {
			if r.vocab.flags[canonical] {
				r.valueFor = canonical
			}
			r.emit("--"+canonical, tok)
			return
		}
	}
	r.out = append(r.out, tok)
}

// filterPair accepts KEY:VALUE for a known filter name and spells it
// KEY=VALUE.
func (r *argRewriter) filterPair(value string) string {
	if strings.Contains(value, "=") {
		return value
	}
	key, rest, ok := strings.Cut(value, ":")
	if !ok || !r.vocab.knowsFilter(key) {
		return value
	}
	return strings.TrimSpace(key) + "=" + strings.TrimSpace(rest)
}

func bareFlagRewriteAllowed(command string) bool {
	// `categories` takes no positional arguments, so `json` can only mean --json.
	return command == "categories"
}

func allowsNestedCommandArg(command string) bool {
	return command == "help" || command == "completion"
}

func closestMatch(target string, candidates []string, maxDistance int) (string, bool) {
	best, bestDist := "", maxDistance+1
	for _, candidate := range candidates {
		if d := editDistance(target, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	if bestDist > maxDistance {
		return "", false
	}
	return best, true
}

// editDistance is the Levenshtein distance over bytes, kept in one row.
func editDistance(a, b string) int {
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			above := row[j]
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			row[j] = min(row[j]+1, row[j-1]+1, diag+cost)
			diag = above
		}
	}
	return row[len(b)]
}
