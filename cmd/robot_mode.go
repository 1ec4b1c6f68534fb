package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/techjojo/catalogue/internal/api"
	"github.com/techjojo/catalogue/internal/config"
	"github.com/techjojo/catalogue/internal/loader"
	"golang.org/x/term"
)

const (
	// ExitSuccess is returned when the command succeeds.
	ExitSuccess = 0
	// ExitNotFound is returned when the requested category or products are not available.
	ExitNotFound = 1
	// ExitInvalidArgs is returned when the command input is invalid.
	ExitInvalidArgs = 2
	// ExitUpstream is returned when a sheet could not be fetched.
	ExitUpstream = 3
	// ExitInternal is returned for unexpected internal failures.
	ExitInternal = 4
)

type cliError struct {
	Code        string
	Message     string
	Suggestions []string
	ExitCode    int
}

func (e *cliError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidArgsError(message string, suggestions ...string) error {
	return &cliError{Code: "INVALID_ARGS", Message: message, Suggestions: suggestions, ExitCode: ExitInvalidArgs}
}

func notFoundError(message string, suggestions ...string) error {
	return &cliError{Code: "NOT_FOUND", Message: message, Suggestions: suggestions, ExitCode: ExitNotFound}
}

// loadFailure reports a sheet that could not be loaded, with hints that depend
// on how the fetch failed.
func loadFailure(state loader.State) error {
	return &cliError{
		Code:        "UPSTREAM_ERROR",
		Message:     state.Err,
		Suggestions: fetchHints(state.Failure),
		ExitCode:    ExitUpstream,
	}
}

func fetchHints(cause error) []string {
	var status *api.StatusError
	if errors.As(cause, &status) {
		switch {
		case status.Code == http.StatusNotFound, status.Code == http.StatusForbidden,
			status.Code == http.StatusUnauthorized, status.Code == http.StatusGone:
			return []string{
				"Check the sheet is still published to the web as CSV.",
				"Open the --url in a browser signed out of Google.",
			}
		case status.Code == http.StatusTooManyRequests:
			return []string{"The sheet host is rate limiting; wait a minute before retrying."}
		}
	}
	if errors.Is(cause, api.ErrBodyTooLarge) {
		return []string{"Publish a single tab instead of the whole workbook."}
	}
	var netErr net.Error
	if errors.Is(cause, context.DeadlineExceeded) || (errors.As(cause, &netErr) && netErr.Timeout()) {
		return []string{"Check your connection; the sheet took too long to answer."}
	}
	return []string{"Retry in a moment."}
}

type jsonErrorPayload struct {
	Error jsonErrorBody `json:"error"`
}

type jsonErrorBody struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
	ExitCode    int      `json:"exitCode"`
}

func printCLIErrorJSON(w io.Writer, err *cliError) error {
	if err == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(jsonErrorPayload{Error: jsonErrorBody(*err)})
}

func formatCLIErrorText(err *cliError) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "error[%s]: %s", strings.ToLower(err.Code), err.Message)
	if len(err.Suggestions) > 0 {
		b.WriteString("\nsuggestions:")
		for _, s := range err.Suggestions {
			b.WriteString("\n  " + s)
		}
	}
	return b.String()
}

func explainCLIError(err error) string {
	return formatCLIErrorText(classifyCLIError(err))
}

// classifyCLIError maps err onto the exit code taxonomy. Catalogue failures
// are recognised by type; cobra and pflag parse failures only by message.
func classifyCLIError(err error) *cliError {
	if err == nil {
		return nil
	}

	var typed *cliError
	if errors.As(err, &typed) {
		return typed
	}

	var invalid *config.ValidationError
	var status *api.StatusError
	var netErr net.Error
	switch {
	case errors.As(err, &invalid):
		return &cliError{
			Code:        "INVALID_ARGS",
			Message:     err.Error(),
			Suggestions: []string{"Fix " + strings.Join(invalid.Fields(), ", ") + " in the categories file."},
			ExitCode:    ExitInvalidArgs,
		}
	case errors.Is(err, config.ErrUnknownCategory):
		return &cliError{
			Code:        "NOT_FOUND",
			Message:     err.Error(),
			Suggestions: []string{"techjojo categories"},
			ExitCode:    ExitNotFound,
		}
	case errors.As(err, &status), errors.Is(err, api.ErrBodyTooLarge),
		errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr):
		return &cliError{
			Code:        "UPSTREAM_ERROR",
			Message:     err.Error(),
			Suggestions: fetchHints(err),
			ExitCode:    ExitUpstream,
		}
	}

	if usage := classifyUsageError(err.Error()); usage != nil {
		return usage
	}
	return &cliError{
		Code:        "INTERNAL_ERROR",
		Message:     err.Error(),
		Suggestions: []string{"Run `techjojo --help` for usage details."},
		ExitCode:    ExitInternal,
	}
}

// flagExamples shows one working use per value-taking flag.
var flagExamples = map[string]string{
	"category":  "techjojo --category monitors",
	"url":       "techjojo --url https://example.com/sheet.csv",
	"query":     "techjojo --category macbook --query \"m2 air\"",
	"filter":    "techjojo --category desktops --filter brand=HP",
	"price":     "techjojo --category monitors --price 100K-200K",
	"page":      "techjojo --category monitors --page 2",
	"page-size": "techjojo --category monitors --page-size 4",
	"sort":      "techjojo --category monitors --sort price",
	"limit":     "techjojo --category monitors --limit 5",
	"top":       "techjojo search --query odyssey --top 5",
	"theme":     "techjojo --category monitors --theme light",
	"config":    "techjojo categories --config ./categories.yaml",
}

func classifyUsageError(msg string) *cliError {
	msg = strings.TrimSpace(msg)
	usage := func(hints ...string) *cliError {
		return &cliError{Code: "INVALID_ARGS", Message: msg, Suggestions: hints, ExitCode: ExitInvalidArgs}
	}
	v := vocabulary()

	switch {
	case strings.Contains(msg, "unknown command"):
		hints := []string{"techjojo categories", "techjojo --category monitors"}
		bad := strings.ToLower(quotedToken(msg, "unknown command"))
		if cmd, ok := closestMatch(bad, v.commands, 2); ok {
			hints = slices.Insert(hints, 0, fmt.Sprintf("Did you mean `%s`?", cmd))
		} else if slug, ok := closestMatch(bad, v.categories, 3); ok {
			hints = slices.Insert(hints, 0, fmt.Sprintf("Did you mean `techjojo --category %s`?", slug))
		}
		return usage(hints...)
	case strings.Contains(msg, "unknown flag"), strings.Contains(msg, "unknown shorthand flag"):
		hints := []string{flagExamples["category"], flagExamples["filter"]}
		bad := strings.TrimLeft(quotedToken(msg, "flag"), "-")
		if name, ok := v.resolveFlag(bad); ok {
			hints = slices.Insert(hints, 0, fmt.Sprintf("Try `--%s`.", name))
		}
		return usage(hints...)
	case strings.Contains(msg, "flag needs an argument"), strings.Contains(msg, "invalid argument"):
		if example, ok := flagExamples[flagNamed(msg, v)]; ok {
			return usage(example)
		}
		return usage(flagExamples["category"], flagExamples["url"])
	case strings.Contains(msg, "accepts at most"):
		return usage("Pass one category, or use --query for search terms.", flagExamples["query"])
	}
	return nil
}

// quotedToken returns the token after marker, unwrapped from quotes, backticks
// or a leading colon.
func quotedToken(msg, marker string) string {
	idx := strings.Index(msg, marker)
	if idx == -1 {
		return ""
	}
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(msg[idx+len(marker):]), ":"))
	for _, q := range []string{`"`, "`", "'"} {
		if inner, ok := strings.CutPrefix(rest, q); ok {
			if end := strings.Index(inner, q); end >= 0 {
				return inner[:end]
			}
		}
	}
	if fields := strings.Fields(rest); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// flagNamed finds the flag a pflag value error is about, in either
// "flag needs an argument: 'c' in -c" or `invalid argument "x" for "-n, --limit" flag`.
func flagNamed(msg string, v cliVocabulary) string {
	var tok string
	if strings.Contains(msg, "invalid argument") {
		tok = quotedToken(msg, " for ")
		if _, long, ok := strings.Cut(tok, ", "); ok {
			tok = long
		}
	} else {
		tok = quotedToken(msg, "flag needs an argument")
	}
	tok = strings.TrimLeft(tok, "-")
	if len(tok) == 1 {
		return v.shorthands[tok[0]]
	}
	return tok
}

func isTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func hasArg(args []string, names ...string) bool {
	return slices.ContainsFunc(args, func(arg string) bool {
		name, _, _ := strings.Cut(arg, "=")
		return slices.Contains(names, name)
	})
}

func hasJSONPreference(args []string) bool {
	return hasArg(args, "--json")
}

// shouldAutoJSON switches to JSON output when stdout is piped, except for help
// and shell completion which are meant for people and shells.
func shouldAutoJSON(args []string, stdoutIsTTY bool) bool {
	if stdoutIsTTY || len(args) == 0 || hasArg(args, "--json", "--help", "-h") {
		return false
	}
	switch firstCommand(args) {
	case "completion", "help":
		return false
	}
	return true
}

type quickStartJSON struct {
	Name       string   `json:"name"`
	Usage      string   `json:"usage"`
	Categories []string `json:"categories"`
	Examples   []string `json:"examples"`
	Flags      []string `json:"flags"`
}

// quickStartFor builds the no-argument help from the configured catalogue and
// the registered command tree.
func quickStartFor(cfg config.Config, v cliVocabulary) quickStartJSON {
	commands := slices.DeleteFunc(slices.Clone(v.commands), func(c string) bool {
		return c == "help" || c == "completion"
	})
	slices.Sort(commands)

	help := quickStartJSON{
		Name:       "techjojo",
		Usage:      "techjojo [category] [flags] | [" + strings.Join(commands, "|") + "] [flags]",
		Categories: cfg.Slugs(),
	}

	example := ""
	for _, cat := range cfg.Categories {
		if example == "" {
			example = cat.Slug
		}
		if cat.URL != "" && len(cat.Filters) > 0 {
			example = cat.Slug
			break
		}
	}
	help.Examples = []string{
		fmt.Sprintf("techjojo --category %s --price 100K-200K", example),
		fmt.Sprintf("techjojo facets --category %s", example),
		"techjojo categories",
	}

	for name := range v.flags {
		if name != "help" {
			help.Flags = append(help.Flags, "--"+name)
		}
	}
	slices.Sort(help.Flags)
	return help
}

func printQuickStart(w io.Writer, asJSON bool) error {
	cfg, err := config.Load(config.ResolvePath(""))
	if err != nil {
		return err
	}
	help := quickStartFor(cfg, vocabulary())

	if asJSON {
		return json.NewEncoder(w).Encode(help)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\nusage: %s\ncategories: %s\nexamples:\n", help.Name, help.Usage, strings.Join(help.Categories, ", "))
	for _, ex := range help.Examples {
		b.WriteString("  " + ex + "\n")
	}
	b.WriteString("flags: " + strings.Join(help.Flags, " ") + "\n")
	_, err = io.WriteString(w, b.String())
	return err
}
