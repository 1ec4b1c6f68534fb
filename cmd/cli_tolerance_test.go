package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCLIArgs_RewritesCommonFlagSyntax(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"-category", "monitors", "json"})

	assert.Equal(t, []string{"--category", "monitors", "--json"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_RewritesTypoFlag(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"--categroy", "monitors"})

	assert.Equal(t, []string{"--category", "monitors"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_RewritesFlagAlias(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"--cat", "monitors", "--budget", "100K-200K", "--per-page=4"})

	assert.Equal(t, []string{"--category", "monitors", "--price", "100K-200K", "--page-size=4"}, args)
	assert.Len(t, notes, 3)
}

func TestNormalizeCLIArgs_RewritesKeyValueToken(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"query=dell", "--category", "monitors"})

	assert.Equal(t, []string{"--query=dell", "--category", "monitors"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_RewritesCommandTypo(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"categoriess", "--json"})

	assert.Equal(t, []string{"categories", "--json"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_DoesNotRewriteCompletionPositionalArgs(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"completion", "zsh"})

	assert.Equal(t, []string{"completion", "zsh"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_DoesNotRewriteHelpCommandArgAsFlag(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"help", "facets"})

	assert.Equal(t, []string{"help", "facets"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_LeavesSearchTermsAlone(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"search", "dell"})

	assert.Equal(t, []string{"search", "dell"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_RespectsDoubleDashBoundary(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"categories", "--", "json"})

	assert.Equal(t, []string{"categories", "--", "json"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_LeavesKnownShorthandUntouched(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"-c", "monitors", "-n", "5"})

	assert.Equal(t, []string{"-c", "monitors", "-n", "5"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_ShorthandValueIsNotACommand(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"-q", "tui", "-c", "monitors"})

	assert.Equal(t, []string{"-q", "tui", "-c", "monitors"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_BareFilterPairBecomesFilterFlag(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"--category", "desktops", "brand=HP", "Processor=i7"})

	assert.Equal(t, []string{"--category", "desktops", "--filter=brand=HP", "--filter=Processor=i7"}, args)
	assert.Len(t, notes, 2)
}

func TestNormalizeCLIArgs_FilterColonSeparator(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"-c", "monitors", "--filter", "refresh rate:144Hz", "-f", "brand:AOC", "--where=ram: 16GB"})

	assert.Equal(t, []string{"-c", "monitors", "--filter", "refresh rate=144Hz", "-f", "brand=AOC", "--filter=ram=16GB"}, args)
	assert.Len(t, notes, 3)
}

func TestNormalizeCLIArgs_UnknownFilterNameIsLeftForValidation(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"--filter", "warp:9"})

	assert.Equal(t, []string{"--filter", "warp:9"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_CategorySlugIsNeverRewritten(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"tablets", "--page", "2"})

	assert.Equal(t, []string{"tablets", "--page", "2"}, args)
	assert.Empty(t, notes)
}

func TestVocabularyOf_ReadsTheCommandTree(t *testing.T) {
	v := vocabularyOf(rootCmd)

	assert.True(t, v.flags["category"])
	assert.True(t, v.flags["top"])
	assert.False(t, v.flags["json"])
	assert.False(t, v.flags["verbose"])
	assert.Equal(t, "limit", v.shorthands['n'])
	assert.Subset(t, v.commands, []string{"categories", "facets", "search", "tui", "help", "completion"})
	assert.Contains(t, v.categories, "gaming-laptops")
	assert.True(t, v.knowsFilter("mobo"))
	assert.False(t, v.knowsFilter("warp"))
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance("facets", "facets"))
	assert.Equal(t, 1, editDistance("facts", "facets"))
	assert.Equal(t, 2, editDistance("categroy", "category"))
	assert.Equal(t, 3, editDistance("", "tui"))
}

func TestExplainCLIError_UnknownFlagIncludesSuggestionAndExamples(t *testing.T) {
	msg := explainCLIError(errors.New("unknown flag: --categroy"))

	assert.Contains(t, msg, "Try `--category`.")
	assert.Contains(t, msg, "techjojo --category monitors")
	assert.Contains(t, msg, "techjojo --category desktops --filter brand=HP")
}

func TestExplainCLIError_UnknownCommandIncludesSuggestionAndExamples(t *testing.T) {
	msg := explainCLIError(errors.New("unknown command \"facts\" for \"techjojo\""))

	assert.Contains(t, msg, "Did you mean `facets`?")
	assert.Contains(t, msg, "techjojo categories")
}

func TestClosestMatch(t *testing.T) {
	got, ok := closestMatch("monitor", []string{"monitors", "macbook", "tablets"}, 3)
	assert.True(t, ok)
	assert.Equal(t, "monitors", got)

	_, ok = closestMatch("gpus", []string{"monitors", "macbook", "tablets"}, 2)
	assert.False(t, ok)
}
