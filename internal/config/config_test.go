package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techjojo/catalogue/internal/catalog"
	"github.com/techjojo/catalogue/internal/config"
)

func TestDefault(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	assert.Equal(t, "techjojo's", cfg.Store.Name)
	assert.Equal(t, "NGN", cfg.Store.Currency)
	assert.Equal(t, "en-NG", cfg.Store.Locale)
	assert.Len(t, cfg.Categories, 9)

	for _, cat := range cfg.Categories {
		assert.NotEmpty(t, cat.Title, cat.Slug)
		assert.Equal(t, 8, cat.PageSize, cat.Slug)
		if cat.Static() {
			assert.NotEmpty(t, cat.Fallback().Rows, "%s has neither a URL nor items", cat.Slug)
		}
	}
}

func TestCategory_Lookup(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	cat, err := cfg.Category("Monitors")
	require.NoError(t, err)
	assert.Equal(t, "monitors", cat.Slug)
	assert.Equal(t, "Samsung • AoC • High Refresh Rate", cat.Subtitle)
	require.NotEmpty(t, cat.Filters)
	assert.Equal(t, "brand", cat.Filters[0].Key)

	cat, err = cfg.Category("gaming laptops")
	require.NoError(t, err)
	assert.Equal(t, "gaming-laptops", cat.Slug)

	_, err = cfg.Category("fridges")
	assert.True(t, errors.Is(err, config.ErrUnknownCategory))
	assert.Contains(t, err.Error(), `"fridges"`)
}

func TestStaticItemsKeepHeaderOrderAndTypes(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cat, err := cfg.Category("tablets")
	require.NoError(t, err)

	table := cat.Fallback()
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"id", "name", "brand", "price", "display", "storage", "connectivity", "condition", "tags"}, table.Headers)
	assert.Equal(t, catalog.Number(310000), table.Rows[0]["price"])
	assert.Equal(t, catalog.List([]string{"ipad", "apple", "school"}), table.Rows[0]["tags"])
	assert.Equal(t, `10.2" Retina`, table.Rows[0]["display"].String())
}

func TestParse_Validation(t *testing.T) {
	_, err := config.Parse([]byte("store: {theme: neon}\ncategories:\n  - title: No slug\n  - slug: a\n  - slug: A\n"))

	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"categories[0].slug", "categories[2].slug", "store.theme"}, verr.Fields())
}

func TestParse_RejectsMalformedItems(t *testing.T) {
	_, err := config.Parse([]byte("categories:\n  - slug: a\n    items: {name: x}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "items must be a list")
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: {name: Shop}\ncategories:\n  - slug: misc\n    url: https://example.com/x.csv\n    page_size: 12\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Shop", cfg.Store.Name)
	assert.Equal(t, "dark", cfg.Store.Theme)
	assert.Equal(t, 12, cfg.Categories[0].PageSize)
	assert.Equal(t, "misc", cfg.Categories[0].Title)
	assert.Equal(t, []string{"misc"}, cfg.Slugs())

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config")
}

func TestResolvePathAndLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TECHJOJO_CONFIG=/etc/techjojo.yaml\n"), 0o600))

	t.Setenv(config.EnvConfig, "")
	require.NoError(t, os.Unsetenv(config.EnvConfig))
	require.NoError(t, config.LoadEnv(envFile))

	assert.Equal(t, "/etc/techjojo.yaml", config.ResolvePath(""))
	assert.Equal(t, "mine.yaml", config.ResolvePath(" mine.yaml "))

	assert.NoError(t, config.LoadEnv(filepath.Join(dir, "absent.env")))
}
