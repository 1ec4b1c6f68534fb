// Package config loads the store and category configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/techjojo/catalogue/internal/catalog"
	"github.com/techjojo/catalogue/internal/filter"
	"github.com/techjojo/catalogue/internal/text"
	"gopkg.in/yaml.v3"
)

const (
	// EnvConfig names a config file that replaces the built-in one.
	EnvConfig = "TECHJOJO_CONFIG"
	// EnvTheme overrides the configured theme.
	EnvTheme = "TECHJOJO_THEME"

	defaultEnvFile  = ".env"
	defaultCurrency = "NGN"
	defaultLocale   = "en-NG"
	defaultTheme    = "dark"
)

//go:embed categories.yaml
var builtin []byte

// ErrUnknownCategory is returned when a slug matches no configured category.
var ErrUnknownCategory = errors.New("unknown category")

// Config is the full configuration.
type Config struct {
	Store      Store      `yaml:"store" json:"store"`
	Categories []Category `yaml:"categories" json:"categories"`
}

// Store describes the seller.
type Store struct {
	Name     string `yaml:"name" json:"name"`
	WhatsApp string `yaml:"whatsapp" json:"whatsapp"`
	Currency string `yaml:"currency" json:"currency"`
	Locale   string `yaml:"locale" json:"locale"`
	Theme    string `yaml:"theme" json:"theme"`
}

// Category is one catalogue: a sheet URL, fallback items, or both.
type Category struct {
	Slug     string             `yaml:"slug" json:"slug"`
	Title    string             `yaml:"title" json:"title"`
	Subtitle string             `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`
	URL      string             `yaml:"url,omitempty" json:"url,omitempty"`
	PageSize int                `yaml:"page_size,omitempty" json:"pageSize,omitempty"`
	Filters  []filter.FilterKey `yaml:"filters,omitempty" json:"filters,omitempty"`
	Items    Items              `yaml:"items,omitempty" json:"-"`
}

// Items is a static product list. Header order follows first appearance in
// the YAML so it survives decoding.
type Items struct {
	catalog.Table
}

// ValidationError lists the fields that are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Default returns the built-in configuration.
func Default() (Config, error) {
	return Parse(builtin)
}

// Load reads the configuration at path, or the built-in one when path is
// empty.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML configuration, filling defaults.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.applyDefaults()
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadEnv loads path (".env" when empty) into the process environment.
// Variables already set win. A missing file is not an error.
func LoadEnv(path string) error {
	if path == "" {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ResolvePath picks the config path from the flag value or TECHJOJO_CONFIG.
func ResolvePath(flagValue string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv(EnvConfig))
}

// Category returns the category whose slug or title matches name.
func (c Config) Category(name string) (Category, error) {
	want := text.Canon(name)
	if want != "" {
		for _, cat := range c.Categories {
			if text.Canon(cat.Slug) == want || text.Canon(cat.Title) == want {
				return cat, nil
			}
		}
	}
	return Category{}, fmt.Errorf("%w %q", ErrUnknownCategory, name)
}

// Slugs lists every category slug in configuration order.
func (c Config) Slugs() []string {
	out := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		out = append(out, cat.Slug)
	}
	return out
}

// Fallback returns the static items, used when the category has no URL.
func (c Category) Fallback() catalog.Table {
	return c.Items.Table
}

// Static reports whether the category is served from its static items only.
func (c Category) Static() bool {
	return strings.TrimSpace(c.URL) == ""
}

func (c *Config) applyDefaults() {
	if c.Store.Currency == "" {
		c.Store.Currency = defaultCurrency
	}
	if c.Store.Locale == "" {
		c.Store.Locale = defaultLocale
	}
	if c.Store.Theme == "" {
		c.Store.Theme = defaultTheme
	}
	for i := range c.Categories {
		cat := &c.Categories[i]
		cat.Slug = strings.TrimSpace(cat.Slug)
		cat.URL = strings.TrimSpace(cat.URL)
		if cat.Title == "" {
			cat.Title = cat.Slug
		}
		if cat.PageSize < 1 {
			cat.PageSize = 8
		}
	}
}

func validate(cfg Config) error {
	var invalid []string
	if len(cfg.Categories) == 0 {
		invalid = append(invalid, "categories")
	}
	seen := map[string]bool{}
	for i, cat := range cfg.Categories {
		if cat.Slug == "" {
			invalid = append(invalid, fmt.Sprintf("categories[%d].slug", i))
			continue
		}
		key := text.Canon(cat.Slug)
		if seen[key] {
			invalid = append(invalid, fmt.Sprintf("categories[%d].slug", i))
		}
		seen[key] = true
		for j, k := range cat.Filters {
			if strings.TrimSpace(k.Key) == "" {
				invalid = append(invalid, fmt.Sprintf("categories[%d].filters[%d].key", i, j))
			}
		}
	}
	switch cfg.Store.Theme {
	case "dark", "light":
	default:
		invalid = append(invalid, "store.theme")
	}
	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

// UnmarshalYAML decodes a sequence of mappings. Scalars tagged as numbers
// become numeric cells and nested sequences become list cells.
func (it *Items) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: items must be a list", node.Line)
	}
	var table catalog.Table
	known := map[string]bool{}
	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: item must be a mapping", item.Line)
		}
		row := catalog.RawRow{}
		for i := 0; i+1 < len(item.Content); i += 2 {
			header := text.CleanOne(item.Content[i].Value)
			if header == "" {
				continue
			}
			if !known[header] {
				known[header] = true
				table.Headers = append(table.Headers, header)
			}
			cell, err := itemCell(item.Content[i+1])
			if err != nil {
				return err
			}
			row[header] = cell
		}
		table.Rows = append(table.Rows, row)
	}
	it.Table = table
	return nil
}

func itemCell(node *yaml.Node) (catalog.Cell, error) {
	switch node.Kind {
	case yaml.SequenceNode:
		var values []string
		for _, v := range node.Content {
			if s := text.CleanOne(v.Value); text.IsMeaningful(s) {
				values = append(values, s)
			}
		}
		return catalog.List(values), nil
	case yaml.ScalarNode:
		if node.Tag == "!!int" || node.Tag == "!!float" {
			n, err := strconv.ParseFloat(node.Value, 64)
			if err == nil {
				return catalog.Number(n), nil
			}
		}
		return catalog.Text(node.Value), nil
	default:
		return catalog.Cell{}, fmt.Errorf("line %d: unsupported item value", node.Line)
	}
}
