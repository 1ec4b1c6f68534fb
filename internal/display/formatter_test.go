package display_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techjojo/catalogue/internal/browse"
	"github.com/techjojo/catalogue/internal/catalog"
	"github.com/techjojo/catalogue/internal/config"
	"github.com/techjojo/catalogue/internal/display"
	"github.com/techjojo/catalogue/internal/pagination"
)

const laptopCSV = "id,name,brand,price,Processor,RAM,category,img\n" +
	"a1,Alpha,Acer,150000,Core i5,8GB,Business Laptop,a.png\n" +
	"b2,Beta,Acer,,Core i7,8GB,Business Laptop,b.png\n" +
	"c3,Gamma,Dell,Call us,Ryzen 5,16GB,Gaming Laptop,c.png\n"

func sampleListing(t *testing.T) display.Listing {
	t.Helper()
	s := browse.NewSession(8)
	s.SetTable(catalog.ParseCSV(laptopCSV))
	return display.Listing{
		Category: "Business Laptops",
		Headers:  s.Dataset().Headers,
		View:     s.View(),
		Money:    display.NewCurrencyFormatter("NGN", "not a locale!!"),
		WhatsApp: "+234 805 471 7837",
	}
}

func TestPrintListing_ContainsExpectedContent(t *testing.T) {
	var buf bytes.Buffer
	display.PrintListing(&buf, sampleListing(t))
	output := buf.String()

	assert.Contains(t, output, "Business Laptops")
	assert.Contains(t, output, "Showing 1–3 of 3 items")
	assert.Contains(t, output, "Alpha")
	assert.Contains(t, output, "₦150,000")
	assert.Contains(t, output, display.ContactForPrice)
	assert.Contains(t, output, "Call us")
	assert.Contains(t, output, "💻 Processor: Core i5")
	assert.Contains(t, output, "🧠 RAM: 8GB")
	assert.Contains(t, output, "💻 Business Laptop")
	assert.Contains(t, output, "[1]")
}

func TestPrintListing_Empty(t *testing.T) {
	l := sampleListing(t)
	l.View = browse.View{Page: pagination.Compute(0, 8, 1), Summary: "Showing 0–0 of 0 items"}

	var buf bytes.Buffer
	display.PrintListing(&buf, l)

	assert.Contains(t, buf.String(), "No products match")
	assert.Contains(t, buf.String(), "Ask the seller: https://wa.me/2348054717837")
}

func TestPageHint(t *testing.T) {
	assert.Equal(t, "", display.PageHint(pagination.Compute(3, 8, 1)))
	assert.Equal(t, "--page 2 next", display.PageHint(pagination.Compute(20, 8, 1)))
	assert.Equal(t, "--page 1 previous • --page 3 next", display.PageHint(pagination.Compute(20, 8, 2)))
	assert.Equal(t, "--page 2 previous", display.PageHint(pagination.Compute(20, 8, 3)))
}

func TestPrintListingJSON_ValidOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, display.PrintListingJSON(&buf, sampleListing(t)))

	var out display.ListingJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "Business Laptops", out.Category)
	assert.Equal(t, 3, out.Page.Total)
	assert.Equal(t, 1, out.Page.Pages)
	require.Len(t, out.Items, 3)
	assert.Equal(t, "a1", out.Items[0].ID)
	assert.Equal(t, "₦150,000", out.Items[0].Price)
	assert.Equal(t, display.ContactForPrice, out.Items[1].Price)
	assert.True(t, strings.HasPrefix(out.Items[0].Contact, "https://wa.me/2348054717837?text="))
	assert.NotEmpty(t, out.Items[0].Specs)
}

func TestPrintListingJSON_RawFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, display.PrintListingJSON(&buf, sampleListing(t)))

	var raw struct {
		Items []struct {
			Fields map[string]any `json:"fields"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))

	assert.Equal(t, 150000.0, raw.Items[0].Fields["price"])
	assert.Equal(t, "-", raw.Items[1].Fields["price"])
	assert.Equal(t, "Core i7", raw.Items[1].Fields["Processor"])
}

func TestPrintFacets(t *testing.T) {
	s := browse.NewSession(8)
	s.SetTable(catalog.ParseCSV(laptopCSV))

	var buf bytes.Buffer
	display.PrintFacets(&buf, "Business Laptops", s.Dataset().Headers, s.Facets(), s.Buckets())
	output := buf.String()

	assert.Contains(t, output, "Filters for Business Laptops:")
	assert.Contains(t, output, "Acer")
	assert.Contains(t, output, "8GB")
	assert.Contains(t, output, "100K–200K (1)")
	assert.NotContains(t, output, "a.png")
}

func TestPrintFacetsJSON(t *testing.T) {
	s := browse.NewSession(8)
	s.SetTable(catalog.ParseCSV(laptopCSV))

	var buf bytes.Buffer
	require.NoError(t, display.PrintFacetsJSON(&buf, "laptops", s.Dataset().Headers, s.Facets(), s.Buckets()))

	var out display.FacetsJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	headers := make([]string, 0, len(out.Facets))
	for _, f := range out.Facets {
		headers = append(headers, f.Header)
	}
	assert.Equal(t, []string{"name", "brand", "price", "Processor", "RAM", "category"}, headers)
	assert.Equal(t, "Acer", out.Facets[1].Options[0].Label)
	assert.Equal(t, 2, out.Facets[1].Options[0].Count)
	require.Len(t, out.PriceBuckets, 1)
}

func TestPrintCategories(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	var buf bytes.Buffer
	display.PrintCategories(&buf, cfg.Store.Name, cfg.Categories)
	output := buf.String()

	assert.Contains(t, output, "Shop techjojo's by category:")
	assert.Contains(t, output, "gaming-laptops")
	assert.Contains(t, output, "Intel • Nvidia • RGB")

	buf.Reset()
	require.NoError(t, display.PrintCategoriesJSON(&buf, cfg.Categories))
	var out []display.CategoryJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, len(cfg.Categories))
	for _, c := range out {
		if c.Slug == "tablets" {
			assert.Equal(t, "static", c.Source)
		}
	}
}

func TestPrintSearch(t *testing.T) {
	hits := []display.SearchHit{
		{Slug: "monitors", Title: "Monitors", Matched: 2, Total: 10, Top: []string{"AOC 24G2", "Samsung Odyssey"}},
		{Slug: "phones", Title: "Phones", Error: "loading products: unexpected status 404"},
	}

	var buf bytes.Buffer
	display.PrintSearch(&buf, "odyssey", hits)
	output := buf.String()

	assert.Contains(t, output, `Matches for "odyssey":`)
	assert.Contains(t, output, "2 of 10")
	assert.Contains(t, output, "AOC 24G2, Samsung Odyssey")
	assert.Contains(t, output, "unexpected status 404")

	buf.Reset()
	require.NoError(t, display.PrintSearchJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestRenderWindow(t *testing.T) {
	out := display.RenderWindow(pagination.Window(10, 5), 5)

	assert.Equal(t, "‹ 1 … 4 [5] 6 … 10 ›", out)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", display.Truncate("short", 10))
	assert.Equal(t, "Samsung...", display.Truncate("Samsung Odyssey G5", 10))
	assert.Equal(t, "ab", display.Truncate("abcdef", 2))
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	display.PrintError(&buf, "something went wrong")
	assert.Contains(t, buf.String(), "something went wrong")
}

func TestPrintWarning(t *testing.T) {
	var buf bytes.Buffer
	display.PrintWarning(&buf, "heads up")
	assert.Contains(t, buf.String(), "heads up")
}
