package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/techjojo/catalogue/internal/browse"
	"github.com/techjojo/catalogue/internal/catalog"
	"github.com/techjojo/catalogue/internal/config"
	"github.com/techjojo/catalogue/internal/contact"
	"github.com/techjojo/catalogue/internal/filter"
	"github.com/techjojo/catalogue/internal/pagination"
)

// Styles for terminal output. UseTheme swaps their colours.
var (
	titleStyle   lipgloss.Style
	priceStyle   lipgloss.Style
	dimStyle     lipgloss.Style
	cyanStyle    lipgloss.Style
	headerStyle  lipgloss.Style
	errorStyle   lipgloss.Style
	warningStyle lipgloss.Style
	borderStyle  lipgloss.Style
)

func init() { applyTheme(current) }

const lineWidth = 72

// Listing is one rendered page of a category.
type Listing struct {
	Category string
	Headers  []string
	View     browse.View
	Money    *CurrencyFormatter
	WhatsApp string
}

// ProductJSON is the JSON output shape for a product.
type ProductJSON struct {
	ID      string                  `json:"id"`
	Name    string                  `json:"name"`
	Brand   string                  `json:"brand"`
	Image   string                  `json:"image"`
	Price   string                  `json:"price"`
	Fields  map[string]catalog.Cell `json:"fields"`
	Specs   []SpecLine              `json:"specs"`
	Contact string                  `json:"contact,omitempty"`
}

// ListingJSON is the JSON output shape for a page of results.
type ListingJSON struct {
	Category      string            `json:"category"`
	Summary       string            `json:"summary"`
	Page          pagination.Page   `json:"page"`
	Window        []pagination.Item `json:"window"`
	ActiveFilters int               `json:"activeFilters"`
	Items         []ProductJSON     `json:"items"`
}

// FacetJSON is the JSON output shape for one header's facet values.
type FacetJSON struct {
	Header  string          `json:"header"`
	Options []filter.Option `json:"options"`
}

// FacetsJSON is the JSON output shape for a category's filter vocabulary.
type FacetsJSON struct {
	Category     string          `json:"category"`
	Facets       []FacetJSON     `json:"facets"`
	PriceBuckets []filter.Bucket `json:"priceBuckets"`
}

// CategoryJSON is the JSON output shape for a configured category.
type CategoryJSON struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Source   string `json:"source"`
	PageSize int    `json:"pageSize"`
}

// SearchHit is one category's result for a cross-category search.
type SearchHit struct {
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Matched int      `json:"matched"`
	Total   int      `json:"total"`
	Top     []string `json:"top"`
	Error   string   `json:"error,omitempty"`
}

// PrintListing renders a page of products to the writer.
func PrintListing(w io.Writer, l Listing) {
	fmt.Fprintf(w, "\n%s — %s\n\n",
		headerStyle.Render(l.Category),
		cyanStyle.Render(l.View.Summary),
	)
	if len(l.View.Items) == 0 {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render("No products match. Try clearing filters or searching for something else."))
		if contact.DigitsOnly(l.WhatsApp) != "" {
			fmt.Fprintf(w, "  %s\n", dimStyle.Render("Ask the seller: "+contact.ChatLink(l.WhatsApp)))
		}
		fmt.Fprintln(w)
		return
	}
	for _, p := range l.View.Items {
		printProduct(w, p, l)
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "  %s\n", RenderWindow(l.View.Window, l.View.Page.Number))
	if hint := PageHint(l.View.Page); hint != "" {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render(hint))
	}
	if l.View.Active > 0 {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render(fmt.Sprintf("%d active filter(s)", l.View.Active)))
	}
	fmt.Fprintln(w)
}

// PageHint names the --page values that lead to neighbouring pages, or ""
// when everything fits on one page.
func PageHint(p pagination.Page) string {
	var parts []string
	if p.HasPrev() {
		parts = append(parts, fmt.Sprintf("--page %d previous", p.Number-1))
	}
	if p.HasNext() {
		parts = append(parts, fmt.Sprintf("--page %d next", p.Number+1))
	}
	return strings.Join(parts, " • ")
}

// PrintListingJSON renders a page of products as JSON.
func PrintListingJSON(w io.Writer, l Listing) error {
	items := make([]ProductJSON, 0, len(l.View.Items))
	for _, p := range l.View.Items {
		items = append(items, ToProductJSON(p, l.Headers, l.Money, l.WhatsApp))
	}
	window := l.View.Window
	if window == nil {
		window = []pagination.Item{}
	}
	return json.NewEncoder(w).Encode(ListingJSON{
		Category:      l.Category,
		Summary:       l.View.Summary,
		Page:          l.View.Page,
		Window:        window,
		ActiveFilters: l.View.Active,
		Items:         items,
	})
}

// ToProductJSON converts a product to its JSON output shape.
func ToProductJSON(p catalog.Product, headers []string, money *CurrencyFormatter, whatsapp string) ProductJSON {
	fields := make(map[string]catalog.Cell, len(headers))
	for _, h := range headers {
		fields[h] = p.Cell(h)
	}
	specs := SpecLines(p, headers)
	if specs == nil {
		specs = []SpecLine{}
	}
	out := ProductJSON{
		ID:     p.ID,
		Name:   p.Name,
		Brand:  p.Brand,
		Image:  p.Image,
		Price:  priceText(p, headers, money),
		Fields: fields,
		Specs:  specs,
	}
	if contact.DigitsOnly(whatsapp) != "" {
		out.Contact = contact.WhatsAppLink(whatsapp, p, headers, money.Format)
	}
	return out
}

// PrintFacets renders each header's values with counts, then the price
// buckets.
func PrintFacets(w io.Writer, category string, headers []string, facets filter.Facets, buckets []filter.Bucket) {
	fmt.Fprintf(w, "\n%s\n\n", titleStyle.Render(fmt.Sprintf("Filters for %s:", category)))

	var rows [][]string
	for _, g := range facetGroups(headers, facets) {
		for i, o := range g.Options {
			name := ""
			if i == 0 {
				name = g.Header
			}
			rows = append(rows, []string{name, Truncate(o.Label, 40), strconv.Itoa(o.Count)})
		}
	}
	if len(rows) == 0 {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render("No header has two or more distinct values."))
	} else {
		fmt.Fprintln(w, facetTable([]string{"Filter", "Value", "Count"}, rows))
	}

	if len(buckets) > 0 {
		var labels []string
		for _, b := range buckets {
			labels = append(labels, fmt.Sprintf("%s (%d)", b.Label, b.Count))
		}
		fmt.Fprintf(w, "\n  %s %s\n", cyanStyle.Render("Price:"), wrapIndent(strings.Join(labels, "  "), lineWidth, "         "))
	}
	fmt.Fprintln(w)
}

// PrintFacetsJSON renders the filter vocabulary as JSON.
func PrintFacetsJSON(w io.Writer, category string, headers []string, facets filter.Facets, buckets []filter.Bucket) error {
	if buckets == nil {
		buckets = []filter.Bucket{}
	}
	return json.NewEncoder(w).Encode(FacetsJSON{
		Category:     category,
		Facets:       facetGroups(headers, facets),
		PriceBuckets: buckets,
	})
}

// PrintCategories renders the configured categories.
func PrintCategories(w io.Writer, store string, cats []config.Category) {
	fmt.Fprintf(w, "\n%s\n\n", titleStyle.Render(fmt.Sprintf("Shop %s by category:", store)))
	for _, c := range cats {
		fmt.Fprintf(w, "  %s  %s\n", cyanStyle.Render(padRight(c.Slug, 20)), titleStyle.Render(c.Title))
		if c.Subtitle != "" {
			fmt.Fprintf(w, "  %s  %s\n", strings.Repeat(" ", 20), dimStyle.Render(c.Subtitle))
		}
	}
	fmt.Fprintln(w)
}

// PrintCategoriesJSON renders the configured categories as JSON.
func PrintCategoriesJSON(w io.Writer, cats []config.Category) error {
	out := make([]CategoryJSON, 0, len(cats))
	for _, c := range cats {
		source := c.URL
		if c.Static() {
			source = "static"
		}
		out = append(out, CategoryJSON{
			Slug:     c.Slug,
			Title:    c.Title,
			Subtitle: c.Subtitle,
			Source:   source,
			PageSize: c.PageSize,
		})
	}
	return json.NewEncoder(w).Encode(out)
}

// PrintSearch renders match counts across categories.
func PrintSearch(w io.Writer, query string, hits []SearchHit) {
	fmt.Fprintf(w, "\n%s\n\n", titleStyle.Render(fmt.Sprintf("Matches for %q:", query)))
	for _, h := range hits {
		if h.Error != "" {
			fmt.Fprintf(w, "  %s  %s\n", cyanStyle.Render(padRight(h.Title, 20)), errorStyle.Render(h.Error))
			continue
		}
		fmt.Fprintf(w, "  %s  %s\n",
			cyanStyle.Render(padRight(h.Title, 20)),
			fmt.Sprintf("%d of %d", h.Matched, h.Total),
		)
		if len(h.Top) > 0 {
			fmt.Fprintf(w, "  %s  %s\n", strings.Repeat(" ", 20), dimStyle.Render(Truncate(strings.Join(h.Top, ", "), lineWidth-22)))
		}
	}
	fmt.Fprintln(w)
}

// PrintSearchJSON renders cross-category matches as JSON.
func PrintSearchJSON(w io.Writer, hits []SearchHit) error {
	if hits == nil {
		hits = []SearchHit{}
	}
	return json.NewEncoder(w).Encode(hits)
}

// PrintContext prints a dim line naming the data source in use.
func PrintContext(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s\n\n", dimStyle.Render(msg))
}

// PrintError prints a styled error message.
func PrintError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render(msg))
}

// PrintWarning prints a styled warning message.
func PrintWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, warningStyle.Render(msg))
}

// RenderWindow renders a page window such as "‹ 1 … 4 [5] 6 … 10 ›".
func RenderWindow(items []pagination.Item, current int) string {
	parts := []string{"‹"}
	for _, it := range items {
		switch {
		case it.Ellipsis:
			parts = append(parts, "…")
		case it.Page == current:
			parts = append(parts, headerStyle.Render(fmt.Sprintf("[%d]", it.Page)))
		default:
			parts = append(parts, strconv.Itoa(it.Page))
		}
	}
	parts = append(parts, "›")
	return strings.Join(parts, " ")
}

// Truncate shortens s to width display cells, ending in "...".
func Truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width < 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width-3, "") + "..."
}

func printProduct(w io.Writer, p catalog.Product, l Listing) {
	name := p.Name
	if name == catalog.Sentinel {
		name = "Unnamed product"
	}
	fmt.Fprintf(w, "  %s  %s\n",
		titleStyle.Render(Truncate(name, lineWidth-24)),
		priceStyle.Render(priceText(p, l.Headers, l.Money)),
	)

	for _, s := range SpecLines(p, l.Headers) {
		line := s.Icon + " " + s.Label
		if s.Text != "" {
			line += ": " + s.Text
		}
		fmt.Fprintf(w, "    %s\n", wrapIndent(line, lineWidth, "      "))
	}

	var meta []string
	if p.Brand != catalog.Sentinel {
		meta = append(meta, p.Brand)
	}
	meta = append(meta, "id "+p.ID)
	fmt.Fprintf(w, "    %s\n", dimStyle.Render(strings.Join(meta, " | ")))
}

func priceText(p catalog.Product, headers []string, money *CurrencyFormatter) string {
	header, ok := filter.FindPriceHeader(headers)
	if !ok {
		return ContactForPrice
	}
	return money.PriceText(p.Cell(header))
}

func facetGroups(headers []string, facets filter.Facets) []FacetJSON {
	out := []FacetJSON{}
	for _, h := range headers {
		if filter.Skipped(h) || !facets.Offered(h) {
			continue
		}
		out = append(out, FacetJSON{Header: h, Options: facets[h]})
	}
	return out
}

func facetTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return style.Inherit(headerStyle)
			case col == 2:
				return style.Align(lipgloss.Right)
			}
			return style
		}).
		String()
}

func wrapIndent(s string, width int, indent string) string {
	return strings.ReplaceAll(wordwrap.String(s, width), "\n", "\n"+indent)
}

func padRight(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
