// Package browse holds the per-view query state: search text, filter
// selections and the current page over one normalized dataset.
package browse

import (
	"fmt"
	"maps"
	"strings"

	"github.com/techjojo/catalogue/internal/catalog"
	"github.com/techjojo/catalogue/internal/filter"
	"github.com/techjojo/catalogue/internal/pagination"
	"github.com/techjojo/catalogue/internal/text"
)

// DefaultPageSize is used when a category does not set one.
const DefaultPageSize = 8

// View is everything needed to render the current page.
type View struct {
	Items    []catalog.Product
	Page     pagination.Page
	Window   []pagination.Item
	Matched  int
	Active   int
	Summary  string
	Controls []filter.Control
	Buckets  []filter.Bucket
}

// Session is the query state of one catalogue view. It is not safe for
// concurrent use; the owning event loop serializes access.
type Session struct {
	pageSize int
	limit    int
	keys     []filter.FilterKey
	idGen    catalog.IDFunc

	dataset catalog.Dataset
	facets  filter.Facets
	buckets []filter.Bucket

	query   string
	filters map[string]string
	sort    string
	page    int

	matched []catalog.Product
	dirty   bool
}

// Option configures a Session.
type Option func(*Session)

// WithFilterKeys sets the configured filter controls.
func WithFilterKeys(keys []filter.FilterKey) Option {
	return func(s *Session) { s.keys = keys }
}

// WithLimit caps the number of matched products; zero means no cap.
func WithLimit(n int) Option {
	return func(s *Session) { s.limit = max(0, n) }
}

// WithIDFunc overrides product ID generation.
func WithIDFunc(fn catalog.IDFunc) Option {
	return func(s *Session) { s.idGen = fn }
}

// NewSession returns an empty session. pageSize values below one use
// DefaultPageSize.
func NewSession(pageSize int, opts ...Option) *Session {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	s := &Session{
		pageSize: pageSize,
		filters:  map[string]string{},
		page:     1,
		facets:   filter.Facets{},
		dirty:    true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetTable normalizes a freshly loaded table and makes it the session's
// dataset. IDs are assigned here, once per load.
func (s *Session) SetTable(table catalog.Table) {
	s.SetDataset(catalog.Normalize(table.Headers, table.Rows, s.idGen))
}

// SetDataset replaces the dataset, rebuilds facets and price buckets, keeps
// filter selections whose header still exists (re-keyed to its new spelling)
// and the price range, and returns to page 1.
func (s *Session) SetDataset(ds catalog.Dataset) {
	s.dataset = ds
	s.facets = filter.BuildFacets(ds)
	s.buckets = filter.PriceBuckets(ds)

	kept := make(map[string]string, len(s.filters))
	for k, v := range s.filters {
		if k == filter.PriceRangeKey {
			kept[k] = v
		} else if header, ok := matchHeader(ds.Headers, k); ok {
			kept[header] = v
		}
	}
	s.filters = kept
	s.page = 1
	s.dirty = true
}

// Dataset returns the current dataset.
func (s *Session) Dataset() catalog.Dataset { return s.dataset }

// Facets returns the facets of the current dataset.
func (s *Session) Facets() filter.Facets { return s.facets }

// Buckets returns the price buckets of the current dataset.
func (s *Session) Buckets() []filter.Bucket { return s.buckets }

// Query returns the search text.
func (s *Session) Query() string { return s.query }

// Filters returns a copy of the filter selections.
func (s *Session) Filters() map[string]string { return maps.Clone(s.filters) }

// Filter returns the selection for key.
func (s *Session) Filter(key string) string { return s.filters[key] }

// Sort returns the sort mode.
func (s *Session) Sort() string { return s.sort }

// Page returns the requested page number.
func (s *Session) Page() int { return s.page }

// PageSize returns the fixed page size.
func (s *Session) PageSize() int { return s.pageSize }

// SetQuery changes the search text. A change returns to page 1.
func (s *Session) SetQuery(q string) {
	if q == s.query {
		return
	}
	s.query = q
	s.page = 1
	s.dirty = true
}

// SetFilter selects value for key; an empty or placeholder value clears it.
// A change returns to page 1.
func (s *Session) SetFilter(key, value string) {
	value = text.CleanOne(value)
	if !text.IsMeaningful(value) {
		value = ""
	}
	if s.filters[key] == value {
		return
	}
	if value == "" {
		delete(s.filters, key)
	} else {
		s.filters[key] = value
	}
	s.page = 1
	s.dirty = true
}

// ClearFilters drops every selection, the price range and the search text.
func (s *Session) ClearFilters() {
	if len(s.filters) == 0 && s.query == "" {
		return
	}
	s.filters = map[string]string{}
	s.query = ""
	s.page = 1
	s.dirty = true
}

// SetSort changes the sort mode. A change returns to page 1.
func (s *Session) SetSort(mode string) {
	mode, _ = filter.NormalizeSortMode(mode)
	if mode == s.sort {
		return
	}
	s.sort = mode
	s.page = 1
	s.dirty = true
}

// GoTo moves to page n, clamped to the available pages, and returns the
// page actually selected.
func (s *Session) GoTo(n int) int {
	s.refresh()
	pages := pagination.Compute(len(s.matched), s.pageSize, 1).Pages
	s.page = pagination.Clamp(n, pages)
	return s.page
}

// Next moves one page forward.
func (s *Session) Next() int { return s.GoTo(s.page + 1) }

// Prev moves one page back.
func (s *Session) Prev() int { return s.GoTo(s.page - 1) }

// Matched returns every product matching the current query, in display order.
func (s *Session) Matched() []catalog.Product {
	s.refresh()
	return s.matched
}

// View computes the current page.
func (s *Session) View() View {
	s.refresh()
	page := pagination.Compute(len(s.matched), s.pageSize, s.page)
	return View{
		Items:    s.matched[page.Start:page.End],
		Page:     page,
		Window:   pagination.Window(page.Pages, page.Number),
		Matched:  len(s.matched),
		Active:   filter.ActiveCount(s.filters, s.facets),
		Summary:  Summary(page),
		Controls: filter.Controls(s.dataset.Headers, s.facets, s.keys),
		Buckets:  s.buckets,
	}
}

func (s *Session) refresh() {
	if !s.dirty {
		return
	}
	s.matched = filter.Apply(s.dataset, s.facets, filter.Options{
		Query:   s.query,
		Filters: s.filters,
		Sort:    s.sort,
		Limit:   s.limit,
	})
	s.dirty = false
}

// Summary renders "Showing a–b of n items".
func Summary(p pagination.Page) string {
	noun := "items"
	if p.Total == 1 {
		noun = "item"
	}
	return fmt.Sprintf("Showing %d–%d of %d %s", p.From(), p.To(), p.Total, noun)
}

// matchHeader returns the spelling in headers of key, compared
// case-insensitively.
func matchHeader(headers []string, key string) (string, bool) {
	for _, h := range headers {
		if strings.EqualFold(h, key) {
			return h, true
		}
	}
	return "", false
}
