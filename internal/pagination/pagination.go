// Package pagination computes page bounds and the compact page-number window
// shown under a result list.
package pagination

const (
	siblings   = 1
	boundaries = 1
)

// Page describes one page of a result list. Start and End are slice bounds
// into the full result.
type Page struct {
	Number int `json:"page"`
	Pages  int `json:"pages"`
	Size   int `json:"pageSize"`
	Total  int `json:"total"`
	Start  int `json:"-"`
	End    int `json:"-"`
}

// Compute clamps requested into [1, pages] and returns the resulting page.
// There is always at least one page, even for an empty result.
func Compute(total, size, requested int) Page {
	if size < 1 {
		size = 1
	}
	if total < 0 {
		total = 0
	}
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	page := Clamp(requested, pages)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := min(start+size, total)
	return Page{Number: page, Pages: pages, Size: size, Total: total, Start: start, End: end}
}

// Clamp bounds page into [1, pages].
func Clamp(page, pages int) int {
	if pages < 1 {
		pages = 1
	}
	return max(1, min(page, pages))
}

// From is the 1-based index of the first item shown, or 0 when empty.
func (p Page) From() int {
	if p.Total == 0 {
		return 0
	}
	return p.Start + 1
}

// To is the 1-based index of the last item shown.
func (p Page) To() int {
	return p.End
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool { return p.Number < p.Pages }

// Item is one entry of a page window: a page number or an ellipsis marker.
type Item struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// Window returns the page numbers to show around current: the first and last
// page, the current page with one sibling each side, and an ellipsis marker
// for every gap. Entries are unique, ascending and within [1, pages].
func Window(pages, current int) []Item {
	if pages <= 1 {
		return []Item{{Page: 1}}
	}
	current = Clamp(current, pages)

	startPage := max(boundaries+1, min(current-siblings, pages-boundaries-2*siblings))
	endPage := min(pages-boundaries, max(current+siblings, boundaries+2*siblings+1))

	var out []Item
	last := 0
	push := func(n int) {
		if n < 1 || n > pages || n <= last {
			return
		}
		out = append(out, Item{Page: n})
		last = n
	}

	for n := 1; n <= min(boundaries, pages); n++ {
		push(n)
	}
	if startPage > boundaries+1 {
		out = append(out, Item{Ellipsis: true})
	}
	for n := startPage; n <= endPage; n++ {
		push(n)
	}
	if endPage < pages-boundaries {
		out = append(out, Item{Ellipsis: true})
	}
	for n := max(pages-boundaries+1, boundaries+1); n <= pages; n++ {
		push(n)
	}
	return out
}
