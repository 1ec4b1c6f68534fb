// Package catalog turns spreadsheet CSV exports into normalized products.
package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Sentinel marks a missing or blank field after normalization.
const Sentinel = "-"

// Kind tags the variant held by a Cell.
type Kind int

const (
	// KindText is a cleaned string.
	KindText Kind = iota
	// KindNumber is a finite decimal, used for price columns.
	KindNumber
	// KindList is a list of tags.
	KindList
)

// Cell is a single field value. Exactly one of Text, Number or List is
// meaningful, selected by Kind.
type Cell struct {
	Kind   Kind
	Text   string
	Number float64
	List   []string
}

// Text returns a text cell.
func Text(s string) Cell { return Cell{Kind: KindText, Text: s} }

// Number returns a numeric cell.
func Number(n float64) Cell { return Cell{Kind: KindNumber, Number: n} }

// List returns a list cell.
func List(items []string) Cell { return Cell{Kind: KindList, List: items} }

// Missing returns the sentinel text cell.
func Missing() Cell { return Text(Sentinel) }

// IsSentinel reports whether the cell holds the missing-value marker.
func (c Cell) IsSentinel() bool {
	return c.Kind == KindText && c.Text == Sentinel
}

// String renders the cell the way it is displayed: lists joined with ", ",
// numbers without trailing zeros.
func (c Cell) String() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case KindList:
		return strings.Join(c.List, ", ")
	default:
		return c.Text
	}
}

// SearchText is the text contributed to the search haystack. Lists are joined
// with spaces and the sentinel contributes nothing.
func (c Cell) SearchText() string {
	switch {
	case c.Kind == KindList:
		return strings.Join(c.List, " ")
	case c.IsSentinel():
		return ""
	default:
		return c.String()
	}
}

// MarshalJSON encodes the cell as its natural JSON value.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindNumber:
		return json.Marshal(c.Number)
	case KindList:
		if c.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(c.List)
	default:
		return json.Marshal(c.Text)
	}
}

// RawRow maps each header to its parsed cell.
type RawRow map[string]Cell

// Table is the parser's output and the shape of fallback data.
type Table struct {
	Headers []string
	Rows    []RawRow
}

// Product is a normalized row. Cells holds every header of the dataset.
type Product struct {
	ID    string
	Name  string
	Brand string
	Image string
	Cells map[string]Cell
}

// Cell returns the product's value for header, or the sentinel when absent.
func (p Product) Cell(header string) Cell {
	if c, ok := p.Cells[header]; ok {
		return c
	}
	return Missing()
}

// Dataset is the normalized form of one loaded table.
type Dataset struct {
	Headers  []string
	Products []Product
}

// FindHeader returns the first header equal (case-insensitively) to one of
// candidates, in candidate order.
func FindHeader(headers []string, candidates ...string) (string, bool) {
	for _, c := range candidates {
		for _, h := range headers {
			if strings.EqualFold(h, c) {
				return h, true
			}
		}
	}
	return "", false
}
