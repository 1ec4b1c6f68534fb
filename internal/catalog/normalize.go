package catalog

import (
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/techjojo/catalogue/internal/text"
)

// IDFunc generates identifiers for rows that carry none.
type IDFunc func() string

// NewID returns a fresh ULID string.
func NewID() string { return ulid.Make().String() }

var imageAliases = []string{"img", "image", "imageurl", "image_url"}

// Normalize converts parsed rows into products. Every header gets a cell on
// every product; blank values become the sentinel. Rows without a meaningful
// id or ID get one from idGen (NewID when nil).
func Normalize(headers []string, rows []RawRow, idGen IDFunc) Dataset {
	if idGen == nil {
		idGen = NewID
	}

	nameHeader, _ := FindHeader(headers, "name")
	brandHeader, _ := FindHeader(headers, "brand")
	imageHeader, _ := FindHeader(headers, imageAliases...)

	products := make([]Product, 0, len(rows))
	for _, row := range rows {
		cells := make(map[string]Cell, len(headers))
		for _, h := range headers {
			cells[h] = normalizeCell(h, row[h])
		}

		p := Product{
			ID:    rowID(row, idGen),
			Name:  aliasValue(cells, nameHeader),
			Brand: aliasValue(cells, brandHeader),
			Image: aliasValue(cells, imageHeader),
			Cells: cells,
		}
		products = append(products, p)
	}

	return Dataset{Headers: append([]string(nil), headers...), Products: products}
}

func normalizeCell(header string, c Cell) Cell {
	switch {
	case strings.EqualFold(header, priceHeader):
		if c.Kind == KindNumber {
			return c
		}
		clean := text.CleanOne(c.String())
		if clean == "" {
			return Missing()
		}
		if n, ok := parseNumber(clean); ok {
			return Number(n)
		}
		return Text(clean)

	case strings.EqualFold(header, tagsHeader):
		var tags []string
		if c.Kind == KindList {
			for _, t := range c.List {
				if clean := text.CleanOne(t); clean != "" && text.IsMeaningful(clean) {
					tags = append(tags, clean)
				}
			}
		} else if clean := text.CleanOne(c.String()); clean != "" {
			tags = text.SplitList(clean)
		}
		if len(tags) == 0 {
			return Missing()
		}
		return List(tags)

	default:
		clean := text.CleanOne(c.String())
		if clean == "" {
			return Missing()
		}
		return Text(clean)
	}
}

func rowID(row RawRow, idGen IDFunc) string {
	for _, key := range []string{"id", "ID"} {
		if c, ok := row[key]; ok {
			if v := text.CleanOne(c.String()); v != "" && text.IsMeaningful(v) {
				return v
			}
		}
	}
	for key, c := range row {
		if strings.EqualFold(key, "id") {
			if v := text.CleanOne(c.String()); v != "" && text.IsMeaningful(v) {
				return v
			}
		}
	}
	return idGen()
}

func aliasValue(cells map[string]Cell, header string) string {
	if header == "" {
		return Sentinel
	}
	c, ok := cells[header]
	if !ok {
		return Sentinel
	}
	return c.String()
}
