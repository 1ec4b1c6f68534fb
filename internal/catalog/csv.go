package catalog

import (
	"math"
	"strconv"
	"strings"

	"github.com/techjojo/catalogue/internal/text"
)

const (
	priceHeader = "price"
	tagsHeader  = "tags"
)

// ParseCSV parses a spreadsheet CSV export. It never fails: malformed lines
// degrade to fewer cells and missing cells become "".
//
// Records are line-based. A quoted field cannot span lines.
func ParseCSV(body string) Table {
	body = strings.TrimPrefix(body, "\ufeff")
	body = strings.ReplaceAll(body, "\r", "")

	lines := make([]string, 0, strings.Count(body, "\n")+1)
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return Table{}
	}

	rawHeaders := SplitLine(lines[0])
	headers := make([]string, len(rawHeaders))
	for i, h := range rawHeaders {
		headers[i] = text.CleanOne(h)
	}

	rows := make([]RawRow, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := SplitLine(line)
		row := make(RawRow, len(headers))
		for i, h := range headers {
			raw := ""
			if i < len(fields) {
				raw = fields[i]
			}
			row[h] = parseCell(h, text.CleanOne(raw))
		}
		rows = append(rows, row)
	}

	return Table{Headers: headers, Rows: rows}
}

// SplitLine splits one CSV line on commas outside quotes. Inside quotes a
// doubled quote is a literal quote; any other quote toggles quoting.
func SplitLine(line string) []string {
	var (
		fields  []string
		cur     strings.Builder
		inQuote bool
	)
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"' && inQuote && i+1 < len(line) && line[i+1] == '"':
			cur.WriteByte('"')
			i++
		case ch == '"':
			inQuote = !inQuote
		case ch == ',' && !inQuote:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	return append(fields, cur.String())
}

func parseCell(header, value string) Cell {
	switch {
	case strings.EqualFold(header, priceHeader):
		if n, ok := parseNumber(value); ok {
			return Number(n)
		}
		return Text(value)
	case strings.EqualFold(header, tagsHeader) && value != "":
		return List(text.SplitList(value))
	default:
		return Text(value)
	}
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}
