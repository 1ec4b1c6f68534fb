package display

import (
	"math"
	"strconv"
	"strings"

	"github.com/techjojo/catalogue/internal/catalog"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ContactForPrice is shown for products without a price.
const ContactForPrice = "Contact for price"

const fallbackSymbol = "₦"

// CurrencyFormatter renders whole-unit amounts for one currency and locale,
// for example "₦150,000".
type CurrencyFormatter struct {
	symbol  string
	printer *message.Printer
}

// NewCurrencyFormatter returns a formatter for the ISO currency code in the
// given locale. An unknown code or locale falls back to the naira sign and
// comma grouping.
func NewCurrencyFormatter(code, locale string) *CurrencyFormatter {
	f := &CurrencyFormatter{symbol: fallbackSymbol}

	tag, err := language.Parse(locale)
	if err != nil {
		return f
	}
	f.printer = message.NewPrinter(tag)

	unit, err := currency.ParseISO(code)
	if err != nil {
		return f
	}
	if sym := strings.TrimSpace(f.printer.Sprint(currency.NarrowSymbol(unit))); sym != "" {
		f.symbol = sym
	}
	return f
}

var fallbackFormatter = &CurrencyFormatter{symbol: fallbackSymbol}

// Symbol returns the currency sign in use.
func (f *CurrencyFormatter) Symbol() string {
	if f == nil {
		return fallbackSymbol
	}
	return f.symbol
}

// Format renders n rounded to whole units. A nil formatter uses the naira
// sign and comma grouping.
func (f *CurrencyFormatter) Format(n float64) string {
	if f == nil {
		f = fallbackFormatter
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return f.symbol + "0"
	}
	v := int64(math.Round(n))
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	var digits string
	if f.printer != nil {
		digits = f.printer.Sprintf("%d", v)
	} else {
		digits = groupThousands(v)
	}
	return sign + f.symbol + digits
}

// PriceText renders a price cell: numbers are formatted, text is kept as
// written, and a missing price asks the customer to get in touch.
func (f *CurrencyFormatter) PriceText(c catalog.Cell) string {
	switch {
	case c.Kind == catalog.KindNumber:
		return f.Format(c.Number)
	case c.IsSentinel() || c.String() == "":
		return ContactForPrice
	default:
		return c.String()
	}
}

func groupThousands(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
