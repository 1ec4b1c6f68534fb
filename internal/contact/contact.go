// Package contact builds the seller enquiry message and its WhatsApp link.
package contact

import (
	"net/url"
	"strings"

	"github.com/techjojo/catalogue/internal/catalog"
)

const greeting = "Hi! I'm interested in this product:"

// PriceFormatter renders a numeric price.
type PriceFormatter func(float64) string

// componentUnescape restores the characters encodeURIComponent leaves alone
// but url.QueryEscape encodes.
var componentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// DigitsOnly strips everything but ASCII digits from phone.
func DigitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Message lists every field of p except id, one "• header: value" line
// each, under a greeting. A numeric price goes through formatPrice when set.
func Message(p catalog.Product, headers []string, formatPrice PriceFormatter) string {
	lines := []string{greeting}
	for _, h := range headers {
		if strings.EqualFold(h, "id") {
			continue
		}
		c := p.Cell(h)
		value := c.String()
		switch {
		case value == "":
			value = catalog.Sentinel
		case c.Kind == catalog.KindNumber && strings.EqualFold(h, "price") && formatPrice != nil:
			value = formatPrice(c.Number)
		}
		lines = append(lines, "• "+h+": "+value)
	}
	return strings.Join(lines, "\n")
}

// EncodeComponent percent-encodes s like JavaScript's encodeURIComponent.
func EncodeComponent(s string) string {
	return componentUnescape.Replace(url.QueryEscape(s))
}

// WhatsAppLink returns a wa.me link for phone with the enquiry for p
// prefilled.
func WhatsAppLink(phone string, p catalog.Product, headers []string, formatPrice PriceFormatter) string {
	return "https://wa.me/" + DigitsOnly(phone) + "?text=" + EncodeComponent(Message(p, headers, formatPrice))
}

// ChatLink returns a plain wa.me link for phone.
func ChatLink(phone string) string {
	return "https://wa.me/" + DigitsOnly(phone)
}
