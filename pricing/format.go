// Package pricing contains the price-adjustment engine and the derived
// presentation math for estimate triples (band classification, range
// positions, display formatting). Prices are whole XPF amounts.
package pricing

import (
	"strconv"
	"strings"
)

// EmptyPrice is rendered when no usable price is available.
const EmptyPrice = "—"

// FormatFull renders a price grouped by thousands with plain spaces,
// followed by the currency code, e.g. "12 500 000 XPF". Grouping uses
// regular spaces on purpose: narrow no-break spaces break downstream
// text rendering in exported documents.
func FormatFull(price int64) string {
	if price <= 0 {
		return EmptyPrice
	}

	digits := strconv.FormatInt(price, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(d)
	}
	b.WriteString(" XPF")
	return b.String()
}

// FormatCompact renders prices of one million XPF and above as a
// one-decimal amount in millions with the local "MF" suffix
// (millions de francs), e.g. "12,5 MF". Below one million it falls
// back to FormatFull.
func FormatCompact(price int64) string {
	if price <= 0 {
		return EmptyPrice
	}
	if price < 1_000_000 {
		return FormatFull(price)
	}

	millions := float64(price) / 1_000_000
	s := strconv.FormatFloat(millions, 'f', 1, 64)
	// French decimal separator
	s = strings.Replace(s, ".", ",", 1)
	return s + " MF"
}
