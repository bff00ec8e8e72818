package catalog

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatCentsInput turns raw money input into a two decimal amount, reading
// the typed digits as cents: "350" becomes "3.50" and "5" becomes "0.05".
// Every non-digit is discarded, so an already formatted value is re-read as
// digits only. Input without digits yields an empty string.
func FormatCentsInput(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := strings.TrimLeft(digits.String(), "0")
	if digits.Len() == 0 {
		return ""
	}
	for len(d) < 3 {
		d = "0" + d
	}
	return d[:len(d)-2] + "." + d[len(d)-2:]
}

var brl = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders a price in Brazilian Real, e.g. "R$ 35,50".
func FormatBRL(v float64) string {
	return brl.Sprintf("R$ %.2f", v)
}
