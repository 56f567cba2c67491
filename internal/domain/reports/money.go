package reports

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders an amount as "R$ 1.234,56".
func FormatBRL(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	return sign + "R$ " + ptBR.Sprintf("%.2f", rounded.InexactFloat64())
}

// FormatPercent renders a fractional rate as a pt-BR percentage, e.g. 0.075
// becomes "7,5%".
func FormatPercent(rate decimal.Decimal) string {
	pct := rate.Mul(decimal.NewFromInt(100)).Round(2)
	places := 0
	for places < 2 && !pct.Equal(pct.Truncate(int32(places))) {
		places++
	}
	verb := [...]string{"%.0f", "%.1f", "%.2f"}[places]
	return ptBR.Sprintf(verb, pct.InexactFloat64()) + "%"
}
