package projection

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatCurrency renders d as "$12,000,000" or "$1,234.50"; cents are shown
// only when non-zero. Negative values get a leading minus: "-$500".
func FormatCurrency(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	out := sign + "$" + humanize.Comma(whole.IntPart())
	if frac := d.Sub(whole); !frac.IsZero() {
		out += fmt.Sprintf(".%02d", frac.Shift(2).IntPart())
	}
	return out
}

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatAmount renders a float with thousands separators and exactly two
// decimals, e.g. 115740.7 -> "115,740.70".
func FormatAmount(f float64) string {
	return humanize.FormatFloat("#,###.##", f)
}
