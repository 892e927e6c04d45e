package projection

import (
	"fmt"
	"io"

	"tier-sim/internal/model"
)

const (
	rowFormat = "%-4s %9s %14s %14s %8s %14s %14s %14s\n"
)

// WriteTable writes one header row and one row per projection, in input order.
func WriteTable(w io.Writer, projs []model.TierProjection) error {
	if _, err := fmt.Fprintf(w, rowFormat,
		"tier", "bots", "license", "monthly", "months", "total payout", "profit", "funding",
	); err != nil {
		return err
	}
	for _, p := range projs {
		if _, err := fmt.Fprintf(w, rowFormat,
			fmt.Sprintf("%d", p.Tier.ID),
			FormatCount(p.Tier.Bots),
			FormatCurrency(p.Tier.LicensePrice),
			FormatCurrency(p.Tier.MonthlyPayout),
			FormatCount(p.Tier.DurationMonths),
			FormatCurrency(p.TotalPayout),
			FormatCurrency(p.Profit),
			FormatCurrency(p.TotalFunding),
		); err != nil {
			return err
		}
	}
	return nil
}
