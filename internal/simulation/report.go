package simulation

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"tier-sim/internal/projection"
)

// WriteSnapshot writes one line per tick, for example:
//
//	tick  3/10  #1=34.71 #2=34.80 ... | tick=11,574.07 total=34,722.22
func WriteSnapshot(w io.Writer, s TickSnapshot) error {
	var b strings.Builder
	width := len(fmt.Sprint(s.TickLimit))
	fmt.Fprintf(&b, "tick %*d/%d ", width, s.Tick, s.TickLimit)
	for _, u := range s.Sample {
		fmt.Fprintf(&b, " #%d=%s", u.ID, projection.FormatAmount(u.Earnings))
	}
	fmt.Fprintf(&b, " | tick=%s total=%s\n",
		projection.FormatAmount(s.TickSum),
		projection.FormatAmount(s.RunningTotal),
	)
	_, err := io.WriteString(w, b.String())
	return err
}

func WriteSummary(w io.Writer, s Summary) error {
	lines := []string{
		fmt.Sprintf("Simulation complete: tier %d, %s bots, %d ticks",
			s.TierID, projection.FormatCount(s.Bots), s.Ticks),
		fmt.Sprintf("  accrued total:       %s", currency(s.RunningTotal)),
		fmt.Sprintf("  average per bot:     %s", currency(s.AveragePerBot)),
		fmt.Sprintf("  projected monthly:   %s (%.2f%% accrued)",
			projection.FormatCurrency(s.MonthlyPayout), s.MonthShare*100),
		fmt.Sprintf("  projected %d-month:  %s", s.DurationMonths, projection.FormatCurrency(s.TotalPayout)),
		fmt.Sprintf("  projected profit:    %s", projection.FormatCurrency(s.Profit)),
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// TextObserver prints snapshots and the summary to w.
func TextObserver(w io.Writer) Observer {
	return ObserverFuncs{
		Tick: func(s TickSnapshot) error { return WriteSnapshot(w, s) },
		Complete: func(s Summary) error {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
			return WriteSummary(w, s)
		},
	}
}

func currency(f float64) string {
	return projection.FormatCurrency(decimal.NewFromFloat(f))
}
