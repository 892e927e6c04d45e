package simulation

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// WriteLedgerCSV writes one row per tick. Sampled unit columns are taken from
// the first snapshot; every snapshot of a run samples the same IDs.
func WriteLedgerCSV(path string, ledger []TickSnapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"tick",
		"tick_limit",
		"tick_sum",
		"running_total",
	}
	if len(ledger) > 0 {
		for _, u := range ledger[0].Sample {
			header = append(header, fmt.Sprintf("unit_%d", u.ID))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range ledger {
		row := []string{
			strconv.Itoa(s.Tick),
			strconv.Itoa(s.TickLimit),
			fmtFloat(s.TickSum),
			fmtFloat(s.RunningTotal),
		}
		for _, u := range s.Sample {
			row = append(row, fmtFloat(u.Earnings))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
