package simulation

import (
	"time"

	"github.com/shopspring/decimal"

	"tier-sim/internal/model"
)

// State is the lifecycle position of a single run.
type State string

const (
	StateIdle        State = "IDLE"
	StateInitialized State = "INITIALIZED"
	StateRunning     State = "RUNNING"
	StateCompleted   State = "COMPLETED"
	StateFailed      State = "FAILED"
)

// TickSnapshot is what a run reports after each tick.
// Sample holds copies of the first units in ID order, never more than
// MaxSampleSize of them.
type TickSnapshot struct {
	Tick      int
	TickLimit int

	Sample []model.SimulationUnit

	TickSum      float64 // increments applied this tick, all units
	RunningTotal float64 // cumulative earnings, all units
}

// Summary compares the accrued total with the tier's static projection.
type Summary struct {
	TierID int
	Bots   int
	Ticks  int

	RunningTotal  float64
	AveragePerBot float64

	MonthlyPayout  decimal.Decimal
	TotalPayout    decimal.Decimal
	Profit         decimal.Decimal
	DurationMonths int

	// MonthShare is RunningTotal as a fraction of MonthlyPayout (0 if the
	// payout is zero).
	MonthShare float64
}

type Result struct {
	State   State
	Ledger  []TickSnapshot
	Units   []model.SimulationUnit
	Summary Summary
	Elapsed time.Duration
}
