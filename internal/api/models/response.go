package models

import (
	"github.com/shopspring/decimal"

	"tier-sim/internal/model"
	"tier-sim/internal/simulation"
)

// TiersResponse represents the projection table
type TiersResponse struct {
	PerUnitCost    decimal.Decimal  `json:"per_unit_cost"`
	DurationMonths int              `json:"duration_months"`
	Tiers          []TierProjection `json:"tiers"`
}

// TierProjection is one row of the projection table. Currency fields are
// decimal strings so no precision is lost.
type TierProjection struct {
	Tier          int             `json:"tier"`
	Bots          int             `json:"bots"`
	LicensePrice  decimal.Decimal `json:"license_price"`
	MonthlyPayout decimal.Decimal `json:"monthly_payout"`
	TotalPayout   decimal.Decimal `json:"total_payout"`
	Profit        decimal.Decimal `json:"profit"`
	TotalFunding  decimal.Decimal `json:"total_funding"`
}

// SimulateResponse represents the response from a simulation run
type SimulateResponse struct {
	ID      string            `json:"id"`
	Status  string            `json:"status"`
	Summary SimulationSummary `json:"summary"`
	Ledger  []TickSnapshot    `json:"ledger,omitempty"`
}

// SimulationSummary compares the accrued total with the static projection
type SimulationSummary struct {
	Tier           int             `json:"tier"`
	Bots           int             `json:"bots"`
	Ticks          int             `json:"ticks"`
	RunningTotal   float64         `json:"running_total"`
	AveragePerBot  float64         `json:"average_per_bot"`
	MonthlyPayout  decimal.Decimal `json:"monthly_payout"`
	TotalPayout    decimal.Decimal `json:"total_payout"`
	Profit         decimal.Decimal `json:"profit"`
	DurationMonths int             `json:"duration_months"`
	MonthShare     float64         `json:"month_share"`
	ElapsedMillis  int64           `json:"elapsed_ms,omitempty"`
}

// TickSnapshot is one per-tick report
type TickSnapshot struct {
	Tick         int          `json:"tick"`
	TickLimit    int          `json:"tick_limit"`
	Sample       []UnitSample `json:"sample"`
	TickSum      float64      `json:"tick_sum"`
	RunningTotal float64      `json:"running_total"`
}

// UnitSample is one displayed bot
type UnitSample struct {
	ID       int     `json:"id"`
	Earnings float64 `json:"earnings"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func NewTierProjection(p model.TierProjection) TierProjection {
	return TierProjection{
		Tier:          p.Tier.ID,
		Bots:          p.Tier.Bots,
		LicensePrice:  p.Tier.LicensePrice,
		MonthlyPayout: p.Tier.MonthlyPayout,
		TotalPayout:   p.TotalPayout,
		Profit:        p.Profit,
		TotalFunding:  p.TotalFunding,
	}
}

func NewTickSnapshot(s simulation.TickSnapshot) TickSnapshot {
	sample := make([]UnitSample, 0, len(s.Sample))
	for _, u := range s.Sample {
		sample = append(sample, UnitSample{ID: u.ID, Earnings: u.Earnings})
	}
	return TickSnapshot{
		Tick:         s.Tick,
		TickLimit:    s.TickLimit,
		Sample:       sample,
		TickSum:      s.TickSum,
		RunningTotal: s.RunningTotal,
	}
}

func NewSimulationSummary(s simulation.Summary) SimulationSummary {
	return SimulationSummary{
		Tier:           s.TierID,
		Bots:           s.Bots,
		Ticks:          s.Ticks,
		RunningTotal:   s.RunningTotal,
		AveragePerBot:  s.AveragePerBot,
		MonthlyPayout:  s.MonthlyPayout,
		TotalPayout:    s.TotalPayout,
		Profit:         s.Profit,
		DurationMonths: s.DurationMonths,
		MonthShare:     s.MonthShare,
	}
}
