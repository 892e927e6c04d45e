package simulation

import (
	"time"

	"tier-sim/internal/model"
)

const (
	DefaultTickLimit    = 10
	DefaultTickInterval = time.Second
	DefaultSampleSize   = 8
	DefaultJitterMin    = 0.95
	DefaultJitterMax    = 1.05

	// MaxSampleSize caps how many units a snapshot displays.
	MaxSampleSize = 8

	// MinutesPerMonth approximates a month as 30 days.
	MinutesPerMonth = 30 * 24 * 60
)

// Params holds the run constants. TickInterval only paces output; it does not
// correspond to simulated time.
type Params struct {
	TickLimit       int
	TickInterval    time.Duration
	SampleSize      int
	JitterMin       float64
	JitterMax       float64
	MinutesPerMonth float64
}

func DefaultParams() Params {
	return Params{
		TickLimit:       DefaultTickLimit,
		TickInterval:    DefaultTickInterval,
		SampleSize:      DefaultSampleSize,
		JitterMin:       DefaultJitterMin,
		JitterMax:       DefaultJitterMax,
		MinutesPerMonth: MinutesPerMonth,
	}
}

func (p Params) Validate() error {
	switch {
	case p.TickLimit <= 0:
		return &model.ConfigurationError{Field: "tick_limit", Reason: "must be > 0"}
	case p.TickInterval < 0:
		return &model.ConfigurationError{Field: "tick_interval", Reason: "must be >= 0"}
	case p.SampleSize < 0 || p.SampleSize > MaxSampleSize:
		return &model.ConfigurationError{Field: "sample_size", Reason: "must be in [0, 8]"}
	case p.JitterMin < 0:
		return &model.ConfigurationError{Field: "jitter_min", Reason: "must be >= 0"}
	case p.JitterMax < p.JitterMin:
		return &model.ConfigurationError{Field: "jitter_max", Reason: "must be >= jitter_min"}
	case p.MinutesPerMonth <= 0:
		return &model.ConfigurationError{Field: "minutes_per_month", Reason: "must be > 0"}
	}
	return nil
}

// BasePerTick is the unjittered per-unit increment for one tick.
func (p Params) BasePerTick(monthlyPayout float64) float64 {
	return monthlyPayout / p.MinutesPerMonth
}
