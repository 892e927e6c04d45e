// Package simulation runs the bounded tick loop that accrues jittered
// earnings for every bot in a tier.
package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"tier-sim/internal/model"
)

type Simulator struct {
	params   Params
	src      Source
	logger   *slog.Logger
	observer Observer
	sleep    func(ctx context.Context, d time.Duration) error

	state atomic.Value // State of the latest run
}

type Option func(*Simulator)

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver registers the hook that receives every snapshot and the final
// summary. Use MultiObserver to fan out.
func WithObserver(o Observer) Option {
	return func(s *Simulator) { s.observer = o }
}

func New(params Params, src Source, opts ...Option) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = NewSource()
	}
	s := &Simulator{
		params: params,
		src:    src,
		logger: slog.Default(),
		sleep:  sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Simulator) Params() Params { return s.params }

// State reports where the latest run is in its lifecycle. It is StateIdle
// until Run is first called.
func (s *Simulator) State() State {
	if st, ok := s.state.Load().(State); ok {
		return st
	}
	return StateIdle
}

// Run executes exactly TickLimit ticks for the given tier unless ctx is
// cancelled while waiting between ticks. Any error aborts the run and no
// partial result is returned.
func (s *Simulator) Run(ctx context.Context, proj model.TierProjection) (*Result, error) {
	if err := proj.Tier.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	base := s.params.BasePerTick(proj.Tier.MonthlyPayout.InexactFloat64())
	if !isFinite(base) || base < 0 {
		return nil, &model.ArithmeticError{Reason: fmt.Sprintf("base rate %v is not a finite non-negative number", base)}
	}

	units := model.NewUnits(proj.Tier.Bots)
	s.state.Store(StateInitialized)

	s.logger.Info("simulation started",
		"tier", proj.Tier.ID,
		"bots", proj.Tier.Bots,
		"ticks", s.params.TickLimit,
		"base_per_tick", base,
		"state", StateInitialized,
	)

	ledger := make([]TickSnapshot, 0, s.params.TickLimit)
	runningTotal := 0.0

	s.state.Store(StateRunning)
	s.logger.Debug("tick loop started", "tier", proj.Tier.ID, "state", StateRunning)
	for tick := 1; tick <= s.params.TickLimit; tick++ {
		tickSum, err := s.accrue(tick, base, units)
		if err != nil {
			return nil, s.fail(proj, err)
		}

		runningTotal = 0
		for _, u := range units {
			runningTotal += u.Earnings
		}
		if !isFinite(runningTotal) {
			return nil, s.fail(proj, &model.ArithmeticError{Tick: tick, Reason: "running total is not finite"})
		}

		snap := TickSnapshot{
			Tick:         tick,
			TickLimit:    s.params.TickLimit,
			Sample:       sample(units, s.params.SampleSize),
			TickSum:      tickSum,
			RunningTotal: runningTotal,
		}
		ledger = append(ledger, snap)
		s.logger.Debug("tick", "tier", proj.Tier.ID, "tick", tick, "tick_sum", tickSum, "running_total", runningTotal)

		if s.observer != nil {
			if err := s.observer.OnTick(snap); err != nil {
				return nil, s.fail(proj, fmt.Errorf("tick %d report: %w", tick, err))
			}
		}

		if tick < s.params.TickLimit {
			if err := s.sleep(ctx, s.params.TickInterval); err != nil {
				return nil, s.fail(proj, fmt.Errorf("tick %d wait: %w", tick, err))
			}
		}
	}

	summary := summarize(proj, s.params.TickLimit, runningTotal)
	if s.observer != nil {
		if err := s.observer.OnComplete(summary); err != nil {
			return nil, s.fail(proj, fmt.Errorf("summary report: %w", err))
		}
	}

	elapsed := time.Since(start)
	s.state.Store(StateCompleted)
	s.logger.Info("simulation completed",
		"tier", proj.Tier.ID,
		"running_total", runningTotal,
		"elapsed", elapsed,
		"state", StateCompleted,
	)

	return &Result{
		State:   StateCompleted,
		Ledger:  ledger,
		Units:   units,
		Summary: summary,
		Elapsed: elapsed,
	}, nil
}

// accrue applies one jittered increment to every unit and returns their sum.
func (s *Simulator) accrue(tick int, base float64, units []model.SimulationUnit) (float64, error) {
	span := s.params.JitterMax - s.params.JitterMin
	sum := 0.0
	for i := range units {
		u := s.src.Float64()
		if !(u >= 0 && u <= 1) {
			return 0, &model.ArithmeticError{Tick: tick, UnitID: units[i].ID, Reason: fmt.Sprintf("random draw %v outside [0, 1]", u)}
		}
		inc := base * (s.params.JitterMin + span*u)
		if !isFinite(inc) || inc < 0 {
			return 0, &model.ArithmeticError{Tick: tick, UnitID: units[i].ID, Reason: fmt.Sprintf("increment %v is not a finite non-negative number", inc)}
		}
		units[i].Earnings += inc
		sum += inc
	}
	if !isFinite(sum) {
		return 0, &model.ArithmeticError{Tick: tick, Reason: "tick sum is not finite"}
	}
	return sum, nil
}

func (s *Simulator) fail(proj model.TierProjection, err error) error {
	s.state.Store(StateFailed)
	s.logger.Error("simulation aborted", "tier", proj.Tier.ID, "state", StateFailed, "error", err)
	return err
}

func sample(units []model.SimulationUnit, n int) []model.SimulationUnit {
	if n > len(units) {
		n = len(units)
	}
	out := make([]model.SimulationUnit, n)
	copy(out, units[:n])
	return out
}

func summarize(proj model.TierProjection, ticks int, runningTotal float64) Summary {
	sum := Summary{
		TierID:         proj.Tier.ID,
		Bots:           proj.Tier.Bots,
		Ticks:          ticks,
		RunningTotal:   runningTotal,
		AveragePerBot:  runningTotal / float64(proj.Tier.Bots),
		MonthlyPayout:  proj.Tier.MonthlyPayout,
		TotalPayout:    proj.TotalPayout,
		Profit:         proj.Profit,
		DurationMonths: proj.Tier.DurationMonths,
	}
	if monthly := proj.Tier.MonthlyPayout.InexactFloat64(); monthly > 0 {
		sum.MonthShare = runningTotal / monthly
	}
	return sum
}

// sleep waits d or until ctx is done. A zero interval still honours an
// already-cancelled context.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
