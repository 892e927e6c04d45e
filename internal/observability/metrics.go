// Package observability provides Prometheus metrics for simulation runs.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tier-sim/internal/simulation"
)

const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
)

// Metrics holds all Prometheus metrics for the application. Each instance
// owns its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal        *prometheus.CounterVec
	RunDuration      *prometheus.HistogramVec
	TicksTotal       *prometheus.CounterVec
	RunningTotal     *prometheus.GaugeVec
	ProjectionsTotal prometheus.Counter
}

func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "tier_sim"
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "runs_total",
			Help:      "Total number of simulation runs by tier and outcome",
		}, []string{"tier", "outcome"}),
		RunDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of simulation runs, including pacing",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60},
		}, []string{"tier"}),
		TicksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "ticks_total",
			Help:      "Total number of ticks executed",
		}, []string{"tier"}),
		RunningTotal: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "last_running_total",
			Help:      "Running total reported by the most recent tick",
		}, []string{"tier"}),
		ProjectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "tables_total",
			Help:      "Total number of projection tables served",
		}),
	}
}

// Observer returns a simulation observer that counts ticks for tier.
func (m *Metrics) Observer(tier int) simulation.Observer {
	label := strconv.Itoa(tier)
	return simulation.ObserverFuncs{
		Tick: func(s simulation.TickSnapshot) error {
			m.TicksTotal.WithLabelValues(label).Inc()
			m.RunningTotal.WithLabelValues(label).Set(s.RunningTotal)
			return nil
		},
	}
}

// RecordRun records the outcome of one run.
func (m *Metrics) RecordRun(tier int, err error, elapsed time.Duration) {
	label := strconv.Itoa(tier)
	outcome := OutcomeCompleted
	if err != nil {
		outcome = OutcomeFailed
	}
	m.RunsTotal.WithLabelValues(label, outcome).Inc()
	m.RunDuration.WithLabelValues(label).Observe(elapsed.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
