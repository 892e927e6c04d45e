package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tier-sim/internal/api/models"
	"tier-sim/internal/model"
	"tier-sim/internal/observability"
	"tier-sim/internal/projection"
	"tier-sim/internal/simulation"
)

// DefaultMaxRunDuration bounds the pacing time a single request may ask for.
const DefaultMaxRunDuration = 5 * time.Minute

// SimulationHandler runs tick simulations on request. Every request gets its
// own Simulator and unit collection.
type SimulationHandler struct {
	projs     []model.TierProjection
	params    simulation.Params
	newSource func() simulation.Source
	maxRun    time.Duration
	metrics   *observability.Metrics
	logger    *slog.Logger
}

type SimulationOption func(*SimulationHandler)

// WithMaxRunDuration caps tick_limit x tick interval per request.
// Zero or less disables the cap.
func WithMaxRunDuration(d time.Duration) SimulationOption {
	return func(h *SimulationHandler) { h.maxRun = d }
}

// WithSource replaces the random source factory (tests use fixed sequences).
func WithSource(f func() simulation.Source) SimulationOption {
	return func(h *SimulationHandler) { h.newSource = f }
}

func NewSimulationHandler(projs []model.TierProjection, params simulation.Params, metrics *observability.Metrics, logger *slog.Logger, opts ...SimulationOption) *SimulationHandler {
	h := &SimulationHandler{
		projs:     projs,
		params:    params,
		newSource: simulation.NewSource,
		maxRun:    DefaultMaxRunDuration,
		metrics:   metrics,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RunSimulation handles POST /api/v1/simulate
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	req, proj, sim, ok := h.prepare(c, nil)
	if !ok {
		return
	}

	id := uuid.NewString()
	result, err := h.run(c, sim, proj)
	if err != nil {
		h.logger.Error("simulation failed", "id", id, "tier", proj.Tier.ID, "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "SIMULATION_ERROR",
				Message: err.Error(),
				Details: map[string]any{"id": id},
			},
		})
		return
	}

	resp := models.SimulateResponse{
		ID:      id,
		Status:  string(result.State),
		Summary: models.NewSimulationSummary(result.Summary),
	}
	resp.Summary.ElapsedMillis = result.Elapsed.Milliseconds()
	if req.IncludeLedger {
		resp.Ledger = make([]models.TickSnapshot, 0, len(result.Ledger))
		for _, s := range result.Ledger {
			resp.Ledger = append(resp.Ledger, models.NewTickSnapshot(s))
		}
	}
	c.JSON(http.StatusOK, resp)
}

// StreamSimulation handles POST /api/v1/simulate/stream. Each tick is sent as
// a "snapshot" server-sent event, followed by one "summary" event.
func (h *SimulationHandler) StreamSimulation(c *gin.Context) {
	id := uuid.NewString()
	stream := simulation.ObserverFuncs{
		Tick: func(s simulation.TickSnapshot) error {
			c.SSEvent("snapshot", models.NewTickSnapshot(s))
			c.Writer.Flush()
			return nil
		},
		Complete: func(s simulation.Summary) error {
			c.SSEvent("summary", models.SimulateResponse{
				ID:      id,
				Status:  string(simulation.StateCompleted),
				Summary: models.NewSimulationSummary(s),
			})
			c.Writer.Flush()
			return nil
		},
	}

	_, proj, sim, ok := h.prepare(c, stream)
	if !ok {
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Run-ID", id)
	c.Status(http.StatusOK)

	if _, err := h.run(c, sim, proj); err != nil {
		h.logger.Error("streamed simulation failed", "id", id, "tier", proj.Tier.ID, "error", err)
		c.SSEvent("error", models.ErrorDetail{Code: "SIMULATION_ERROR", Message: err.Error()})
		c.Writer.Flush()
	}
}

// prepare binds the request and builds a Simulator. On failure it writes the
// error response and returns ok=false.
func (h *SimulationHandler) prepare(c *gin.Context, extra simulation.Observer) (models.SimulateRequest, model.TierProjection, *simulation.Simulator, bool) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return req, model.TierProjection{}, nil, false
	}

	proj, found := projection.Find(h.projs, req.Tier)
	if !found {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "TIER_NOT_FOUND",
				Message: "unknown tier",
				Details: map[string]any{"tier": req.Tier},
			},
		})
		return req, model.TierProjection{}, nil, false
	}

	observers := simulation.MultiObserver{}
	if h.metrics != nil {
		observers = append(observers, h.metrics.Observer(proj.Tier.ID))
	}
	if extra != nil {
		observers = append(observers, extra)
	}

	params := h.paramsFor(req)
	if wait := params.TickInterval * time.Duration(params.TickLimit-1); h.maxRun > 0 && wait > h.maxRun {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: fmt.Sprintf("run would take %s, limit is %s", wait, h.maxRun),
			},
		})
		return req, model.TierProjection{}, nil, false
	}

	sim, err := simulation.New(params, h.newSource(),
		simulation.WithLogger(h.logger),
		simulation.WithObserver(observers),
	)
	if err != nil {
		status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
		var cfgErr *model.ConfigurationError
		if errors.As(err, &cfgErr) {
			status, code = http.StatusBadRequest, "INVALID_CONFIG"
		}
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    code,
				Message: err.Error(),
			},
		})
		return req, model.TierProjection{}, nil, false
	}
	return req, proj, sim, true
}

func (h *SimulationHandler) paramsFor(req models.SimulateRequest) simulation.Params {
	p := h.params
	if req.TickLimit > 0 {
		p.TickLimit = req.TickLimit
	}
	if req.TickIntervalMS != nil {
		p.TickInterval = time.Duration(*req.TickIntervalMS) * time.Millisecond
	}
	if req.SampleSize != nil {
		p.SampleSize = *req.SampleSize
	}
	return p
}

func (h *SimulationHandler) run(c *gin.Context, sim *simulation.Simulator, proj model.TierProjection) (*simulation.Result, error) {
	start := time.Now()
	result, err := sim.Run(c.Request.Context(), proj)
	if h.metrics != nil {
		h.metrics.RecordRun(proj.Tier.ID, err, time.Since(start))
	}
	return result, err
}
