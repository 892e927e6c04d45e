// Package api exposes the projection table and the tick simulator over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tier-sim/internal/api/handlers"
	"tier-sim/internal/api/middleware"
	"tier-sim/internal/config"
	"tier-sim/internal/observability"
)

type Deps struct {
	Config      *config.Config
	Metrics     *observability.Metrics
	Logger      *slog.Logger
	CORSOrigins []string

	// Optional; tests pass SimulationOption values such as handlers.WithSource.
	SimulationOptions []handlers.SimulationOption
}

// NewRouter wires middleware and routes. The config must already be valid.
func NewRouter(d Deps) (*gin.Engine, error) {
	projs, err := d.Config.Projections()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(middleware.CORS(d.CORSOrigins))
	router.Use(middleware.Logger(d.Logger))
	router.Use(middleware.ErrorHandler(d.Logger))

	tierHandler := handlers.NewTierHandler(projs, d.Config.Calculator().PerUnitCost(), d.Metrics)
	simHandler := handlers.NewSimulationHandler(projs, d.Config.SimulationParams(), d.Metrics, d.Logger, d.SimulationOptions...)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/tiers", tierHandler.ListTiers)
		v1.POST("/simulate", simHandler.RunSimulation)
		v1.POST("/simulate/stream", simHandler.StreamSimulation)
	}

	return router, nil
}
