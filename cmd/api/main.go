package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"tier-sim/internal/api"
	"tier-sim/internal/api/handlers"
	"tier-sim/internal/config"
	"tier-sim/internal/observability"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to read environment", "error", err)
		os.Exit(1)
	}
	logger := env.Log.New(os.Stdout)
	slog.SetDefault(logger)

	cfg, err := config.Load(env.ConfigPath)
	if err != nil {
		logger.Error("failed to load config", "path", env.ConfigPath, "error", err)
		os.Exit(1)
	}
	env.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config after environment overrides", "error", err)
		os.Exit(1)
	}

	if env.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := api.NewRouter(api.Deps{
		Config:      cfg,
		Metrics:     observability.NewMetrics(""),
		Logger:      logger,
		CORSOrigins: env.HTTP.CORSOrigins,
		SimulationOptions: []handlers.SimulationOption{
			handlers.WithMaxRunDuration(env.HTTP.MaxRunDuration),
		},
	})
	if err != nil {
		logger.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", env.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: env.HTTP.ReadHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening",
			"port", env.HTTP.Port,
			"tiers", len(cfg.Tiers),
			"tick_limit", cfg.Simulation.TickLimit,
			"tick_interval", cfg.Simulation.TickInterval,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	logger.Info("server gracefully stopped")
}
