package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"tier-sim/internal/config"
	"tier-sim/internal/projection"
	"tier-sim/internal/simulation"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to read environment", "error", err)
		os.Exit(1)
	}
	logger := env.Log.New(os.Stderr)
	slog.SetDefault(logger)

	switch os.Args[1] {
	case "tiers":
		err = cmdTiers(env, os.Args[2:])
	case "simulate":
		err = cmdSimulate(env, logger, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli tiers [--config examples/config.yaml]")
	fmt.Println("  cli simulate --tier 1 [--config examples/config.yaml] [--ticks 10] [--interval 1s] [--sample 8] [--out results/ledger.csv]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - tiers prints the projection table only")
	fmt.Println("  - simulate prints the table, one line per tick, then a summary against the projection")
	fmt.Println("  - TIERSIM_CONFIG, TIERSIM_TICK_LIMIT and TIERSIM_TICK_INTERVAL apply when flags are not given")
}

func loadConfig(env config.Env, path string) (*config.Config, error) {
	if path == "" {
		path = env.ConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	env.Apply(cfg)
	return cfg, nil
}

func cmdTiers(env config.Env, args []string) error {
	fs := flag.NewFlagSet("tiers", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config (default: built-in tiers)")
	_ = fs.Parse(args)

	cfg, err := loadConfig(env, *cfgPath)
	if err != nil {
		return err
	}
	projs, err := cfg.Projections()
	if err != nil {
		return err
	}
	return projection.WriteTable(os.Stdout, projs)
}

func cmdSimulate(env config.Env, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config (default: built-in tiers)")
	tier := fs.Int("tier", 1, "Tier to simulate")
	ticks := fs.Int("ticks", 0, "Override tick limit (0=config)")
	interval := fs.Duration("interval", -1, "Override pacing between ticks, e.g. 200ms (negative=config)")
	sampleSize := fs.Int("sample", -1, "Override number of bots shown per tick, at most 8 (negative=config)")
	outPath := fs.String("out", "", "Optional path to write the tick ledger CSV")
	_ = fs.Parse(args)

	cfg, err := loadConfig(env, *cfgPath)
	if err != nil {
		return err
	}
	projs, err := cfg.Projections()
	if err != nil {
		return err
	}
	proj, ok := projection.Find(projs, *tier)
	if !ok {
		return fmt.Errorf("unknown tier %d", *tier)
	}

	params := cfg.SimulationParams()
	if *ticks > 0 {
		params.TickLimit = *ticks
	}
	if *interval >= 0 {
		params.TickInterval = *interval
	}
	if *sampleSize >= 0 {
		params.SampleSize = *sampleSize
	}

	sim, err := simulation.New(params, simulation.NewSource(),
		simulation.WithLogger(logger),
		simulation.WithObserver(simulation.TextObserver(os.Stdout)),
	)
	if err != nil {
		return err
	}

	if err := projection.WriteTable(os.Stdout, projs); err != nil {
		return err
	}
	fmt.Printf("\nSimulating tier %d: %s bots, %d ticks, %s between ticks\n\n",
		proj.Tier.ID, projection.FormatCount(proj.Tier.Bots), params.TickLimit, params.TickInterval)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res, err := sim.Run(ctx, proj)
	if err != nil {
		return err
	}

	if *outPath != "" {
		// ensure output dir exists
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			return err
		}
		if err := simulation.WriteLedgerCSV(*outPath, res.Ledger); err != nil {
			return err
		}
		fmt.Printf("\nWrote %d rows to %s\n", len(res.Ledger), *outPath)
	}
	logger.Debug("run finished", "elapsed", res.Elapsed.Round(time.Millisecond))
	return nil
}
