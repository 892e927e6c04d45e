package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"tier-sim/internal/model"
	"tier-sim/internal/projection"
	"tier-sim/internal/simulation"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load the tier table from a separate YAML (e.g. examples/tiers.yaml).
	// Tiers listed inline override tiers_file entries with the same id.
	TiersFile string `yaml:"tiers_file"`

	PerUnitCost    float64          `yaml:"per_unit_cost"`
	DurationMonths int              `yaml:"duration_months"`
	Tiers          []TierConfig     `yaml:"tiers"`
	Simulation     SimulationConfig `yaml:"simulation"`
}

type TierConfig struct {
	ID            int     `yaml:"id"`
	Bots          int     `yaml:"bots"`
	LicensePrice  float64 `yaml:"license_price"`
	MonthlyPayout float64 `yaml:"monthly_payout"`
}

type SimulationConfig struct {
	TickLimit       int           `yaml:"tick_limit"`
	TickInterval    time.Duration `yaml:"tick_interval"`
	SampleSize      int           `yaml:"sample_size"`
	JitterMin       float64       `yaml:"jitter_min"`
	JitterMax       float64       `yaml:"jitter_max"`
	MinutesPerMonth float64       `yaml:"minutes_per_month"`
}

// Default is the built-in tier table.
func Default() *Config {
	p := simulation.DefaultParams()
	return &Config{
		PerUnitCost:    2010,
		DurationMonths: 24,
		Tiers: []TierConfig{
			{ID: 1, Bots: 1000, LicensePrice: 5_000_000, MonthlyPayout: 500_000},
			{ID: 2, Bots: 2500, LicensePrice: 11_000_000, MonthlyPayout: 1_150_000},
			{ID: 3, Bots: 5000, LicensePrice: 20_000_000, MonthlyPayout: 2_250_000},
			{ID: 4, Bots: 10000, LicensePrice: 38_000_000, MonthlyPayout: 4_400_000},
		},
		Simulation: SimulationConfig{
			TickLimit:       p.TickLimit,
			TickInterval:    p.TickInterval,
			SampleSize:      p.SampleSize,
			JitterMin:       p.JitterMin,
			JitterMax:       p.JitterMax,
			MinutesPerMonth: p.MinutesPerMonth,
		},
	}
}

// Load reads path (if non-empty), fills unset fields from Default and
// validates the result. An empty path yields the validated defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		var err error
		c, err = LoadUnchecked(path)
		if err != nil {
			return nil, err
		}
		c.applyDefaults()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not apply defaults or
// validate. Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.TiersFile != "" {
		tiersPath := c.TiersFile
		if !filepath.IsAbs(tiersPath) {
			// Prefer paths relative to the config file, fall back to cwd.
			cand := filepath.Join(filepath.Dir(path), tiersPath)
			if _, err := os.Stat(cand); err == nil {
				tiersPath = cand
			}
		}
		loaded, err := loadTiersFile(tiersPath)
		if err != nil {
			return nil, err
		}
		c.Tiers = MergeTiers(loaded, c.Tiers)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.PerUnitCost == 0 {
		c.PerUnitCost = d.PerUnitCost
	}
	if c.DurationMonths == 0 {
		c.DurationMonths = d.DurationMonths
	}
	if len(c.Tiers) == 0 {
		c.Tiers = d.Tiers
	}
	c.Simulation = MergeSimulation(d.Simulation, c.Simulation)
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.PerUnitCost <= 0 {
		return &model.ConfigurationError{Field: "per_unit_cost", Reason: "must be > 0"}
	}
	if _, err := c.TierDefinitions(); err != nil {
		return err
	}
	if err := c.SimulationParams().Validate(); err != nil {
		return fmt.Errorf("simulation config invalid: %w", err)
	}
	return nil
}

// TierDefinitions converts the tier table into validated model values, in
// file order. Every tier takes the shared duration.
func (c *Config) TierDefinitions() ([]model.TierDefinition, error) {
	if len(c.Tiers) == 0 {
		return nil, &model.ConfigurationError{Field: "tiers", Reason: "must not be empty"}
	}
	seen := make(map[int]bool, len(c.Tiers))
	out := make([]model.TierDefinition, 0, len(c.Tiers))
	for _, t := range c.Tiers {
		if seen[t.ID] {
			return nil, &model.ConfigurationError{Tier: t.ID, Field: "id", Reason: "is duplicated"}
		}
		seen[t.ID] = true

		def, err := model.NewTierDefinition(
			t.ID,
			t.Bots,
			decimal.NewFromFloat(t.LicensePrice),
			decimal.NewFromFloat(t.MonthlyPayout),
			c.DurationMonths,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, def)
	}
	return out, nil
}

func (c *Config) Calculator() *projection.Calculator {
	return projection.New(decimal.NewFromFloat(c.PerUnitCost))
}

// Projections validates the tier table and projects it.
func (c *Config) Projections() ([]model.TierProjection, error) {
	defs, err := c.TierDefinitions()
	if err != nil {
		return nil, err
	}
	return c.Calculator().ProjectAll(defs), nil
}

func (c *Config) SimulationParams() simulation.Params {
	s := c.Simulation
	return simulation.Params{
		TickLimit:       s.TickLimit,
		TickInterval:    s.TickInterval,
		SampleSize:      s.SampleSize,
		JitterMin:       s.JitterMin,
		JitterMax:       s.JitterMax,
		MinutesPerMonth: s.MinutesPerMonth,
	}
}

type tiersFileWrapper struct {
	Tiers []TierConfig `yaml:"tiers"`
}

func loadTiersFile(path string) ([]TierConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var w tiersFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Tiers, nil
}

// MergeTiers overlays override onto base by tier id. Non-zero fields win;
// ids not present in base are appended in override order.
func MergeTiers(base, override []TierConfig) []TierConfig {
	out := make([]TierConfig, len(base))
	copy(out, base)
	index := make(map[int]int, len(out))
	for i, t := range out {
		index[t.ID] = i
	}
	for _, o := range override {
		i, ok := index[o.ID]
		if !ok {
			index[o.ID] = len(out)
			out = append(out, o)
			continue
		}
		if o.Bots != 0 {
			out[i].Bots = o.Bots
		}
		if o.LicensePrice != 0 {
			out[i].LicensePrice = o.LicensePrice
		}
		if o.MonthlyPayout != 0 {
			out[i].MonthlyPayout = o.MonthlyPayout
		}
	}
	return out
}

// MergeSimulation overlays non-zero fields from override onto base.
func MergeSimulation(base, override SimulationConfig) SimulationConfig {
	out := base
	if override.TickLimit != 0 {
		out.TickLimit = override.TickLimit
	}
	// Note: a zero interval is meaningful (no pacing) but cannot be told apart
	// from "unset" here; use the CLI flag or TIERSIM_TICK_INTERVAL for that.
	if override.TickInterval != 0 {
		out.TickInterval = override.TickInterval
	}
	if override.SampleSize != 0 {
		out.SampleSize = override.SampleSize
	}
	if override.JitterMin != 0 {
		out.JitterMin = override.JitterMin
	}
	if override.JitterMax != 0 {
		out.JitterMax = override.JitterMax
	}
	if override.MinutesPerMonth != 0 {
		out.MinutesPerMonth = override.MinutesPerMonth
	}
	return out
}
