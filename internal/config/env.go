package config

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const EnvPrefix = "TIERSIM_"

// Env holds process settings read from TIERSIM_* environment variables.
// Simulation overrides are pointers so that "unset" and zero differ.
type Env struct {
	// ConfigPath is the YAML config used when --config is not given.
	ConfigPath string `env:"CONFIG"`

	// Mode is "production" to put gin into release mode.
	Mode string `env:"ENV" envDefault:"development"`

	Log  Logger `envPrefix:"LOG_"`
	HTTP HTTP   `envPrefix:"HTTP_"`

	TickLimit    *int           `env:"TICK_LIMIT"`
	TickInterval *time.Duration `env:"TICK_INTERVAL"`
}

// Logger defines the structured logger. Level is one of debug, info, warn,
// error; Format is "text" (default) or "json".
type Logger struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

type HTTP struct {
	Port        uint16   `env:"PORT" envDefault:"8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"10s"`
	MaxRunDuration    time.Duration `env:"MAX_RUN_DURATION" envDefault:"5m"`
}

func LoadEnv() (Env, error) {
	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Prefix: EnvPrefix}); err != nil {
		return e, err
	}
	return e, nil
}

func (e Env) Production() bool {
	return strings.EqualFold(e.Mode, "production")
}

// Apply overlays environment overrides onto c.
func (e Env) Apply(c *Config) {
	if e.TickLimit != nil {
		c.Simulation.TickLimit = *e.TickLimit
	}
	if e.TickInterval != nil {
		c.Simulation.TickInterval = *e.TickInterval
	}
}

// SlogLevel converts the textual level. Unknown levels default to info.
func (c Logger) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Logger) SlogFormat() string {
	if strings.ToLower(c.Format) == "json" {
		return "json"
	}
	return "text"
}

func (c Logger) New(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.SlogFormat() == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
