// Package calc parses calculator command flags and launches the runtime.
package calc

import (
	"context"
	"flag"
	"time"

	"github.com/louisbranch/reckon.space/internal/app"
	entrypoint "github.com/louisbranch/reckon.space/internal/platform/cmd"
)

// Config holds calculator command configuration.
type Config struct {
	HTTPPort      int           `env:"RECKON_SPACE_CALC_HTTP_PORT" envDefault:"8080"`
	HealthPort    int           `env:"RECKON_SPACE_CALC_HEALTH_PORT" envDefault:"8081"`
	DBPath        string        `env:"RECKON_SPACE_CALC_DB_PATH" envDefault:"data/history.db"`
	SessionKey    string        `env:"RECKON_SPACE_SESSION_HMAC_KEY"`
	TokenTTL      time.Duration `env:"RECKON_SPACE_CALC_TOKEN_TTL" envDefault:"720h"`
	SessionTTL    time.Duration `env:"RECKON_SPACE_CALC_SESSION_TTL" envDefault:"24h"`
	SweepInterval time.Duration `env:"RECKON_SPACE_CALC_SWEEP_INTERVAL" envDefault:"10m"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.HTTPPort, "http-port", cfg.HTTPPort, "The calculator HTTP server port")
	fs.IntVar(&cfg.HealthPort, "health-port", cfg.HealthPort, "The calculator health gRPC server port")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The history SQLite database path")
	fs.StringVar(&cfg.SessionKey, "session-key", cfg.SessionKey, "Hex-encoded HMAC key for session tokens")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "Session token lifetime")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Idle session lifetime before sweeping")
	fs.DurationVar(&cfg.SweepInterval, "sweep-interval", cfg.SweepInterval, "Idle session sweep cadence")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the calculator runtime.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCalc, func(context.Context) error {
		return app.Run(ctx, app.RuntimeConfig{
			HTTPPort:      cfg.HTTPPort,
			HealthPort:    cfg.HealthPort,
			DBPath:        cfg.DBPath,
			SessionKey:    cfg.SessionKey,
			TokenTTL:      cfg.TokenTTL,
			SessionTTL:    cfg.SessionTTL,
			SweepInterval: cfg.SweepInterval,
		})
	})
}
