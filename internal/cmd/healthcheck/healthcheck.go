// Package healthcheck probes the calculator health gRPC endpoint, for use
// as a container health check.
package healthcheck

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	entrypoint "github.com/louisbranch/reckon.space/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/reckon.space/internal/platform/grpc"
	"github.com/louisbranch/reckon.space/internal/platform/timeouts"
)

// Config holds healthcheck command configuration.
type Config struct {
	Addr    string        `env:"RECKON_SPACE_HEALTHCHECK_ADDR" envDefault:"localhost:8081"`
	Timeout time.Duration `env:"RECKON_SPACE_HEALTHCHECK_TIMEOUT" envDefault:"2s"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The health gRPC server address")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Probe timeout")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run dials the health endpoint and succeeds only when it reports SERVING.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Timeout <= 0 {
		cfg.Timeout = timeouts.GRPCDial
	}
	conn, err := platformgrpc.DialWithHealth(
		ctx,
		nil,
		cfg.Addr,
		cfg.Timeout,
		log.Printf,
		platformgrpc.DefaultClientDialOptions()...,
	)
	if err != nil {
		return fmt.Errorf("probe %s: %w", cfg.Addr, err)
	}
	return conn.Close()
}
