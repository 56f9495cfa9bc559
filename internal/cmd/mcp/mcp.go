// Package mcp parses MCP command flags and launches the stdio server.
package mcp

import (
	"context"
	"flag"

	mcpservice "github.com/louisbranch/reckon.space/internal/mcp/service"
	entrypoint "github.com/louisbranch/reckon.space/internal/platform/cmd"
)

// Config holds MCP command configuration.
type Config struct {
	DBPath string `env:"RECKON_SPACE_MCP_DB_PATH" envDefault:"data/history.db"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The history SQLite database path (empty disables persistence)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP server over stdio.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(context.Context) error {
		return mcpservice.Run(ctx, mcpservice.Config{DBPath: cfg.DBPath})
	})
}
