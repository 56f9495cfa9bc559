// Package seed parses seed command flags and replays calculator tapes.
package seed

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	historysqlite "github.com/louisbranch/reckon.space/internal/history/sqlite"
	entrypoint "github.com/louisbranch/reckon.space/internal/platform/cmd"
	"github.com/louisbranch/reckon.space/internal/seed"
)

// Config holds seed command configuration.
type Config struct {
	DBPath   string `env:"RECKON_SPACE_SEED_DB_PATH" envDefault:"data/history.db"`
	TapesDir string `env:"RECKON_SPACE_SEED_TAPES_DIR"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The history SQLite database path")
	fs.StringVar(&cfg.TapesDir, "tapes-dir", cfg.TapesDir, "Directory of *.lua tapes (empty runs the embedded defaults)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run replays the configured tapes into the history store.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(context.Context) error {
		if strings.TrimSpace(cfg.DBPath) == "" {
			return fmt.Errorf("db path is required")
		}
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create storage dir: %w", err)
			}
		}
		store, err := historysqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open history sqlite store: %w", err)
		}
		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				log.Printf("close history sqlite store: %v", closeErr)
			}
		}()

		runner := seed.NewRunner(store)
		var total int
		if strings.TrimSpace(cfg.TapesDir) != "" {
			total, err = runner.ReplayDir(ctx, cfg.TapesDir)
		} else {
			total, err = runner.ReplayDefaults(ctx)
		}
		if err != nil {
			return err
		}
		log.Printf("seeded %d calculations", total)
		return nil
	})
}
