package mcp

import (
	"flag"
	"testing"
)

func TestParseConfig_Defaults(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "data/history.db" {
		t.Fatalf("db path = %q, want %q", cfg.DBPath, "data/history.db")
	}
}

func TestParseConfig_FlagOverridesEnv(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	t.Setenv("RECKON_SPACE_MCP_DB_PATH", "env/history.db")

	cfg, err := ParseConfig(fs, []string{"-db-path", ""})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "" {
		t.Fatalf("db path = %q, want empty", cfg.DBPath)
	}
}
