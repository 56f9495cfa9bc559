package calc

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfig_ParsesDefaultsAndFlags(t *testing.T) {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	t.Setenv("RECKON_SPACE_CALC_HTTP_PORT", "9090")
	t.Setenv("RECKON_SPACE_SESSION_HMAC_KEY", "abcd")

	cfg, err := ParseConfig(fs, []string{"-db-path", "tmp/history.db", "-session-ttl", "1h"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPPort != 9090 {
		t.Fatalf("http port = %d, want 9090", cfg.HTTPPort)
	}
	if cfg.SessionKey != "abcd" {
		t.Fatalf("session key = %q, want %q", cfg.SessionKey, "abcd")
	}
	if cfg.DBPath != "tmp/history.db" {
		t.Fatalf("db path = %q, want %q", cfg.DBPath, "tmp/history.db")
	}
	if cfg.SessionTTL != time.Hour {
		t.Fatalf("session ttl = %v, want 1h", cfg.SessionTTL)
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Fatalf("http port = %d, want 8080", cfg.HTTPPort)
	}
	if cfg.HealthPort != 8081 {
		t.Fatalf("health port = %d, want 8081", cfg.HealthPort)
	}
	if cfg.DBPath != "data/history.db" {
		t.Fatalf("db path = %q, want %q", cfg.DBPath, "data/history.db")
	}
	if cfg.TokenTTL != 720*time.Hour {
		t.Fatalf("token ttl = %v, want 720h", cfg.TokenTTL)
	}
	if cfg.SweepInterval != 10*time.Minute {
		t.Fatalf("sweep interval = %v, want 10m", cfg.SweepInterval)
	}
}
