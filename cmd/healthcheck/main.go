// Package main probes the calculator health endpoint and exits non-zero on
// failure, for use as a container health check.
package main

import (
	"context"
	"flag"
	"os"

	healthcheckcmd "github.com/louisbranch/reckon.space/internal/cmd/healthcheck"
	"github.com/louisbranch/reckon.space/internal/platform/config"
)

func main() {
	cfg, err := healthcheckcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	if err := healthcheckcmd.Run(context.Background(), cfg); err != nil {
		config.Exitf("health check: %v", err)
	}
}
