package healthcheck

import (
	"context"
	"flag"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

func TestParseConfig_Defaults(t *testing.T) {
	fs := flag.NewFlagSet("healthcheck", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != "localhost:8081" {
		t.Fatalf("addr = %q, want %q", cfg.Addr, "localhost:8081")
	}
	if cfg.Timeout != 2*time.Second {
		t.Fatalf("timeout = %v, want 2s", cfg.Timeout)
	}
}

func startHealthServer(t *testing.T, status grpc_health_v1.HealthCheckResponse_ServingStatus) (string, func()) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus("", status)
	go func() {
		_ = server.Serve(listener)
	}()
	return listener.Addr().String(), func() {
		server.Stop()
	}
}

func TestRunSucceedsWhenServing(t *testing.T) {
	addr, stop := startHealthServer(t, grpc_health_v1.HealthCheckResponse_SERVING)
	defer stop()

	err := Run(context.Background(), Config{Addr: addr, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunFailsWhenNotServing(t *testing.T) {
	addr, stop := startHealthServer(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	defer stop()

	err := Run(context.Background(), Config{Addr: addr, Timeout: time.Second})
	if err == nil {
		t.Fatal("expected error for NOT_SERVING endpoint")
	}
}
