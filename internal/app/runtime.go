// Package app wires the calculator runtime: storage, sessions, the web
// surface, and the health server.
package app

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	historysqlite "github.com/louisbranch/reckon.space/internal/history/sqlite"
	"github.com/louisbranch/reckon.space/internal/session"
	"github.com/louisbranch/reckon.space/internal/token"
	"github.com/louisbranch/reckon.space/internal/web"
)

// RuntimeConfig controls calculator startup and dependencies.
type RuntimeConfig struct {
	HTTPPort      int
	HealthPort    int
	DBPath        string
	SessionKey    string
	TokenTTL      time.Duration
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

const (
	defaultHTTPPort      = 8080
	defaultHealthPort    = 8081
	defaultDBPath        = "data/history.db"
	defaultTokenTTL      = 30 * 24 * time.Hour
	defaultSessionTTL    = 24 * time.Hour
	defaultSweepInterval = 10 * time.Minute
)

// Run starts the calculator runtime and blocks until the context ends.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(cfg.SessionKey) == "" {
		return fmt.Errorf("session key is required")
	}
	if cfg.HTTPPort <= 0 {
		cfg.HTTPPort = defaultHTTPPort
	}
	if cfg.HealthPort <= 0 {
		cfg.HealthPort = defaultHealthPort
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	signer, err := token.NewSigner(cfg.SessionKey, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("configure session signer: %w", err)
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

	sessions := session.NewManager()
	handler := web.NewHandler(sessions, store, signer)
	webServer, err := web.NewServer(fmt.Sprintf(":%d", cfg.HTTPPort), handler)
	if err != nil {
		return fmt.Errorf("configure web server: %w", err)
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.HealthPort))
	if err != nil {
		return fmt.Errorf("listen on health port %d: %w", cfg.HealthPort, err)
	}
	defer listener.Close()

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("calc.runtime", grpc_health_v1.HealthCheckResponse_SERVING)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()
	defer func() {
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		<-serveErr
	}()

	go sweepSessions(ctx, sessions, cfg.SessionTTL, cfg.SweepInterval)

	log.Printf("health server listening at %v", listener.Addr())
	return webServer.ListenAndServe(ctx)
}

// sweepSessions drops idle sessions on a fixed cadence until the context ends.
func sweepSessions(ctx context.Context, sessions *session.Manager, maxIdle, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := sessions.Sweep(maxIdle); removed > 0 {
				log.Printf("swept %d idle sessions", removed)
			}
		}
	}
}
