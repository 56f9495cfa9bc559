// Package service hosts the calculator MCP server.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/reckon.space/internal/history"
	historysqlite "github.com/louisbranch/reckon.space/internal/history/sqlite"
	"github.com/louisbranch/reckon.space/internal/mcp/domain"
	"github.com/louisbranch/reckon.space/internal/platform/branding"
	"github.com/louisbranch/reckon.space/internal/session"
)

const serverVersion = "0.1.0"

// Config configures the MCP server.
type Config struct {
	// DBPath locates the shared history SQLite database. Empty disables
	// persistence: presses still work, history tools report no store.
	DBPath string
}

// Server hosts the MCP server over a transport.
type Server struct {
	mcpServer *mcp.Server
	store     *historysqlite.Store
}

// New creates a configured MCP server with calculator tools registered.
func New(cfg Config) (*Server, error) {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    branding.AppName + " MCP",
		Version: serverVersion,
	}, nil)

	server := &Server{mcpServer: mcpServer}

	var store history.Store
	if path := strings.TrimSpace(cfg.DBPath); path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create storage dir: %w", err)
			}
		}
		sqliteStore, err := historysqlite.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open history sqlite store: %w", err)
		}
		server.store = sqliteStore
		store = sqliteStore
	}

	sessions := session.NewManager()
	mcp.AddTool(mcpServer, domain.PressTool(), domain.PressHandler(sessions, store))
	mcp.AddTool(mcpServer, domain.EvaluateTool(), domain.EvaluateHandler())
	mcp.AddTool(mcpServer, domain.HistoryListTool(), domain.HistoryListHandler(store))
	mcp.AddTool(mcpServer, domain.HistoryClearTool(), domain.HistoryClearHandler(store))

	return server, nil
}

// Close releases the history store, if any.
func (s *Server) Close() error {
	if s == nil || s.store == nil {
		return nil
	}
	return s.store.Close()
}

// Serve runs the MCP server over the provided transport until the context
// ends.
func (s *Server) Serve(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	closeErr := s.Close()
	if closeErr != nil {
		if err == nil {
			return fmt.Errorf("close history store: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close history store: %w", err, closeErr)
	}
	return err
}

// Run creates the server and serves it over stdio until the context ends.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	log.Printf("MCP server serving over stdio")
	return server.Serve(ctx, &mcp.StdioTransport{})
}
