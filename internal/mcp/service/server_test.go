package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestNewConfiguresServer(t *testing.T) {
	server, err := New(Config{})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if server == nil || server.mcpServer == nil {
		t.Fatal("expected configured server")
	}
	if server.store != nil {
		t.Fatal("expected no store without a db path")
	}
}

func TestNewOpensStore(t *testing.T) {
	server, err := New(Config{DBPath: filepath.Join(t.TempDir(), "history.db")})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	defer server.Close()
	if server.store == nil {
		t.Fatal("expected sqlite store to be opened")
	}
}

func TestServeRejectsMisconfiguredServer(t *testing.T) {
	tests := []struct {
		name   string
		server *Server
	}{
		{name: "nil server", server: nil},
		{name: "missing mcp server", server: &Server{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.server.Serve(context.Background(), &mcp.StdioTransport{}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

// TestServeStopsOnContext ensures Serve exits when the context is cancelled.
func TestServeStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := New(Config{})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	clientCtx, clientCancel := context.WithTimeout(context.Background(), time.Second)
	defer clientCancel()
	clientSession, err := client.Connect(clientCtx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	defer clientSession.Close()

	cancel()

	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

// TestToolsRoundTrip drives the registered tools through a real client
// session over in-memory transports.
func TestToolsRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	server, err := New(Config{DBPath: filepath.Join(t.TempDir(), "history.db")})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	defer clientSession.Close()

	press, err := clientSession.CallTool(ctx, &mcp.CallToolParams{
		Name: "calc_press",
		Arguments: map[string]any{
			"keys": []string{"5", "+", "3", "="},
		},
	})
	if err != nil {
		t.Fatalf("call calc_press: %v", err)
	}
	if press.IsError {
		t.Fatalf("calc_press failed: %v", press.Content)
	}
	pressOut, ok := press.StructuredContent.(map[string]any)
	if !ok {
		t.Fatalf("calc_press structured content = %T", press.StructuredContent)
	}
	if pressOut["display"] != "8" {
		t.Fatalf("display = %v, want 8", pressOut["display"])
	}
	sessionID, _ := pressOut["session_id"].(string)
	if sessionID == "" {
		t.Fatal("expected a session id")
	}

	list, err := clientSession.CallTool(ctx, &mcp.CallToolParams{
		Name: "history_list",
		Arguments: map[string]any{
			"session_id": sessionID,
		},
	})
	if err != nil {
		t.Fatalf("call history_list: %v", err)
	}
	listOut, ok := list.StructuredContent.(map[string]any)
	if !ok {
		t.Fatalf("history_list structured content = %T", list.StructuredContent)
	}
	entries, _ := listOut["entries"].([]any)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}

	clear, err := clientSession.CallTool(ctx, &mcp.CallToolParams{
		Name: "history_clear",
		Arguments: map[string]any{
			"session_id": sessionID,
		},
	})
	if err != nil {
		t.Fatalf("call history_clear: %v", err)
	}
	clearOut, ok := clear.StructuredContent.(map[string]any)
	if !ok {
		t.Fatalf("history_clear structured content = %T", clear.StructuredContent)
	}
	if removed, _ := clearOut["removed"].(float64); removed != 1 {
		t.Fatalf("removed = %v, want 1", clearOut["removed"])
	}

	cancel()
	<-serveErr
}
