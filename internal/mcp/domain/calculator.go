// Package domain defines the MCP tools exposed by the calculator.
package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/reckon.space/internal/engine"
	"github.com/louisbranch/reckon.space/internal/history"
	"github.com/louisbranch/reckon.space/internal/keymap"
	"github.com/louisbranch/reckon.space/internal/session"
)

const storeTimeout = 5 * time.Second

// PressInput represents the MCP tool input for key presses.
type PressInput struct {
	SessionID string   `json:"session_id,omitempty" jsonschema:"calculator session identifier, omit to start a new session"`
	Keys      []string `json:"keys" jsonschema:"keys to press in order, e.g. 5 + 3 ="`
}

// PressResult represents the MCP tool output for key presses.
type PressResult struct {
	SessionID string `json:"session_id" jsonschema:"calculator session identifier"`
	Display   string `json:"display" jsonschema:"display register after the presses"`
	Errored   bool   `json:"errored" jsonschema:"whether the calculator is in the error state"`
}

// EvaluateInput represents the MCP tool input for one binary operation.
type EvaluateInput struct {
	A  float64 `json:"a" jsonschema:"left operand"`
	Op string  `json:"op" jsonschema:"operator: +, -, × or *, ÷ or /"`
	B  float64 `json:"b" jsonschema:"right operand"`
}

// EvaluateResult represents the MCP tool output for one binary operation.
type EvaluateResult struct {
	Result  float64 `json:"result" jsonschema:"numeric result"`
	Display string  `json:"display" jsonschema:"result formatted for the display"`
}

// HistoryListInput represents the MCP tool input for history listings.
type HistoryListInput struct {
	SessionID string `json:"session_id" jsonschema:"calculator session identifier"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum entries to return, newest first"`
}

// HistoryListEntry is one persisted calculation.
type HistoryListEntry struct {
	ID         string  `json:"id"`
	Expression string  `json:"expression"`
	Result     float64 `json:"result"`
	CreatedAt  string  `json:"created_at"`
}

// HistoryListResult represents the MCP tool output for history listings.
type HistoryListResult struct {
	Entries []HistoryListEntry `json:"entries" jsonschema:"persisted calculations, newest first"`
}

// HistoryClearInput represents the MCP tool input for clearing history.
type HistoryClearInput struct {
	SessionID string `json:"session_id" jsonschema:"calculator session identifier"`
}

// HistoryClearResult represents the MCP tool output for clearing history.
type HistoryClearResult struct {
	Removed int64 `json:"removed" jsonschema:"number of entries removed"`
}

// PressTool defines the MCP tool schema for key presses.
func PressTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "calc_press",
		Description: "Presses calculator keys in order and returns the display",
	}
}

// EvaluateTool defines the MCP tool schema for one-shot evaluation.
func EvaluateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "calc_evaluate",
		Description: "Evaluates a single binary operation without session state",
	}
}

// HistoryListTool defines the MCP tool schema for history listings.
func HistoryListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "history_list",
		Description: "Lists persisted calculations for a session, newest first",
	}
}

// HistoryClearTool defines the MCP tool schema for clearing history.
func HistoryClearTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "history_clear",
		Description: "Removes all persisted calculations for a session",
	}
}

// PressHandler applies key presses against shared session state and records
// completed calculations.
func PressHandler(sessions *session.Manager, store history.Store) mcp.ToolHandlerFor[PressInput, PressResult] {
	recorder := history.NewRecorder(store)
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PressInput) (*mcp.CallToolResult, PressResult, error) {
		if len(input.Keys) == 0 {
			return nil, PressResult{}, fmt.Errorf("keys are required")
		}
		events, err := keymap.ResolveAll(input.Keys)
		if err != nil {
			return nil, PressResult{}, err
		}

		sessionID := strings.TrimSpace(input.SessionID)
		if sessionID == "" {
			sessionID, err = sessions.Create()
			if err != nil {
				return nil, PressResult{}, fmt.Errorf("create session: %w", err)
			}
		}

		runCtx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		var state engine.State
		for _, ev := range events {
			var calc *engine.Calculation
			state, calc = sessions.Apply(sessionID, ev)
			if calc == nil {
				continue
			}
			if err := recorder.Record(runCtx, sessionID, *calc); err != nil {
				return nil, PressResult{}, fmt.Errorf("record calculation: %w", err)
			}
		}

		return nil, PressResult{
			SessionID: sessionID,
			Display:   state.Display,
			Errored:   state.Errored(),
		}, nil
	}
}

// EvaluateHandler computes a single binary operation.
func EvaluateHandler() mcp.ToolHandlerFor[EvaluateInput, EvaluateResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input EvaluateInput) (*mcp.CallToolResult, EvaluateResult, error) {
		ev, err := keymap.Resolve(input.Op)
		if err != nil || ev.Op == engine.OpNone {
			return nil, EvaluateResult{}, fmt.Errorf("operator %q is not supported", input.Op)
		}
		result, err := engine.Evaluate(input.A, ev.Op, input.B)
		if err != nil {
			return nil, EvaluateResult{}, err
		}
		return nil, EvaluateResult{
			Result:  result,
			Display: engine.Format(result),
		}, nil
	}
}

// HistoryListHandler lists persisted calculations for a session.
func HistoryListHandler(store history.Store) mcp.ToolHandlerFor[HistoryListInput, HistoryListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input HistoryListInput) (*mcp.CallToolResult, HistoryListResult, error) {
		if store == nil {
			return nil, HistoryListResult{}, fmt.Errorf("history store is not configured")
		}
		sessionID := strings.TrimSpace(input.SessionID)
		if sessionID == "" {
			return nil, HistoryListResult{}, fmt.Errorf("session id is required")
		}
		limit := input.Limit
		if limit <= 0 {
			limit = 20
		}

		runCtx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		entries, err := store.ListEntries(runCtx, sessionID, limit)
		if err != nil {
			return nil, HistoryListResult{}, fmt.Errorf("list history: %w", err)
		}
		result := HistoryListResult{}
		for _, entry := range entries {
			result.Entries = append(result.Entries, HistoryListEntry{
				ID:         entry.ID,
				Expression: entry.Expression,
				Result:     entry.Result,
				CreatedAt:  entry.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		return nil, result, nil
	}
}

// HistoryClearHandler removes all persisted calculations for a session.
func HistoryClearHandler(store history.Store) mcp.ToolHandlerFor[HistoryClearInput, HistoryClearResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input HistoryClearInput) (*mcp.CallToolResult, HistoryClearResult, error) {
		if store == nil {
			return nil, HistoryClearResult{}, fmt.Errorf("history store is not configured")
		}
		sessionID := strings.TrimSpace(input.SessionID)
		if sessionID == "" {
			return nil, HistoryClearResult{}, fmt.Errorf("session id is required")
		}

		runCtx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		removed, err := store.ClearEntries(runCtx, sessionID)
		if err != nil {
			return nil, HistoryClearResult{}, fmt.Errorf("clear history: %w", err)
		}
		return nil, HistoryClearResult{Removed: removed}, nil
	}
}
