package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/reckon.space/internal/history"
	"github.com/louisbranch/reckon.space/internal/history/sqlite/migrations"
	sqlitemigrate "github.com/louisbranch/reckon.space/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed calculation history persistence.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a history SQLite store and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// AppendEntry persists one completed calculation.
func (s *Store) AppendEntry(ctx context.Context, entry history.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	entry.ID = strings.TrimSpace(entry.ID)
	entry.SessionID = strings.TrimSpace(entry.SessionID)
	entry.Expression = strings.TrimSpace(entry.Expression)
	if entry.ID == "" {
		return fmt.Errorf("entry id is required")
	}
	if entry.SessionID == "" {
		return fmt.Errorf("session id is required")
	}
	if entry.Expression == "" {
		return fmt.Errorf("expression is required")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO history_entries (
	id,
	session_id,
	expression,
	result,
	created_at
) VALUES (?, ?, ?, ?, ?)
`,
		entry.ID,
		entry.SessionID,
		entry.Expression,
		entry.Result,
		entry.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	return nil
}

// ListEntries lists newest-first history entries for one session.
func (s *Store) ListEntries(ctx context.Context, sessionID string, limit int) ([]history.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT
	id,
	session_id,
	expression,
	result,
	created_at
FROM history_entries
WHERE session_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?
`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := make([]history.Entry, 0, limit)
	for rows.Next() {
		var entry history.Entry
		var createdAt int64
		if err := rows.Scan(
			&entry.ID,
			&entry.SessionID,
			&entry.Expression,
			&entry.Result,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entry.CreatedAt = time.UnixMilli(createdAt).UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// ClearEntries removes all history entries for one session.
func (s *Store) ClearEntries(ctx context.Context, sessionID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return 0, fmt.Errorf("session id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM history_entries WHERE session_id = ?`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("clear entries: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count cleared entries: %w", err)
	}
	return removed, nil
}

var _ history.Store = (*Store)(nil)
