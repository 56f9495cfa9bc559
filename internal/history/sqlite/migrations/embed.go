package migrations

import "embed"

// FS contains embedded SQLite migrations for history storage.
//
//go:embed *.sql
var FS embed.FS
