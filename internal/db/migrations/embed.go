package migrations

import "embed"

// FS contains embedded PostgreSQL migrations for spawner definitions.
//
//go:embed *.sql
var FS embed.FS
