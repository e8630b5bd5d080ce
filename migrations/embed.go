package migrations

import "embed"

// Files holds the embedded schema migrations, applied in name order.
//
//go:embed *.sql
var Files embed.FS
