// Package migrations embeds the database schema migrations so the server
// binary can apply them without access to the source tree.
package migrations

import "embed"

// Files holds the goose SQL migrations in lexical order.
//
//go:embed *.sql
var Files embed.FS
