// Package migrations embeds the goose SQL migrations so the migrate binary
// ships without a migrations directory next to it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
