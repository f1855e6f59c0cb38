// Package migrations embeds the goose SQL migrations so binaries can apply
// them at startup without a migrations directory on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
