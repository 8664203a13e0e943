// Package migrations embeds the schema so the server needs no files on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
