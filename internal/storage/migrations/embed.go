// Package migrations embeds the goose migrations for the sqlite-backed
// store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
