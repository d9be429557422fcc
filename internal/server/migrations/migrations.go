// Package migrations embeds the goose SQL migrations that define the
// messagely schema. They are applied at startup by the repository manager.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
