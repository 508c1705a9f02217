// Package migrations embeds the local client database migrations.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
