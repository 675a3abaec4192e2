// Package migrations embeds the SQL schema for the availability service.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
