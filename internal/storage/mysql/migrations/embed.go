// Package migrations embeds the mailbox directory schema for goose.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
