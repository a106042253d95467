// Package migrations embeds the SQL migration files applied at startup.
package migrations

import "embed"

// Version is the schema version Migrate brings the database to.
const Version = 1

//go:embed *.sql
var FS embed.FS
