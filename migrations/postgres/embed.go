// Package migrations embeds SQL migration files.
package migrations

import "embed"

// FS contiene las migraciones PostgreSQL del authorization store.
// cmd/migrate las usa cuando no se le pasa un directorio en disco.
//
//go:embed *.sql
var FS embed.FS
