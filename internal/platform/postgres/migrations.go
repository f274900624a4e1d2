package postgres

import "embed"

// MigrationsFS carries the goose SQL migrations so binaries can apply them
// without a migrations directory on disk.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// MigrationsDir is the path of the migrations inside MigrationsFS.
const MigrationsDir = "migrations"
