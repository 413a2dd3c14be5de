package repomanager

import (
	"context"
	"database/sql"

	"mydiary/internal/dbx"
	"mydiary/internal/server/repositories/notes"
	"mydiary/internal/server/repositories/owners"
)

// RepositoryManager vends repository implementations bound to a DBTX and
// exposes a schema migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Owners(db dbx.DBTX) owners.Repository
	Notes(db dbx.DBTX) notes.Repository
}
