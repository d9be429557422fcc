// Package repomanager defines the RepositoryManager abstraction: a factory
// that vends repositories bound to a DB handle or an open transaction, plus
// the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/messagely/messagely/internal/dbx"
	"github.com/messagely/messagely/internal/server/repositories/messages"
	"github.com/messagely/messagely/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations. Passing a dbx.DBTX
// lets callers bind a repository either to the shared pool or to a
// transaction started with dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Messages(db dbx.DBTX) messages.Repository
}
