package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/todopoc/internal/dbx"
	"github.com/dmitrijs2005/todopoc/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/todopoc/internal/server/repositories/pendingcontacts"
	"github.com/dmitrijs2005/todopoc/internal/server/repositories/tasks"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// them either on the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Contacts(db dbx.DBTX) contacts.Repository
	PendingContacts(db dbx.DBTX) pendingcontacts.Repository
	Tasks(db dbx.DBTX) tasks.Repository
}
