package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/wanderlust/internal/dbx"
	"github.com/dmitrijs2005/wanderlust/internal/server/repositories/listings"
	"github.com/dmitrijs2005/wanderlust/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/wanderlust/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a *sql.DB or to the
// *sql.Tx of a running transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Listings(db dbx.DBTX) listings.Repository
}
