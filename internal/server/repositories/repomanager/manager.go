package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/choirhub/internal/dbx"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/concerts"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/recordings"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/rehearsals"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/sheetmusic"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// the same repositories on the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Concerts(db dbx.DBTX) concerts.Repository
	Rehearsals(db dbx.DBTX) rehearsals.Repository
	Recordings(db dbx.DBTX) recordings.Repository
	SheetMusic(db dbx.DBTX) sheetmusic.Repository
}
