package repomanager

import (
	"context"
	"database/sql"

	"github.com/radarnarcisista/cartaselo/internal/dbx"
	"github.com/radarnarcisista/cartaselo/internal/server/repositories/drafts"
	"github.com/radarnarcisista/cartaselo/internal/server/repositories/letters"
	"github.com/radarnarcisista/cartaselo/internal/server/repositories/refreshtokens"
	"github.com/radarnarcisista/cartaselo/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Drafts(db dbx.DBTX) drafts.Repository
	Letters(db dbx.DBTX) letters.Repository
}
