// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/radarnarcisista/cartaselo/internal/dbx"
	"github.com/radarnarcisista/cartaselo/internal/server/migrations"
	"github.com/radarnarcisista/cartaselo/internal/server/repositories/drafts"
	"github.com/radarnarcisista/cartaselo/internal/server/repositories/letters"
	"github.com/radarnarcisista/cartaselo/internal/server/repositories/refreshtokens"
	"github.com/radarnarcisista/cartaselo/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// RefreshTokens returns a refreshtokens.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

// Drafts returns a drafts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Drafts(db dbx.DBTX) drafts.Repository {
	return drafts.NewPostgresRepository(db)
}

// Letters returns a letters.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Letters(db dbx.DBTX) letters.Repository {
	return letters.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
