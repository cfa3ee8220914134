package letters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/radarnarcisista/cartaselo/internal/common"
	"github.com/radarnarcisista/cartaselo/internal/dbx"
	"github.com/radarnarcisista/cartaselo/internal/server/models"
)

// PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// PostgresRepository implements sealed-letter storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, letter *models.SealedLetter) error {
	query := `
		INSERT INTO sealed_letters (session_id, draft_id, content_hash, sealed_at, clock_source)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		letter.SessionID, letter.SourceDraftID, letter.ContentHash, letter.SealedAt, letter.ClockSource)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrAlreadySealed
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByDraftID(ctx context.Context, draftID string) (*models.SealedLetter, error) {
	query := `
		SELECT session_id, draft_id, content_hash, sealed_at, clock_source
		FROM sealed_letters
		WHERE draft_id = $1
	`
	letter := &models.SealedLetter{}
	err := r.db.QueryRowContext(ctx, query, draftID).
		Scan(&letter.SessionID, &letter.SourceDraftID, &letter.ContentHash, &letter.SealedAt, &letter.ClockSource)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return letter, nil
}
