package drafts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/radarnarcisista/cartaselo/internal/common"
	"github.com/radarnarcisista/cartaselo/internal/dbx"
	"github.com/radarnarcisista/cartaselo/internal/server/models"
)

// PostgresRepository implements draft storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, draft *models.Draft) (*models.Draft, error) {
	query := `
		INSERT INTO drafts (owner_id, status)
		VALUES ($1, $2)
		RETURNING id, version, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, draft.OwnerID, draft.Status).
		Scan(&draft.ID, &draft.Version, &draft.CreatedAt, &draft.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	sectionQuery := `
		INSERT INTO draft_sections (draft_id, id, position, title, content)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, s := range draft.Sections {
		if _, err := r.db.ExecContext(ctx, sectionQuery, draft.ID, s.ID, s.Position, s.Title, s.Content); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}

	return draft, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Draft, error) {
	query := `
		SELECT id, owner_id, status, version, created_at, updated_at
		FROM drafts
		WHERE id = $1
	`
	draft := &models.Draft{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&draft.ID, &draft.OwnerID, &draft.Status, &draft.Version, &draft.CreatedAt, &draft.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	sectionQuery := `
		SELECT id, position, title, content
		FROM draft_sections
		WHERE draft_id = $1
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, sectionQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to select sections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.Section
		if err := rows.Scan(&s.ID, &s.Position, &s.Title, &s.Content); err != nil {
			return nil, err
		}
		draft.Sections = append(draft.Sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return draft, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Draft, error) {
	query := `
		SELECT id, owner_id, status, version, created_at, updated_at
		FROM drafts
		WHERE owner_id = $1
		ORDER BY updated_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select drafts: %w", err)
	}
	defer rows.Close()

	var result []*models.Draft
	for rows.Next() {
		var d models.Draft
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Status, &d.Version, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateSection writes new content into one section, guarded by the owning
// draft's status. A sealed draft rejects the write.
//
// The drafts row is bumped first: that conditional update takes the row
// lock, so a concurrent seal serializes with this write. A seal holding the
// lock makes the bump wait, and after the seal commits the status check
// fails, never letting content land on a sealed draft.
func (r *PostgresRepository) UpdateSection(ctx context.Context, draftID, sectionID, content string) error {
	bump := `
		UPDATE drafts SET version = version + 1, updated_at = now()
		WHERE id = $1 AND status = 'draft'
	`
	res, err := r.db.ExecContext(ctx, bump, draftID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return r.explainDraftMiss(ctx, draftID)
	}

	query := `
		UPDATE draft_sections SET content = $3
		WHERE draft_id = $1 AND id = $2
	`
	res, err = r.db.ExecContext(ctx, query, draftID, sectionID, content)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err = res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		// unknown section id; the caller's transaction rolls the bump back
		return common.ErrNotFound
	}
	return nil
}

// explainDraftMiss turns a zero-rows-affected guarded bump into the right
// sentinel: unknown draft or sealed draft.
func (r *PostgresRepository) explainDraftMiss(ctx context.Context, draftID string) error {
	var status models.DraftStatus
	err := r.db.QueryRowContext(ctx, `SELECT status FROM drafts WHERE id = $1`, draftID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	if status == models.StatusSealed {
		return common.ErrInvalidState
	}
	return common.ErrVersionConflict
}

// MarkSealed performs the one-way status flip. The WHERE clause on status
// guarantees at most one seal succeeds no matter how many race.
func (r *PostgresRepository) MarkSealed(ctx context.Context, draftID string) error {
	query := `
		UPDATE drafts SET status = 'sealed', version = version + 1, updated_at = now()
		WHERE id = $1 AND status = 'draft'
	`
	res, err := r.db.ExecContext(ctx, query, draftID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 1 {
		return nil
	}

	var status models.DraftStatus
	err = r.db.QueryRowContext(ctx, `SELECT status FROM drafts WHERE id = $1`, draftID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	if status == models.StatusSealed {
		return common.ErrAlreadySealed
	}
	return fmt.Errorf("unexpected draft status %q after failed seal", status)
}
