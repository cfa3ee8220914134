package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/radarnarcisista/cartaselo/internal/common"
	"github.com/radarnarcisista/cartaselo/internal/dbx"
	"github.com/radarnarcisista/cartaselo/internal/server/models"
	"github.com/radarnarcisista/cartaselo/internal/server/repositories/repomanager"
)

// DraftService owns the mutable side of a letter's lifecycle: creation from
// the section template and section edits, always on behalf of a specific
// owner. Drafts belonging to another user are reported as not found rather
// than forbidden, so the API leaks no existence information.
type DraftService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDraftService(db *sql.DB, m repomanager.RepositoryManager) *DraftService {
	return &DraftService{db: db, repomanager: m}
}

// Create allocates a new draft for ownerID with the fixed section template,
// every section empty.
func (s *DraftService) Create(ctx context.Context, ownerID string) (*models.Draft, error) {

	draft := &models.Draft{
		OwnerID:  ownerID,
		Status:   models.StatusDraft,
		Sections: models.TemplateSections(),
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := s.repomanager.Drafts(tx).Create(ctx, draft)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error creating draft: %w", err)
	}

	return draft, nil
}

// Get returns the draft with sections, or common.ErrNotFound when it does
// not exist or belongs to someone else.
func (s *DraftService) Get(ctx context.Context, ownerID, draftID string) (*models.Draft, error) {
	draft, err := s.repomanager.Drafts(s.db).GetByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.OwnerID != ownerID {
		return nil, common.ErrNotFound
	}
	return draft, nil
}

func (s *DraftService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Draft, error) {
	return s.repomanager.Drafts(s.db).ListByOwner(ctx, ownerID)
}

// UpdateSection replaces one section's content. Sealed drafts reject the
// write with common.ErrInvalidState.
func (s *DraftService) UpdateSection(ctx context.Context, ownerID, draftID, sectionID, content string) (*models.Draft, error) {

	// ownership check before touching anything
	if _, err := s.Get(ctx, ownerID, draftID); err != nil {
		return nil, err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Drafts(tx).UpdateSection(ctx, draftID, sectionID, content)
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrInvalidState) || errors.Is(err, common.ErrVersionConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating section: %w", err)
	}

	return s.Get(ctx, ownerID, draftID)
}
