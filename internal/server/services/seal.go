package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/radarnarcisista/cartaselo/internal/common"
	"github.com/radarnarcisista/cartaselo/internal/dbx"
	"github.com/radarnarcisista/cartaselo/internal/sealing"
	"github.com/radarnarcisista/cartaselo/internal/server/models"
	"github.com/radarnarcisista/cartaselo/internal/server/repositories/repomanager"
)

// SealService performs the one-way draft→sealed transition. The letter
// insert and the status flip run in a single transaction: a reader can never
// observe a sealed letter whose draft is still editable, and a failed insert
// leaves the draft untouched.
type SealService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager

	// now is the seal clock. It is the server's own clock: sealedAt must
	// not come from anything the author controls.
	now func() time.Time
}

func NewSealService(db *sql.DB, m repomanager.RepositoryManager) *SealService {
	return &SealService{db: db, repomanager: m, now: time.Now}
}

// Seal hashes the draft's current sections and records the seal. A second
// call for the same draft fails with common.ErrAlreadySealed; the existing
// letter is never replaced or re-timestamped.
func (s *SealService) Seal(ctx context.Context, ownerID, draftID string) (*models.SealedLetter, error) {

	draft, err := s.repomanager.Drafts(s.db).GetByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.OwnerID != ownerID {
		return nil, common.ErrNotFound
	}
	if draft.Sealed() {
		return nil, common.ErrAlreadySealed
	}

	sessionID, err := common.MakeRandHexString(common.SessionIDBytes)
	if err != nil {
		return nil, common.ErrInternal
	}

	var letter *models.SealedLetter

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		// MarkSealed first: its conditional update is the arbiter when two
		// seal calls race, and it takes the drafts row lock so section
		// writes serialize against the seal instead of past it.
		if err := s.repomanager.Drafts(tx).MarkSealed(ctx, draft.ID); err != nil {
			return err
		}

		// The hash must cover exactly the content that got sealed, so the
		// sections are re-read inside the transaction. Anything the
		// pre-check saw may be stale by now.
		sealed, err := s.repomanager.Drafts(tx).GetByID(ctx, draft.ID)
		if err != nil {
			return err
		}

		letter = &models.SealedLetter{
			SessionID:     sessionID,
			SourceDraftID: draft.ID,
			ContentHash:   sealing.Hash(sealed.Sections),
			SealedAt:      s.now().UTC(),
			ClockSource:   models.ClockSourceServer,
		}
		return s.repomanager.Letters(tx).Create(ctx, letter)
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadySealed) || errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error sealing draft: %w", err)
	}

	return letter, nil
}

// GetLetter returns the seal record for a draft the owner sealed earlier.
func (s *SealService) GetLetter(ctx context.Context, ownerID, draftID string) (*models.SealedLetter, error) {
	draft, err := s.repomanager.Drafts(s.db).GetByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.OwnerID != ownerID {
		return nil, common.ErrNotFound
	}
	return s.repomanager.Letters(s.db).GetByDraftID(ctx, draftID)
}
