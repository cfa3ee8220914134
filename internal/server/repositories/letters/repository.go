// Package letters declares the repository contract for sealed letters.
// Rows are insert-only: a sealed letter is never updated or deleted.
package letters

import (
	"context"

	"github.com/radarnarcisista/cartaselo/internal/server/models"
)

type Repository interface {
	// Create inserts the sealed letter. The unique constraint on draft_id
	// backs up the service-level single-seal guarantee.
	Create(ctx context.Context, letter *models.SealedLetter) error

	// GetByDraftID returns the letter sealed from the given draft, or
	// common.ErrNotFound when the draft was never sealed.
	GetByDraftID(ctx context.Context, draftID string) (*models.SealedLetter, error)
}
