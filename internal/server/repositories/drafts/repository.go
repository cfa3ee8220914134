// Package drafts declares the server-side repository contract for draft
// persistence. The draft row, not the section, is the unit of concurrency:
// every content write is guarded by the draft's status and bumps its version.
package drafts

import (
	"context"

	"github.com/radarnarcisista/cartaselo/internal/server/models"
)

type Repository interface {
	// Create inserts the draft and its sections, filling in the generated
	// ID and timestamps on the passed model.
	Create(ctx context.Context, draft *models.Draft) (*models.Draft, error)

	// GetByID returns the draft with its sections in template order, or
	// common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Draft, error)

	// ListByOwner returns the owner's drafts, most recently edited first,
	// without section contents.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Draft, error)

	// UpdateSection replaces one section's content and bumps the draft's
	// version and updated_at. Fails with common.ErrInvalidState when the
	// draft is sealed and common.ErrNotFound when either id is unknown.
	UpdateSection(ctx context.Context, draftID, sectionID, content string) error

	// MarkSealed flips the draft to the sealed state. Fails with
	// common.ErrAlreadySealed when the draft is already sealed and
	// common.ErrNotFound when it does not exist. The conditional update is
	// what makes the seal transition exactly-once under concurrency.
	MarkSealed(ctx context.Context, draftID string) error
}
