package driven

import (
	"context"

	"github.com/custodia-labs/santa-cli/internal/core/domain"
)

// DrawStore persists completed draws.
type DrawStore interface {
	// Save stores a draw and its pairs.
	Save(ctx context.Context, draw *domain.Draw) error

	// Get retrieves a draw by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.Draw, error)

	// Latest returns the most recent draw for a title.
	// Returns domain.ErrNotFound if there is none.
	Latest(ctx context.Context, title string) (*domain.Draw, error)

	// List returns draws newest first. A limit of zero returns all.
	List(ctx context.Context, limit int) ([]domain.Draw, error)

	// Delete removes a draw by ID.
	Delete(ctx context.Context, id string) error
}
