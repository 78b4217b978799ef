package driving

import (
	"context"

	"github.com/custodia-labs/santa-cli/internal/core/domain"
)

// DrawService runs the gift exchange draw.
type DrawService interface {
	// Draw pairs the roster, stores the draw and notifies participants,
	// as allowed by opts. Nothing is stored or sent when pairing fails.
	Draw(ctx context.Context, roster domain.Roster, opts domain.DrawOptions) (*domain.DrawResult, error)

	// Get returns a stored draw by ID.
	Get(ctx context.Context, id string) (*domain.Draw, error)

	// History returns stored draws, newest first. A limit of zero returns all.
	History(ctx context.Context, limit int) ([]domain.Draw, error)

	// Delete removes a stored draw. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, id string) error
}
