package driven

import (
	"context"

	"github.com/custodia-labs/santa-cli/internal/core/domain"
)

// Mailer delivers rendered messages.
type Mailer interface {
	// Send delivers one message. Implementations may block for rate limiting.
	Send(ctx context.Context, msg domain.Message) error
}

// Renderer turns assignments into messages.
// Rendered messages carry subject and body; the caller fills in addresses.
type Renderer interface {
	// RenderSanta renders the message telling a giver who they give to.
	RenderSanta(pair domain.Pair, meta domain.MessageMeta) (domain.Message, error)

	// RenderMaster renders the organizer's master list.
	RenderMaster(pairing domain.Pairing, meta domain.MessageMeta) (domain.Message, error)
}
