package driving

import "github.com/custodia-labs/santa-cli/internal/core/domain"

// Matcher assigns every participant a receiver.
//
// Implementations return either a complete pairing that satisfies the
// eligibility rules or an error; never a partial pairing. A failed run may
// be retried by calling CreatePairings again.
type Matcher interface {
	// CreatePairings returns one pair per participant, in participant order.
	CreatePairings(participants []domain.Participant) (domain.Pairing, error)
}
