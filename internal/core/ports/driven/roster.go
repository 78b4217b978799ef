package driven

import "github.com/custodia-labs/santa-cli/internal/core/domain"

// RosterLoader reads a roster definition.
type RosterLoader interface {
	// Load reads and validates the roster at path.
	Load(path string) (*domain.Roster, error)
}
