package services

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/custodia-labs/santa-cli/internal/core/domain"
	"github.com/custodia-labs/santa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/santa-cli/internal/logger"
)

// Ensure GreedyMatcher implements the interface.
var _ driving.Matcher = (*GreedyMatcher)(nil)

// GreedyMatcher pairs givers in input order, each with a random eligible
// receiver from the shrinking pool. It never revisits an earlier choice, so
// it can fail on rosters that have a valid pairing; callers retry the run.
//
// A GreedyMatcher is not safe for concurrent use: it owns its *rand.Rand.
type GreedyMatcher struct {
	rng  *rand.Rand
	rule Rule
}

// NewGreedyMatcher creates a matcher drawing from rng and checking rule.
// A nil rng is seeded from the clock; a nil rule means DefaultRule.
func NewGreedyMatcher(rng *rand.Rand, rule Rule) *GreedyMatcher {
	if rng == nil {
		rng = NewRand(0)
	}
	if rule == nil {
		rule = DefaultRule
	}
	return &GreedyMatcher{rng: rng, rule: rule}
}

// NewRand returns a generator for seed. Seed zero means seed from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)) // #nosec G404 -- not security sensitive
}

// CreatePairings assigns every participant a receiver.
func (m *GreedyMatcher) CreatePairings(participants []domain.Participant) (domain.Pairing, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: no participants", domain.ErrInvalidInput)
	}

	logger.Section("Pairing")
	givers := slices.Clone(participants)
	recipients := slices.Clone(participants)
	pairing := make(domain.Pairing, 0, len(givers))

	for _, giver := range givers {
		idx, err := chooseIndex(m.rng, giver, recipients, m.rule)
		if err != nil {
			return nil, err
		}
		receiver := recipients[idx]
		recipients = slices.Delete(recipients, idx, idx+1)
		pairing = append(pairing, domain.Pair{Giver: giver, Receiver: receiver})
		logger.Debug("Paired %s -> %s (%d left in pool)", giver.Name, receiver.Name, len(recipients))
	}

	return pairing, nil
}

// ChooseRecipient picks a random receiver for giver from recipients.
//
// The pool is shuffled with rng, the giver is dropped from it if present,
// and the first candidate accepted by rule wins. If none is accepted the
// error is a *domain.NoValidRecipientError listing the scanned candidates.
func ChooseRecipient(
	rng *rand.Rand, giver domain.Participant, recipients []domain.Participant, rule Rule,
) (domain.Participant, error) {
	if rule == nil {
		rule = DefaultRule
	}
	idx, err := chooseIndex(rng, giver, recipients, rule)
	if err != nil {
		return domain.Participant{}, err
	}
	return recipients[idx], nil
}

// chooseIndex returns the pool index of the chosen receiver.
func chooseIndex(rng *rand.Rand, giver domain.Participant, recipients []domain.Participant, rule Rule) (int, error) {
	ordering := make([]int, len(recipients))
	for i := range ordering {
		ordering[i] = i
	}
	rng.Shuffle(len(ordering), func(i, j int) {
		ordering[i], ordering[j] = ordering[j], ordering[i]
	})

	// The giver may already have been drawn by someone else.
	if pos := slices.IndexFunc(ordering, func(i int) bool {
		return recipients[i].SameAs(giver)
	}); pos >= 0 {
		ordering = slices.Delete(ordering, pos, pos+1)
	}

	for _, i := range ordering {
		candidate := recipients[i]
		logger.Debug("Giver %s (spouse %q) to recipient %s (spouse %q)",
			giver.Name, giver.Spouse, candidate.Name, candidate.Spouse)
		if rule(giver, candidate) {
			return i, nil
		}
	}

	rejected := make([]domain.Participant, len(ordering))
	for n, i := range ordering {
		rejected[n] = recipients[i]
	}
	logger.Warn("No eligible recipient for %s among %d candidates", giver.Name, len(rejected))
	return -1, &domain.NoValidRecipientError{Giver: giver, Candidates: rejected}
}
