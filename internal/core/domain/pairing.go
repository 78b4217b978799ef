package domain

import (
	"fmt"
	"sort"
)

// Pair assigns a giver to a receiver.
type Pair struct {
	Giver    Participant
	Receiver Participant
}

// String formats the pair as "Giver -> Receiver", the master list line format.
func (p Pair) String() string {
	return fmt.Sprintf("%s -> %s", p.Giver.Name, p.Receiver.Name)
}

// Pairing is the complete set of assignments for one run.
// Slice order follows giver processing order and carries no meaning.
type Pairing []Pair

// Lines returns the "Giver -> Receiver" lines sorted by giver name.
func (p Pairing) Lines() []string {
	lines := make([]string, len(p))
	for i, pair := range p {
		lines[i] = pair.String()
	}
	sort.Strings(lines)
	return lines
}

// Validate checks that p is a complete, legal pairing of participants:
// each participant gives exactly once and receives exactly once, and no
// pair is a self pair or joins spouses.
func (p Pairing) Validate(participants []Participant) error {
	if len(p) != len(participants) {
		return fmt.Errorf("%w: %d pairs for %d participants", ErrInvalidPairing, len(p), len(participants))
	}

	expected := make(map[string]int, len(participants))
	for _, participant := range participants {
		expected[participant.Key()]++
	}

	givers := make(map[string]int, len(p))
	receivers := make(map[string]int, len(p))
	for _, pair := range p {
		if pair.Giver.SameAs(pair.Receiver) {
			return fmt.Errorf("%w: %s gives to themselves", ErrInvalidPairing, pair.Giver.Name)
		}
		if pair.Giver.IsSpouseOf(pair.Receiver) || pair.Receiver.IsSpouseOf(pair.Giver) {
			return fmt.Errorf("%w: %s and %s are spouses", ErrInvalidPairing, pair.Giver.Name, pair.Receiver.Name)
		}
		givers[pair.Giver.Key()]++
		receivers[pair.Receiver.Key()]++
	}

	for key, count := range expected {
		if givers[key] != count {
			return fmt.Errorf("%w: %q gives %d times, want %d", ErrInvalidPairing, key, givers[key], count)
		}
		if receivers[key] != count {
			return fmt.Errorf("%w: %q receives %d times, want %d", ErrInvalidPairing, key, receivers[key], count)
		}
	}

	return nil
}
