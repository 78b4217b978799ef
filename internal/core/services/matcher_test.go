package services

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/santa-cli/internal/core/domain"
)

func people(names ...string) []domain.Participant {
	ps := make([]domain.Participant, len(names))
	for i, n := range names {
		ps[i] = domain.Participant{Name: n, Email: n + "@example.com"}
	}
	return ps
}

// assertValidPairing checks the pairing invariants independently of Validate.
func assertValidPairing(t *testing.T, participants []domain.Participant, pairing domain.Pairing) {
	t.Helper()
	require.Len(t, pairing, len(participants))

	gives := map[string]int{}
	receives := map[string]int{}
	for _, pair := range pairing {
		assert.False(t, pair.Giver.SameAs(pair.Receiver), "self pair %s", pair)
		assert.False(t, pair.Giver.IsSpouseOf(pair.Receiver) || pair.Receiver.IsSpouseOf(pair.Giver),
			"spouse pair %s", pair)
		gives[pair.Giver.Key()]++
		receives[pair.Receiver.Key()]++
	}
	for _, p := range participants {
		assert.Equal(t, 1, gives[p.Key()], "%s gives", p.Name)
		assert.Equal(t, 1, receives[p.Key()], "%s receives", p.Name)
	}
}

func TestGreedyMatcher_TwoStrangers(t *testing.T) {
	participants := people("Alice", "Bob")

	for seed := int64(1); seed <= 20; seed++ {
		m := NewGreedyMatcher(rand.New(rand.NewSource(seed)), nil)

		pairing, err := m.CreatePairings(participants)

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Alice -> Bob", "Bob -> Alice"}, pairing.Lines())
	}
}

func TestGreedyMatcher_MarriedCoupleFails(t *testing.T) {
	participants := []domain.Participant{
		{Name: "Alice", Spouse: "Bob"},
		{Name: "Bob", Spouse: "Alice"},
	}
	m := NewGreedyMatcher(rand.New(rand.NewSource(1)), nil)

	pairing, err := m.CreatePairings(participants)

	require.Error(t, err)
	assert.Nil(t, pairing)
	assert.True(t, errors.Is(err, domain.ErrNoValidRecipient))

	var nvr *domain.NoValidRecipientError
	require.True(t, errors.As(err, &nvr))
	assert.Equal(t, "Alice", nvr.Giver.Name)
	assert.Equal(t, []string{"Bob"}, domain.Names(nvr.Candidates))
}

func TestGreedyMatcher_ThreeStrangers(t *testing.T) {
	participants := people("A", "B", "C")
	successes := 0

	for seed := int64(1); seed <= 100; seed++ {
		m := NewGreedyMatcher(rand.New(rand.NewSource(seed)), nil)

		pairing, err := m.CreatePairings(participants)
		if err != nil {
			// A->B, B->A leaves C with only itself
			assert.True(t, errors.Is(err, domain.ErrNoValidRecipient))
			continue
		}
		successes++
		assertValidPairing(t, participants, pairing)
		require.NoError(t, pairing.Validate(participants))
	}

	assert.Positive(t, successes)
}

func TestGreedyMatcher_SameSeedSameResult(t *testing.T) {
	participants := people("Alice", "Bob", "Carol", "Dave", "Eve", "Frank")

	for seed := int64(1); seed <= 10; seed++ {
		first, err1 := NewGreedyMatcher(rand.New(rand.NewSource(seed)), nil).CreatePairings(participants)
		second, err2 := NewGreedyMatcher(rand.New(rand.NewSource(seed)), nil).CreatePairings(participants)

		assert.Equal(t, err1, err2)
		assert.Equal(t, first, second)
	}
}

func TestGreedyMatcher_GiverOrderFollowsInput(t *testing.T) {
	participants := people("Alice", "Bob", "Carol", "Dave")

	for seed := int64(1); seed <= 20; seed++ {
		pairing, err := NewGreedyMatcher(rand.New(rand.NewSource(seed)), nil).CreatePairings(participants)
		if err != nil {
			continue
		}
		for i, pair := range pairing {
			assert.Equal(t, participants[i].Name, pair.Giver.Name)
		}
	}
}

func TestGreedyMatcher_EmptyInput(t *testing.T) {
	m := NewGreedyMatcher(rand.New(rand.NewSource(1)), nil)

	_, err := m.CreatePairings(nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGreedyMatcher_SingleParticipant(t *testing.T) {
	m := NewGreedyMatcher(rand.New(rand.NewSource(1)), nil)

	_, err := m.CreatePairings(people("Solo"))

	require.Error(t, err)
	var nvr *domain.NoValidRecipientError
	require.True(t, errors.As(err, &nvr))
	assert.Empty(t, nvr.Candidates)
}

func TestGreedyMatcher_NilRandUsesClock(t *testing.T) {
	m := NewGreedyMatcher(nil, nil)

	pairing, err := m.CreatePairings(people("Alice", "Bob"))

	require.NoError(t, err)
	assert.Len(t, pairing, 2)
}

func TestGreedyMatcher_CustomRule(t *testing.T) {
	participants := people("Alice", "Bob", "Carol")
	// Force a single cycle Alice -> Bob -> Carol -> Alice
	next := map[string]string{"alice": "bob", "bob": "carol", "carol": "alice"}
	rule := func(g, r domain.Participant) bool { return next[g.Key()] == r.Key() }

	pairing, err := NewGreedyMatcher(rand.New(rand.NewSource(3)), rule).CreatePairings(participants)

	require.NoError(t, err)
	assert.Equal(t, []string{"Alice -> Bob", "Bob -> Carol", "Carol -> Alice"}, pairing.Lines())
}

// Couples rosters: every successful run satisfies every invariant.
func TestGreedyMatcher_CouplesProperty(t *testing.T) {
	var participants []domain.Participant
	for i := 0; i < 6; i++ {
		a := fmt.Sprintf("P%da", i)
		b := fmt.Sprintf("P%db", i)
		participants = append(participants,
			domain.Participant{Name: a, Spouse: b},
			domain.Participant{Name: b}, // one-sided record
		)
	}

	successes := 0
	for seed := int64(1); seed <= 200; seed++ {
		pairing, err := NewGreedyMatcher(rand.New(rand.NewSource(seed)), nil).CreatePairings(participants)
		if err != nil {
			require.ErrorIs(t, err, domain.ErrNoValidRecipient)
			continue
		}
		successes++
		assertValidPairing(t, participants, pairing)
	}

	assert.Positive(t, successes)
}

func TestChooseRecipient_RemovesGiver(t *testing.T) {
	pool := people("Alice", "Bob")
	giver := pool[0]

	for seed := int64(1); seed <= 20; seed++ {
		got, err := ChooseRecipient(rand.New(rand.NewSource(seed)), giver, pool, nil)

		require.NoError(t, err)
		assert.Equal(t, "Bob", got.Name)
	}
}

func TestChooseRecipient_GiverNotInPool(t *testing.T) {
	pool := people("Bob", "Carol")
	giver := domain.Participant{Name: "Alice"}

	got, err := ChooseRecipient(rand.New(rand.NewSource(1)), giver, pool, nil)

	require.NoError(t, err)
	assert.Contains(t, []string{"Bob", "Carol"}, got.Name)
}

func TestChooseRecipient_DoesNotMutatePool(t *testing.T) {
	pool := people("Alice", "Bob", "Carol", "Dave")
	before := domain.Names(pool)

	_, err := ChooseRecipient(rand.New(rand.NewSource(9)), pool[0], pool, nil)

	require.NoError(t, err)
	assert.Equal(t, before, domain.Names(pool))
}

func TestChooseRecipient_NoneEligible(t *testing.T) {
	giver := domain.Participant{Name: "Alice", Spouse: "Bob"}
	pool := []domain.Participant{giver, {Name: "Bob"}}

	_, err := ChooseRecipient(rand.New(rand.NewSource(1)), giver, pool, nil)

	var nvr *domain.NoValidRecipientError
	require.True(t, errors.As(err, &nvr))
	assert.Equal(t, "Alice", nvr.Giver.Name)
	assert.Equal(t, []string{"Bob"}, domain.Names(nvr.Candidates))
}

func TestChooseRecipient_Uniform(t *testing.T) {
	pool := people("Alice", "Bob", "Carol", "Dave")
	giver := pool[0]
	rng := rand.New(rand.NewSource(12345))
	counts := map[string]int{}

	const runs = 3000
	for i := 0; i < runs; i++ {
		got, err := ChooseRecipient(rng, giver, pool, nil)
		require.NoError(t, err)
		counts[got.Name]++
	}

	assert.Zero(t, counts["Alice"])
	for _, name := range []string{"Bob", "Carol", "Dave"} {
		assert.InDelta(t, runs/3, counts[name], runs/10, name)
	}
}
