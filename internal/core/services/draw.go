package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/custodia-labs/santa-cli/internal/core/domain"
	"github.com/custodia-labs/santa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/santa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/santa-cli/internal/logger"
)

// Ensure DrawService implements the interface.
var _ driving.DrawService = (*DrawService)(nil)

// defaultAttempts applies when neither options nor settings give a budget.
const defaultAttempts = 25

// MatcherFactory builds a matcher for one draw.
type MatcherFactory func(rng *rand.Rand, rule Rule) driving.Matcher

// DrawService runs draws: pairing, persistence and notification.
type DrawService struct {
	store      driven.DrawStore
	notifier   *Notifier
	attempts   int
	newMatcher MatcherFactory
	now        func() time.Time
}

// NewDrawService creates a new draw service.
// The store and notifier parameters are optional (can be nil).
func NewDrawService(store driven.DrawStore, notifier *Notifier, attempts int) *DrawService {
	if attempts < 1 {
		attempts = defaultAttempts
	}
	return &DrawService{
		store:    store,
		notifier: notifier,
		attempts: attempts,
		newMatcher: func(rng *rand.Rand, rule Rule) driving.Matcher {
			return NewGreedyMatcher(rng, rule)
		},
		now: time.Now,
	}
}

// SetMatcherFactory swaps the pairing algorithm.
func (s *DrawService) SetMatcherFactory(factory MatcherFactory) {
	if factory != nil {
		s.newMatcher = factory
	}
}

// Draw pairs the roster and, unless opts say otherwise, stores and notifies.
//
// The returned result is non-nil whenever the draw was stored, including
// when notification then failed; the error describes the failed deliveries.
func (s *DrawService) Draw(
	ctx context.Context, roster domain.Roster, opts domain.DrawOptions,
) (*domain.DrawResult, error) {
	logger.Section("Draw")

	if err := ValidateRoster(roster); err != nil {
		return nil, err
	}

	notify := !opts.DryRun && !opts.SkipNotify
	if notify && s.notifier == nil {
		return nil, fmt.Errorf("cannot notify participants: %w", domain.ErrMailerUnavailable)
	}

	attempts := opts.Attempts
	if attempts < 1 {
		attempts = s.attempts
	}
	seed := opts.Seed
	if seed == 0 {
		seed = s.now().UnixNano()
	}
	logger.Debug("Title: %q, participants: %d, seed: %d, attempts: %d",
		roster.DisplayTitle(), len(roster.Participants), seed, attempts)

	rule, err := s.rule(ctx, roster, opts)
	if err != nil {
		return nil, err
	}

	matcher := s.newMatcher(NewRand(seed), rule)
	pairing, used, err := createWithRetry(ctx, matcher, roster.Participants, attempts)
	if err != nil {
		return nil, err
	}

	if err := pairing.Validate(roster.Participants); err != nil {
		return nil, err
	}

	draw := domain.Draw{
		ID:        uuid.New().String(),
		Title:     roster.DisplayTitle(),
		Seed:      seed,
		Attempts:  used,
		Pairing:   pairing,
		CreatedAt: s.now().UTC(),
	}
	result := &domain.DrawResult{Draw: draw}

	if opts.DryRun {
		logger.Info("Dry run, draw %s not stored", draw.ID)
		return result, nil
	}

	if s.store != nil {
		if err := s.store.Save(ctx, &draw); err != nil {
			return nil, fmt.Errorf("save draw: %w", err)
		}
		result.Stored = true
		logger.Info("Stored draw %s", draw.ID)
	}

	if !notify {
		return result, nil
	}

	report, err := s.notifier.Notify(ctx, roster, pairing)
	result.Report = report
	if err != nil {
		return result, fmt.Errorf("notify: %w", err)
	}
	return result, nil
}

// Get returns a stored draw by ID.
func (s *DrawService) Get(ctx context.Context, id string) (*domain.Draw, error) {
	if s.store == nil {
		return nil, domain.ErrNotFound
	}
	return s.store.Get(ctx, id)
}

// History returns stored draws, newest first.
func (s *DrawService) History(ctx context.Context, limit int) ([]domain.Draw, error) {
	if s.store == nil {
		return []domain.Draw{}, nil
	}
	return s.store.List(ctx, limit)
}

// Delete removes a stored draw, so it no longer counts as the previous draw
// for --avoid-repeats.
func (s *DrawService) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return domain.ErrNotFound
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Deleted draw %s", id)
	return nil
}

// rule builds the eligibility rule for a draw.
func (s *DrawService) rule(ctx context.Context, roster domain.Roster, opts domain.DrawOptions) (Rule, error) {
	if !opts.AvoidRepeats {
		return DefaultRule, nil
	}
	if s.store == nil {
		logger.Warn("No draw history configured, cannot avoid repeats")
		return DefaultRule, nil
	}

	previous, err := s.store.Latest(ctx, roster.DisplayTitle())
	if errors.Is(err, domain.ErrNotFound) {
		logger.Debug("No previous draw for %q", roster.DisplayTitle())
		return DefaultRule, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load previous draw: %w", err)
	}

	logger.Debug("Avoiding receivers from draw %s", previous.ID)
	return All(DefaultRule, NotPreviousReceiver(previous.Pairing)), nil
}

// createWithRetry reruns the matcher until it succeeds or attempts run out.
// Only ErrNoValidRecipient is retried; it returns the attempts used.
func createWithRetry(
	ctx context.Context, matcher driving.Matcher, participants []domain.Participant, attempts int,
) (domain.Pairing, int, error) {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, attempt - 1, err
		}

		pairing, err := matcher.CreatePairings(participants)
		if err == nil {
			logger.Info("Pairing found on attempt %d", attempt)
			return pairing, attempt, nil
		}
		if !errors.Is(err, domain.ErrNoValidRecipient) {
			return nil, attempt, err
		}

		logger.Debug("Attempt %d failed: %v", attempt, err)
		lastErr = err
	}

	return nil, attempts, fmt.Errorf("no valid pairing after %d attempts: %w", attempts, lastErr)
}

// ValidateRoster checks the roster can be drawn.
// Duplicate names are allowed but logged, since rules compare by name.
func ValidateRoster(roster domain.Roster) error {
	if len(roster.Participants) == 0 {
		return fmt.Errorf("%w: roster has no participants", domain.ErrInvalidInput)
	}

	for i, p := range roster.Participants {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: participant %d has no name", domain.ErrInvalidInput, i+1)
		}
	}

	dupes := lo.FindDuplicatesBy(roster.Participants, func(p domain.Participant) string {
		return p.Key()
	})
	for _, p := range dupes {
		logger.Warn("Duplicate participant name %q; rules cannot tell them apart", p.Name)
	}

	return nil
}
