package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/custodia-labs/santa-cli/internal/core/domain"
	"github.com/custodia-labs/santa-cli/internal/core/ports/driven"
)

// Ensure DrawStore implements the interface.
var _ driven.DrawStore = (*DrawStore)(nil)

// DrawStore is an in-memory implementation of driven.DrawStore.
type DrawStore struct {
	mu    sync.RWMutex
	draws map[string]domain.Draw
}

// NewDrawStore creates a new in-memory draw store.
func NewDrawStore() *DrawStore {
	return &DrawStore{
		draws: make(map[string]domain.Draw),
	}
}

// Save stores or replaces a draw.
func (s *DrawStore) Save(_ context.Context, draw *domain.Draw) error {
	if draw == nil || draw.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *draw
	stored.Pairing = slices.Clone(draw.Pairing)
	s.draws[draw.ID] = stored
	return nil
}

// Get retrieves a draw by ID.
func (s *DrawStore) Get(_ context.Context, id string) (*domain.Draw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draw, ok := s.draws[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &draw, nil
}

// Latest returns the most recent draw for a title.
func (s *DrawStore) Latest(ctx context.Context, title string) (*domain.Draw, error) {
	draws, err := s.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	for i := range draws {
		if draws[i].Title == title {
			return &draws[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns draws newest first.
func (s *DrawStore) List(_ context.Context, limit int) ([]domain.Draw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Draw, 0, len(s.draws))
	for _, draw := range s.draws {
		result = append(result, draw)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Delete removes a draw by ID.
func (s *DrawStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.draws[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.draws, id)
	return nil
}
