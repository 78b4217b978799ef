package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/santa-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "santa-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func testDraw(id, title string, createdAt time.Time) *domain.Draw {
	alice := domain.Participant{Name: "Alice", Email: "alice@example.com", Spouse: "Bob"}
	bob := domain.Participant{Name: "Bob", Email: "bob@example.com", Spouse: "Alice"}
	carol := domain.Participant{Name: "Carol", Exclude: []string{"Dave"}}
	dave := domain.Participant{Name: "Dave", Email: "dave@example.com"}

	return &domain.Draw{
		ID:       id,
		Title:    title,
		Seed:     42,
		Attempts: 2,
		Pairing: domain.Pairing{
			{Giver: alice, Receiver: carol},
			{Giver: carol, Receiver: bob},
			{Giver: bob, Receiver: dave},
			{Giver: dave, Receiver: alice},
		},
		CreatedAt: createdAt,
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.Equal(t, "draws.db", filepath.Base(store.Path()))
	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_MigrationsRecorded(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening must not re-run applied migrations
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestStore_SaveAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	created := time.Date(2025, 12, 1, 18, 30, 0, 0, time.UTC)
	draw := testDraw("draw-1", "Farmer Family", created)

	require.NoError(t, store.Save(ctx, draw))

	got, err := store.Get(ctx, "draw-1")
	require.NoError(t, err)
	assert.Equal(t, "Farmer Family", got.Title)
	assert.Equal(t, int64(42), got.Seed)
	assert.Equal(t, 2, got.Attempts)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.Equal(t, draw.Pairing, got.Pairing)
}

func TestStore_Save_Replaces(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	draw := testDraw("draw-1", "Office", time.Now())
	require.NoError(t, store.Save(ctx, draw))

	draw.Title = "Office Party"
	draw.Pairing = draw.Pairing[:2]
	require.NoError(t, store.Save(ctx, draw))

	got, err := store.Get(ctx, "draw-1")
	require.NoError(t, err)
	assert.Equal(t, "Office Party", got.Title)
	assert.Len(t, got.Pairing, 2)
}

func TestStore_Save_Invalid(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	assert.ErrorIs(t, store.Save(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Save(ctx, &domain.Draw{}), domain.ErrInvalidInput)
}

func TestStore_Get_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Latest(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, testDraw("family-2023", "Family", base)))
	require.NoError(t, store.Save(ctx, testDraw("family-2024", "Family", base.AddDate(1, 0, 0))))
	require.NoError(t, store.Save(ctx, testDraw("office-2025", "Office", base.AddDate(2, 0, 0))))

	got, err := store.Latest(ctx, "Family")
	require.NoError(t, err)
	assert.Equal(t, "family-2024", got.ID)
	assert.Len(t, got.Pairing, 4)

	_, err = store.Latest(ctx, "Book Club")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_List(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, testDraw(id, "Family", base.Add(time.Duration(i)*time.Hour))))
	}

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[2].ID)
	assert.Len(t, all[1].Pairing, 4)

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "c", limited[0].ID)
	assert.Equal(t, "b", limited[1].ID)
}

func TestStore_List_Empty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	draws, err := store.List(context.Background(), 0)

	require.NoError(t, err)
	assert.Empty(t, draws)
}

func TestStore_Delete(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testDraw("draw-1", "Family", time.Now())))

	require.NoError(t, store.Delete(ctx, "draw-1"))

	_, err := store.Get(ctx, "draw-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var pairs int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM pairs").Scan(&pairs))
	assert.Zero(t, pairs)

	assert.ErrorIs(t, store.Delete(ctx, "draw-1"), domain.ErrNotFound)
}

func TestFormatTime_SortsLexically(t *testing.T) {
	earlier := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	later := earlier.Add(500 * time.Millisecond)

	assert.Less(t, formatTime(earlier), formatTime(later))

	parsed, err := parseTime(formatTime(later))
	require.NoError(t, err)
	assert.True(t, later.Equal(parsed))
}
