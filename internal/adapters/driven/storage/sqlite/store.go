package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/santa-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/santa-cli/internal/core/domain"
	"github.com/custodia-labs/santa-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DrawStore = (*Store)(nil)

// Store is a SQLite-backed draw history.
type Store struct {
	db   *sql.DB
	path string
}

// participantRecord is the JSON column shape for a participant.
type participantRecord struct {
	Name    string   `json:"name"`
	Email   string   `json:"email,omitempty"`
	Spouse  string   `json:"spouse,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.santa/data/draws.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".santa", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "draws.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations, recording each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("starting migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// Save stores a draw and replaces any pairs previously stored under its ID.
func (s *Store) Save(ctx context.Context, draw *domain.Draw) error {
	if draw == nil || draw.ID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO draws (id, title, seed, attempts, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			seed = excluded.seed,
			attempts = excluded.attempts,
			created_at = excluded.created_at
	`, draw.ID, draw.Title, draw.Seed, draw.Attempts, formatTime(draw.CreatedAt))
	if err != nil {
		return fmt.Errorf("saving draw: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM pairs WHERE draw_id = ?", draw.ID); err != nil {
		return fmt.Errorf("clearing pairs: %w", err)
	}

	for i, pair := range draw.Pairing {
		giver, err := marshalParticipant(pair.Giver)
		if err != nil {
			return err
		}
		receiver, err := marshalParticipant(pair.Receiver)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO pairs (draw_id, position, giver, receiver) VALUES (?, ?, ?, ?)
		`, draw.ID, i, giver, receiver)
		if err != nil {
			return fmt.Errorf("saving pair %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing draw: %w", err)
	}
	return nil
}

// Get retrieves a draw by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Draw, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, seed, attempts, created_at FROM draws WHERE id = ?
	`, id)

	draw, err := scanDraw(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadPairs(ctx, draw); err != nil {
		return nil, err
	}
	return draw, nil
}

// Latest returns the most recent draw for a title.
func (s *Store) Latest(ctx context.Context, title string) (*domain.Draw, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, seed, attempts, created_at FROM draws
		WHERE title = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, title)

	draw, err := scanDraw(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadPairs(ctx, draw); err != nil {
		return nil, err
	}
	return draw, nil
}

// List returns draws newest first. A limit of zero returns all.
func (s *Store) List(ctx context.Context, limit int) ([]domain.Draw, error) {
	query := "SELECT id, title, seed, attempts, created_at FROM draws ORDER BY created_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying draws: %w", err)
	}

	var draws []domain.Draw //nolint:prealloc // size unknown from query
	for rows.Next() {
		draw, err := scanDraw(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		draws = append(draws, *draw)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating draws: %w", err)
	}
	rows.Close()

	// Pairs are loaded after the cursor closes; SQLite holds one connection per query.
	for i := range draws {
		if err := s.loadPairs(ctx, &draws[i]); err != nil {
			return nil, err
		}
	}

	return draws, nil
}

// Delete removes a draw and its pairs.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM draws WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting draw: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting draw: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) loadPairs(ctx context.Context, draw *domain.Draw) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT giver, receiver FROM pairs WHERE draw_id = ? ORDER BY position
	`, draw.ID)
	if err != nil {
		return fmt.Errorf("querying pairs: %w", err)
	}
	defer rows.Close()

	var pairing domain.Pairing
	for rows.Next() {
		var giverJSON, receiverJSON string
		if err := rows.Scan(&giverJSON, &receiverJSON); err != nil {
			return fmt.Errorf("scanning pair: %w", err)
		}
		giver, err := unmarshalParticipant(giverJSON)
		if err != nil {
			return err
		}
		receiver, err := unmarshalParticipant(receiverJSON)
		if err != nil {
			return err
		}
		pairing = append(pairing, domain.Pair{Giver: giver, Receiver: receiver})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating pairs: %w", err)
	}

	draw.Pairing = pairing
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDraw(row scanner) (*domain.Draw, error) {
	var (
		draw      domain.Draw
		createdAt string
	)
	err := row.Scan(&draw.ID, &draw.Title, &draw.Seed, &draw.Attempts, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning draw: %w", err)
	}

	draw.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &draw, nil
}

func marshalParticipant(p domain.Participant) (string, error) {
	data, err := json.Marshal(participantRecord{
		Name:    p.Name,
		Email:   p.Email,
		Spouse:  p.Spouse,
		Exclude: p.Exclude,
	})
	if err != nil {
		return "", fmt.Errorf("marshalling participant %s: %w", p.Name, err)
	}
	return string(data), nil
}

func unmarshalParticipant(data string) (domain.Participant, error) {
	var rec participantRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return domain.Participant{}, fmt.Errorf("unmarshalling participant: %w", err)
	}
	return domain.Participant{
		Name:    rec.Name,
		Email:   rec.Email,
		Spouse:  rec.Spouse,
		Exclude: rec.Exclude,
	}, nil
}

// formatTime uses a fixed-width layout so text ordering matches time ordering.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z")
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
