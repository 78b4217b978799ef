// Package outbox implements driven.Mailer by writing .eml files to a
// directory. Organizers use it to review or hand-deliver messages.
package outbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/santa-cli/internal/adapters/driven/mail"
	"github.com/custodia-labs/santa-cli/internal/core/domain"
	"github.com/custodia-labs/santa-cli/internal/core/ports/driven"
)

// Ensure Mailer implements the interface.
var _ driven.Mailer = (*Mailer)(nil)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Mailer writes each message to its own file.
type Mailer struct {
	dir string
	now func() time.Time
}

// NewMailer creates the outbox directory if needed.
func NewMailer(dir string) (*Mailer, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: outbox directory is not set", domain.ErrMailerUnavailable)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating outbox: %w", err)
	}
	return &Mailer{dir: dir, now: time.Now}, nil
}

// Dir returns the outbox directory.
func (m *Mailer) Dir() string {
	return m.dir
}

// Send writes msg as <recipient>-<uuid>.eml.
func (m *Mailer) Send(ctx context.Context, msg domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	to, err := mail.Address(msg.To)
	if err != nil {
		return err
	}

	data, err := mail.Encode(msg, m.now())
	if err != nil {
		return err
	}

	name := fmt.Sprintf("%s-%s.eml", unsafeChars.ReplaceAllString(strings.ToLower(to), "_"), uuid.NewString())
	path := filepath.Join(m.dir, name)
	// Files reveal assignments
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
