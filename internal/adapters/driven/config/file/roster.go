package file

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/santa-cli/internal/core/domain"
	"github.com/custodia-labs/santa-cli/internal/core/ports/driven"
)

// Ensure RosterLoader implements the interface.
var _ driven.RosterLoader = (*RosterLoader)(nil)

var validate = validator.New()

// rosterFile is the on-disk roster shape shared by YAML and TOML.
type rosterFile struct {
	Title        string            `yaml:"title" toml:"title"`
	Organizer    organizerFile     `yaml:"organizer" toml:"organizer"`
	Participants []participantFile `yaml:"participants" toml:"participants" validate:"required,min=1,dive"`
}

type organizerFile struct {
	Name  string `yaml:"name" toml:"name"`
	Email string `yaml:"email" toml:"email" validate:"omitempty,email"`
}

type participantFile struct {
	Name    string   `yaml:"name" toml:"name" validate:"required"`
	Email   string   `yaml:"email" toml:"email" validate:"omitempty,email"`
	Spouse  string   `yaml:"spouse" toml:"spouse"`
	Exclude []string `yaml:"exclude" toml:"exclude"`
}

// RosterLoader reads rosters from YAML (.yaml, .yml) or TOML (.toml) files.
type RosterLoader struct{}

// NewRosterLoader creates a roster loader.
func NewRosterLoader() *RosterLoader {
	return &RosterLoader{}
}

// Load reads, decodes and validates the roster at path.
func (l *RosterLoader) Load(path string) (*domain.Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("roster %s: %w", path, domain.ErrNotFound)
		}
		return nil, err
	}

	var raw rosterFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse roster %s: %w: %w", path, domain.ErrInvalidInput, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse roster %s: %w: %w", path, domain.ErrInvalidInput, err)
		}
	default:
		return nil, fmt.Errorf("roster %s: unsupported format %q: %w", path, ext, domain.ErrInvalidInput)
	}

	raw.trim()
	if err := validate.Struct(raw); err != nil {
		return nil, fmt.Errorf("invalid roster %s: %w: %s", path, domain.ErrInvalidInput, describe(err))
	}

	return raw.toDomain(), nil
}

func (r *rosterFile) trim() {
	r.Title = strings.TrimSpace(r.Title)
	r.Organizer.Name = strings.TrimSpace(r.Organizer.Name)
	r.Organizer.Email = strings.TrimSpace(r.Organizer.Email)
	for i := range r.Participants {
		p := &r.Participants[i]
		p.Name = strings.TrimSpace(p.Name)
		p.Email = strings.TrimSpace(p.Email)
		p.Spouse = strings.TrimSpace(p.Spouse)
	}
}

func (r *rosterFile) toDomain() *domain.Roster {
	participants := make([]domain.Participant, 0, len(r.Participants))
	for _, p := range r.Participants {
		participants = append(participants, domain.Participant{
			Name:    p.Name,
			Email:   p.Email,
			Spouse:  p.Spouse,
			Exclude: p.Exclude,
		})
	}

	return &domain.Roster{
		Title: r.Title,
		Organizer: domain.Organizer{
			Name:  r.Organizer.Name,
			Email: r.Organizer.Email,
		},
		Participants: participants,
	}
}

// describe turns validator errors into "participants[2].email: email" form.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "rosterFile.")
		msgs = append(msgs, fmt.Sprintf("%s: %s", strings.ToLower(field), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
