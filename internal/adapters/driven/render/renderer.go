package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"

	"github.com/custodia-labs/santa-cli/internal/core/domain"
	"github.com/custodia-labs/santa-cli/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.Renderer = (*Renderer)(nil)

// Default template names.
const (
	SantaTemplate  = "santa.tmpl"
	MasterTemplate = "master.tmpl"
)

//go:embed templates/*.tmpl
var embedded embed.FS

// Renderer renders notification messages from text templates.
type Renderer struct {
	santa  *template.Template
	master *template.Template
}

type santaData struct {
	Giver     domain.Participant
	Receiver  domain.Participant
	Title     string
	Year      int
	Organizer domain.Organizer
}

type masterData struct {
	Pairs     []string
	Title     string
	Year      int
	Organizer domain.Organizer
}

// NewRenderer parses the santa and master templates. dir may be empty.
// Empty names use SantaTemplate and MasterTemplate.
func NewRenderer(dir, santaName, masterName string) (*Renderer, error) {
	if santaName == "" {
		santaName = SantaTemplate
	}
	if masterName == "" {
		masterName = MasterTemplate
	}

	santa, err := load(dir, santaName)
	if err != nil {
		return nil, err
	}
	master, err := load(dir, masterName)
	if err != nil {
		return nil, err
	}

	return &Renderer{santa: santa, master: master}, nil
}

// RenderSanta renders the message for one giver.
func (r *Renderer) RenderSanta(pair domain.Pair, meta domain.MessageMeta) (domain.Message, error) {
	body, err := execute(r.santa, santaData{
		Giver:     pair.Giver,
		Receiver:  pair.Receiver,
		Title:     meta.Title,
		Year:      meta.Year,
		Organizer: meta.Organizer,
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("render message for %s: %w", pair.Giver.Name, err)
	}

	return domain.Message{
		Subject: fmt.Sprintf("Your %d %s Match", meta.Year, meta.Title),
		Body:    body,
	}, nil
}

// RenderMaster renders the organizer's master list.
func (r *Renderer) RenderMaster(pairing domain.Pairing, meta domain.MessageMeta) (domain.Message, error) {
	body, err := execute(r.master, masterData{
		Pairs:     pairing.Lines(),
		Title:     meta.Title,
		Year:      meta.Year,
		Organizer: meta.Organizer,
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("render master list: %w", err)
	}

	return domain.Message{
		Subject: fmt.Sprintf("%d %s Master List", meta.Year, meta.Title),
		Body:    body,
	}, nil
}

// load parses name from dir, falling back to the embedded copy.
func load(dir, name string) (*template.Template, error) {
	if dir != "" {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			return parse(name, data)
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("reading template %s: %w", path, err)
		}
	}

	data, err := embedded.ReadFile("templates/" + name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, name)
	}
	return parse(name, data)
}

func parse(name string, data []byte) (*template.Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	return tmpl, nil
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
