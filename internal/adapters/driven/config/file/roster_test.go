package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/santa-cli/internal/core/domain"
)

func writeRoster(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const yamlRoster = `
title: Farmer Family Secret Santa
organizer:
  name: Grandma
  email: grandma@example.com
participants:
  - name: Alice
    email: alice@example.com
    spouse: Bob
  - name: Bob
    email: bob@example.com
    spouse: Alice
  - name: Carol
    email: carol@example.com
    spouse: null
    exclude: [Dave]
  - name: " Dave "
`

func TestRosterLoader_LoadYAML(t *testing.T) {
	path := writeRoster(t, "family.yaml", yamlRoster)

	roster, err := NewRosterLoader().Load(path)

	require.NoError(t, err)
	assert.Equal(t, "Farmer Family Secret Santa", roster.Title)
	assert.Equal(t, domain.Organizer{Name: "Grandma", Email: "grandma@example.com"}, roster.Organizer)
	require.Len(t, roster.Participants, 4)

	assert.Equal(t, domain.Participant{Name: "Alice", Email: "alice@example.com", Spouse: "Bob"}, roster.Participants[0])
	assert.Equal(t, "", roster.Participants[2].Spouse)
	assert.Equal(t, []string{"Dave"}, roster.Participants[2].Exclude)
	assert.Equal(t, "Dave", roster.Participants[3].Name)
	assert.False(t, roster.Participants[3].HasEmail())
}

func TestRosterLoader_LoadYML(t *testing.T) {
	path := writeRoster(t, "office.yml", "participants:\n  - name: A\n  - name: B\n")

	roster, err := NewRosterLoader().Load(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, domain.Names(roster.Participants))
	assert.Equal(t, domain.DefaultTitle, roster.DisplayTitle())
}

func TestRosterLoader_LoadTOML(t *testing.T) {
	content := `
title = "Office Exchange"

[organizer]
email = "hr@example.com"

[[participants]]
name = "Alice"
email = "alice@example.com"
spouse = "Bob"

[[participants]]
name = "Bob"
email = "bob@example.com"
spouse = "Alice"

[[participants]]
name = "Carol"
exclude = ["Alice"]
`
	path := writeRoster(t, "office.TOML", content)

	roster, err := NewRosterLoader().Load(path)

	require.NoError(t, err)
	assert.Equal(t, "Office Exchange", roster.Title)
	assert.Equal(t, "hr@example.com", roster.Organizer.Email)
	require.Len(t, roster.Participants, 3)
	assert.Equal(t, "Bob", roster.Participants[0].Spouse)
	assert.Equal(t, "", roster.Participants[2].Spouse)
	assert.Equal(t, []string{"Alice"}, roster.Participants[2].Exclude)
}

func TestRosterLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"no participants", "r.yaml", "title: Empty\n", "participants"},
		{"empty participants", "r.yaml", "participants: []\n", "participants"},
		{"missing name", "r.yaml", "participants:\n  - email: a@example.com\n", "participants[0].name: required"},
		{"blank name", "r.yaml", "participants:\n  - name: '  '\n", "participants[0].name: required"},
		{"bad email", "r.yaml", "participants:\n  - name: A\n    email: not-an-email\n", "participants[0].email: email"},
		{"bad organizer email", "r.yaml", "organizer:\n  email: nope\nparticipants:\n  - name: A\n", "organizer.email: email"},
		{"unknown yaml field", "r.yaml", "participants:\n  - name: A\n    partner: B\n", "partner"},
		{"malformed yaml", "r.yaml", "participants: [\n", "parse roster"},
		{"unknown toml field", "r.toml", "[[participants]]\nname = \"A\"\nage = 3\n", "parse roster"},
		{"unsupported extension", "r.json", "{}", "unsupported format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRoster(t, tt.file, tt.content)

			_, err := NewRosterLoader().Load(path)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRosterLoader_MissingFile(t *testing.T) {
	_, err := NewRosterLoader().Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
