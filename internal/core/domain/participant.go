package domain

import "strings"

// Participant is a player in the gift exchange.
// Participants are loaded once from the roster and never mutated during a draw.
type Participant struct {
	// Name is the display name and the identity key. Compared case-insensitively.
	Name string

	// Email is the contact address. Empty means the participant cannot be
	// notified personally, but still takes part in the draw.
	Email string

	// Spouse names another participant this one must not be paired with.
	// Empty means no spouse constraint.
	Spouse string

	// Exclude lists further names this participant must not be paired with.
	Exclude []string
}

// Key returns the case-normalised name used for equality and map keys.
func (p Participant) Key() string {
	return NameKey(p.Name)
}

// SameAs reports whether p and other are the same participant by name.
func (p Participant) SameAs(other Participant) bool {
	return p.Key() == other.Key()
}

// HasSpouse reports whether a spouse is recorded.
func (p Participant) HasSpouse() bool {
	return strings.TrimSpace(p.Spouse) != ""
}

// HasEmail reports whether the participant can receive a personal notification.
func (p Participant) HasEmail() bool {
	return strings.TrimSpace(p.Email) != ""
}

// IsSpouseOf reports whether p records other as its spouse.
// Only p's side is consulted; see Excludes for the symmetric check.
func (p Participant) IsSpouseOf(other Participant) bool {
	return p.HasSpouse() && NameKey(p.Spouse) == other.Key()
}

// Excludes reports whether p lists other in its exclusion list.
func (p Participant) Excludes(other Participant) bool {
	key := other.Key()
	for _, name := range p.Exclude {
		if NameKey(name) == key {
			return true
		}
	}
	return false
}

// String returns the participant's name.
func (p Participant) String() string {
	return p.Name
}

// NameKey normalises a name for comparison.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Names returns the display names of participants in order.
func Names(participants []Participant) []string {
	names := make([]string, len(participants))
	for i, p := range participants {
		names[i] = p.Name
	}
	return names
}
