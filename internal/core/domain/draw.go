package domain

import "time"

// DefaultTitle is the game title used when the roster does not name one.
const DefaultTitle = "Secret Santa"

// Organizer runs the game and receives the master list.
type Organizer struct {
	Name  string
	Email string
}

// Roster is the loaded game definition.
type Roster struct {
	// Title names the game in notification subjects.
	Title string

	// Organizer receives the master list. Optional.
	Organizer Organizer

	// Participants in roster order.
	Participants []Participant
}

// DisplayTitle returns the roster title or DefaultTitle.
func (r Roster) DisplayTitle() string {
	if r.Title == "" {
		return DefaultTitle
	}
	return r.Title
}

// DrawOptions controls a single draw.
type DrawOptions struct {
	// Seed fixes the random stream. Zero means seed from the clock.
	Seed int64

	// Attempts is the number of whole-run retries before giving up.
	// Values below 1 use the configured default.
	Attempts int

	// DryRun computes a pairing without storing or notifying.
	DryRun bool

	// SkipNotify stores the draw but sends nothing.
	SkipNotify bool

	// AvoidRepeats forbids each giver's receiver from the previous stored draw.
	AvoidRepeats bool
}

// Draw is a completed pairing run.
type Draw struct {
	// ID is the unique identifier for the draw.
	ID string

	// Title is the game title at the time of the draw.
	Title string

	// Seed is the seed that produced the pairing.
	Seed int64

	// Attempts is how many runs it took to find the pairing.
	Attempts int

	// Pairing holds the assignments.
	Pairing Pairing

	// CreatedAt is when the draw was made.
	CreatedAt time.Time
}

// DrawResult is returned by the draw service.
type DrawResult struct {
	Draw Draw

	// Stored is true when the draw was persisted.
	Stored bool

	// Report is nil when notification was skipped.
	Report *NotificationReport
}
