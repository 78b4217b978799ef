package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoValidRecipient indicates a giver could not be matched with any
	// remaining recipient. A new randomised run may still succeed.
	ErrNoValidRecipient = errors.New("no valid recipient")

	// ErrInvalidPairing indicates a pairing breaks a completeness or
	// constraint invariant.
	ErrInvalidPairing = errors.New("invalid pairing")

	// Notification Errors.

	// ErrMailerUnavailable indicates no mail transport is configured.
	ErrMailerUnavailable = errors.New("mailer unavailable")

	// ErrTemplateNotFound indicates a notification template could not be loaded.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrMissingRecipientAddress indicates a message has no destination address.
	ErrMissingRecipientAddress = errors.New("missing recipient address")
)

// NoValidRecipientError reports a giver for whom every candidate was rejected.
// Candidates is the shuffled, giver-free ordering that was scanned.
type NoValidRecipientError struct {
	Giver      Participant
	Candidates []Participant
}

// Error implements error.
func (e *NoValidRecipientError) Error() string {
	return fmt.Sprintf("giver %s cannot be matched with any of the recipients: [%s]",
		e.Giver.Name, strings.Join(Names(e.Candidates), ", "))
}

// Is makes errors.Is(err, ErrNoValidRecipient) hold.
func (e *NoValidRecipientError) Is(target error) bool {
	return target == ErrNoValidRecipient
}
