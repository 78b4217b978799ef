// Package mail holds the RFC 5322 message encoding shared by the mailers.
//
// Subpackages:
//   - smtp: delivers over SMTP with STARTTLS, rate limited
//   - outbox: writes .eml files to a directory instead of sending
package mail
