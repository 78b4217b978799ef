// Package smtp implements driven.Mailer over SMTP.
//
// Each message opens its own connection, upgrades with STARTTLS when the
// server offers it and authenticates with PLAIN when a username is set.
// Sends are paced by a token bucket; transient 4xx replies trigger a backoff
// before the next message.
package smtp
