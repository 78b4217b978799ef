package domain

import "fmt"

// MailTransport selects how notifications leave the machine.
type MailTransport string

// Available mail transports.
const (
	// MailTransportSMTP delivers through an SMTP relay.
	MailTransportSMTP MailTransport = "smtp"

	// MailTransportOutbox writes .eml files to a directory.
	MailTransportOutbox MailTransport = "outbox"
)

// IsValid returns true if the transport is recognised.
func (t MailTransport) IsValid() bool {
	switch t {
	case MailTransportSMTP, MailTransportOutbox:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t MailTransport) String() string {
	return string(t)
}

// MailSettings configures outgoing notifications.
type MailSettings struct {
	// Transport selects the delivery adapter.
	Transport MailTransport

	// Host is the SMTP relay host.
	Host string

	// Port is the SMTP relay port.
	Port int

	// Username authenticates against the relay.
	Username string

	// Password authenticates against the relay.
	Password string

	// From is the sender address. Also the master list destination when the
	// roster names no organizer email.
	From string

	// OutboxDir is where the outbox transport writes messages.
	OutboxDir string

	// RatePerSecond throttles SMTP sends.
	RatePerSecond float64
}

// Address returns host:port.
func (m MailSettings) Address() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// IsConfigured returns true if the transport has what it needs to deliver.
func (m MailSettings) IsConfigured() bool {
	switch m.Transport {
	case MailTransportSMTP:
		return m.Host != "" && m.Port > 0 && m.From != ""
	case MailTransportOutbox:
		return m.OutboxDir != ""
	default:
		return false
	}
}

// DrawSettings configures the matcher.
type DrawSettings struct {
	// Attempts is the default whole-run retry budget.
	Attempts int

	// AvoidRepeats enables the previous-receiver rule by default.
	AvoidRepeats bool
}

// TemplateSettings points at custom notification templates.
type TemplateSettings struct {
	// Dir overrides the embedded templates when set.
	Dir string

	// Santa is the per-giver template file name.
	Santa string

	// Master is the organizer master list template file name.
	Master string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Mail      MailSettings
	Draw      DrawSettings
	Templates TemplateSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Mail is left unconfigured; users set host and sender via settings.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Mail: MailSettings{
			Transport:     MailTransportSMTP,
			Port:          587,
			RatePerSecond: 1.0,
		},
		Draw: DrawSettings{
			Attempts: 25,
		},
		Templates: TemplateSettings{
			Santa:  "santa.tmpl",
			Master: "master.tmpl",
		},
	}
}
