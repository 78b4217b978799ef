package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMailTransport_IsValid(t *testing.T) {
	assert.True(t, MailTransportSMTP.IsValid())
	assert.True(t, MailTransportOutbox.IsValid())
	assert.False(t, MailTransport("carrier-pigeon").IsValid())
	assert.False(t, MailTransport("").IsValid())
}

func TestMailSettings_Address(t *testing.T) {
	m := MailSettings{Host: "smtp.example.com", Port: 587}
	assert.Equal(t, "smtp.example.com:587", m.Address())
}

func TestMailSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name string
		mail MailSettings
		want bool
	}{
		{"smtp complete", MailSettings{Transport: MailTransportSMTP, Host: "h", Port: 25, From: "f@x.org"}, true},
		{"smtp missing host", MailSettings{Transport: MailTransportSMTP, Port: 25, From: "f@x.org"}, false},
		{"smtp missing from", MailSettings{Transport: MailTransportSMTP, Host: "h", Port: 25}, false},
		{"smtp zero port", MailSettings{Transport: MailTransportSMTP, Host: "h", From: "f@x.org"}, false},
		{"outbox with dir", MailSettings{Transport: MailTransportOutbox, OutboxDir: "/tmp/out"}, true},
		{"outbox without dir", MailSettings{Transport: MailTransportOutbox}, false},
		{"unknown transport", MailSettings{Transport: "fax"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mail.IsConfigured())
		})
	}
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, MailTransportSMTP, s.Mail.Transport)
	assert.Equal(t, 587, s.Mail.Port)
	assert.False(t, s.Mail.IsConfigured())
	assert.Equal(t, 25, s.Draw.Attempts)
	assert.False(t, s.Draw.AvoidRepeats)
	assert.Equal(t, "santa.tmpl", s.Templates.Santa)
	assert.Equal(t, "master.tmpl", s.Templates.Master)
}

func TestRoster_DisplayTitle(t *testing.T) {
	assert.Equal(t, DefaultTitle, Roster{}.DisplayTitle())
	assert.Equal(t, "Farmer Family Secret Santa", Roster{Title: "Farmer Family Secret Santa"}.DisplayTitle())
}

func TestNotificationReport_OK(t *testing.T) {
	var nilReport *NotificationReport
	assert.False(t, nilReport.OK())

	assert.True(t, (&NotificationReport{}).OK())
	assert.False(t, (&NotificationReport{Failed: map[string]string{"Alice": "boom"}}).OK())
	assert.False(t, (&NotificationReport{MasterListError: "boom"}).OK())
}
