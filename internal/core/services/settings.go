package services

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/custodia-labs/santa-cli/internal/core/domain"
	"github.com/custodia-labs/santa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/santa-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyMailTransport = "mail.transport"
	keyMailHost      = "mail.host"
	keyMailPort      = "mail.port"
	keyMailUsername  = "mail.username"
	keyMailPassword  = "mail.password"
	keyMailFrom      = "mail.from"
	keyMailOutbox    = "mail.outbox_dir"
	keyMailRate      = "mail.rate_per_second"
	keyDrawAttempts  = "draw.attempts"
	keyDrawAvoid     = "draw.avoid_repeats"
	keyTemplateDir   = "templates.dir"
	keyTemplateSanta = "templates.santa"
	keyTemplateMast  = "templates.master"
)

// settingKind describes how a string value from the CLI is converted.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindBool
	kindTransport
)

var settingKinds = map[string]settingKind{
	keyMailTransport: kindTransport,
	keyMailHost:      kindString,
	keyMailPort:      kindInt,
	keyMailUsername:  kindString,
	keyMailPassword:  kindString,
	keyMailFrom:      kindString,
	keyMailOutbox:    kindString,
	keyMailRate:      kindFloat,
	keyDrawAttempts:  kindInt,
	keyDrawAvoid:     kindBool,
	keyTemplateDir:   kindString,
	keyTemplateSanta: kindString,
	keyTemplateMast:  kindString,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Mail: domain.MailSettings{
			Transport:     s.getTransport(defaults.Mail.Transport),
			Host:          s.configStore.GetString(keyMailHost),
			Port:          s.getInt(keyMailPort, defaults.Mail.Port),
			Username:      s.configStore.GetString(keyMailUsername),
			Password:      s.configStore.GetString(keyMailPassword),
			From:          s.configStore.GetString(keyMailFrom),
			OutboxDir:     s.configStore.GetString(keyMailOutbox),
			RatePerSecond: s.getFloat(keyMailRate, defaults.Mail.RatePerSecond),
		},
		Draw: domain.DrawSettings{
			Attempts:     s.getInt(keyDrawAttempts, defaults.Draw.Attempts),
			AvoidRepeats: s.getBool(keyDrawAvoid, defaults.Draw.AvoidRepeats),
		},
		Templates: domain.TemplateSettings{
			Dir:    s.configStore.GetString(keyTemplateDir),
			Santa:  s.getString(keyTemplateSanta, defaults.Templates.Santa),
			Master: s.getString(keyTemplateMast, defaults.Templates.Master),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyMailTransport, settings.Mail.Transport.String()},
		{keyMailHost, settings.Mail.Host},
		{keyMailPort, settings.Mail.Port},
		{keyMailUsername, settings.Mail.Username},
		{keyMailFrom, settings.Mail.From},
		{keyMailOutbox, settings.Mail.OutboxDir},
		{keyMailRate, settings.Mail.RatePerSecond},
		{keyDrawAttempts, settings.Draw.Attempts},
		{keyDrawAvoid, settings.Draw.AvoidRepeats},
		{keyTemplateDir, settings.Templates.Dir},
		{keyTemplateSanta, settings.Templates.Santa},
		{keyTemplateMast, settings.Templates.Master},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Only overwrite a stored password when a new one is given
	if settings.Mail.Password != "" {
		if err := s.configStore.Set(keyMailPassword, settings.Mail.Password); err != nil {
			return fmt.Errorf("save %s: %w", keyMailPassword, err)
		}
	}

	return nil
}

// Set converts value to the key's type and stores it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var stored any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		stored = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidInput, key)
		}
		stored = f
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		stored = b
	case kindTransport:
		t := domain.MailTransport(value)
		if !t.IsValid() {
			return fmt.Errorf("%w: unknown mail transport %q", domain.ErrInvalidInput, value)
		}
		stored = t.String()
	default:
		stored = value
	}

	return s.configStore.Set(key, stored)
}

// Keys returns the recognised setting keys, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks that mail delivery is usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Mail.IsConfigured() {
		switch settings.Mail.Transport {
		case domain.MailTransportOutbox:
			return fmt.Errorf("outbox transport requires %s", keyMailOutbox)
		default:
			return fmt.Errorf("smtp transport requires %s, %s and %s", keyMailHost, keyMailPort, keyMailFrom)
		}
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getTransport(defaultVal domain.MailTransport) domain.MailTransport {
	t := domain.MailTransport(s.configStore.GetString(keyMailTransport))
	if t.IsValid() {
		return t
	}
	return defaultVal
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if val := s.configStore.GetFloat(key); val > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetBool(key)
	}
	return defaultVal
}
