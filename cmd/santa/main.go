package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/santa-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/santa-cli/internal/adapters/driven/mail/outbox"
	"github.com/custodia-labs/santa-cli/internal/adapters/driven/mail/smtp"
	"github.com/custodia-labs/santa-cli/internal/adapters/driven/render"
	"github.com/custodia-labs/santa-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/santa-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/santa-cli/internal/core/domain"
	"github.com/custodia-labs/santa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/santa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/santa-cli/internal/core/services"
	"github.com/custodia-labs/santa-cli/internal/logger"
)

// outboxSender is the From address for .eml files when mail.from is unset.
const outboxSender = "santa@localhost"

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is normal; the password may come from config or a prompt.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to load .env: %v", err)
	}

	cli.SetVersion(version)
	cli.SetWiring(wire)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// wire builds the services for configDir (~/.santa when empty).
func wire(configDir string) (*cli.Services, error) {
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config directory: %w", err)
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		return nil, fmt.Errorf("opening draw history: %w", err)
	}

	return &cli.Services{
		Settings: services.NewSettingsService(configStore),
		Rosters:  file.NewRosterLoader(),
		Draws: func(settings domain.AppSettings, notify bool) (driving.DrawService, error) {
			var notifier *services.Notifier
			if notify {
				n, err := newNotifier(settings)
				if err != nil {
					return nil, err
				}
				notifier = n
			}
			return services.NewDrawService(store, notifier, settings.Draw.Attempts), nil
		},
		Close: store.Close,
	}, nil
}

func newNotifier(settings domain.AppSettings) (*services.Notifier, error) {
	renderer, err := render.NewRenderer(settings.Templates.Dir, settings.Templates.Santa, settings.Templates.Master)
	if err != nil {
		return nil, err
	}

	mailer, err := newMailer(settings.Mail)
	if err != nil {
		return nil, err
	}

	from := settings.Mail.From
	if from == "" && settings.Mail.Transport == domain.MailTransportOutbox {
		from = outboxSender
	}
	return services.NewNotifier(renderer, mailer, from), nil
}

func newMailer(mail domain.MailSettings) (driven.Mailer, error) {
	switch mail.Transport {
	case domain.MailTransportOutbox:
		return outbox.NewMailer(mail.OutboxDir)
	case domain.MailTransportSMTP:
		if !mail.IsConfigured() {
			return nil, fmt.Errorf("%w: set mail.host and mail.from, or use --outbox", domain.ErrMailerUnavailable)
		}
		return smtp.NewMailer(smtp.ConfigFromSettings(mail))
	default:
		return nil, fmt.Errorf("%w: unknown transport %q", domain.ErrMailerUnavailable, mail.Transport)
	}
}
