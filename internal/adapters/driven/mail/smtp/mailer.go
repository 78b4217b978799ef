package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	gosmtp "net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/custodia-labs/santa-cli/internal/adapters/driven/mail"
	"github.com/custodia-labs/santa-cli/internal/core/domain"
	"github.com/custodia-labs/santa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/santa-cli/internal/logger"
)

// Ensure Mailer implements the interface.
var _ driven.Mailer = (*Mailer)(nil)

const dialTimeout = 30 * time.Second

// Config holds the SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string

	// RatePerSecond caps delivery speed. Zero disables the limit.
	RatePerSecond float64
}

// ConfigFromSettings maps mail settings onto Config.
func ConfigFromSettings(s domain.MailSettings) Config {
	return Config{
		Host:          s.Host,
		Port:          s.Port,
		Username:      s.Username,
		Password:      s.Password,
		RatePerSecond: s.RatePerSecond,
	}
}

// deliverFunc hands a fully encoded message to the server at addr.
type deliverFunc func(ctx context.Context, cfg Config, from string, to []string, data []byte) error

// Mailer sends messages through an SMTP relay.
type Mailer struct {
	cfg     Config
	limiter *RateLimiter
	deliver deliverFunc
	now     func() time.Time
}

// NewMailer creates an SMTP mailer.
func NewMailer(cfg Config) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: mail.host is not set", domain.ErrMailerUnavailable)
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}

	return &Mailer{
		cfg:     cfg,
		limiter: NewRateLimiter(cfg.RatePerSecond, 1),
		deliver: deliver,
		now:     time.Now,
	}, nil
}

// Send encodes and delivers one message.
func (m *Mailer) Send(ctx context.Context, msg domain.Message) error {
	from, err := mail.Address(msg.From)
	if err != nil {
		return err
	}
	to, err := mail.Address(msg.To)
	if err != nil {
		return err
	}

	data, err := mail.Encode(msg, m.now())
	if err != nil {
		return err
	}

	if err := m.limiter.Wait(ctx); err != nil {
		return err
	}

	logger.Debug("smtp: sending %q to %s via %s:%d", msg.Subject, to, m.cfg.Host, m.cfg.Port)
	if err := m.deliver(ctx, m.cfg, from, []string{to}, data); err != nil {
		if isTransient(err) {
			logger.Warn("smtp: transient failure for %s, backing off: %v", to, err)
			m.limiter.Backoff(0)
		}
		return fmt.Errorf("send to %s: %w", to, err)
	}
	return nil
}

// isTransient reports whether err is a 4xx SMTP reply.
func isTransient(err error) bool {
	var tpErr *textproto.Error
	return errors.As(err, &tpErr) && tpErr.Code >= 400 && tpErr.Code < 500
}

// deliver runs one SMTP session: STARTTLS if offered, PLAIN auth if configured.
func deliver(ctx context.Context, cfg Config, from string, to []string, data []byte) error {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := gosmtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if cfg.Username != "" {
		auth := gosmtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}
