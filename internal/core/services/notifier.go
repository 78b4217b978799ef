package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/santa-cli/internal/core/domain"
	"github.com/custodia-labs/santa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/santa-cli/internal/logger"
)

// Notifier tells each giver their receiver and sends the organizer the master list.
type Notifier struct {
	renderer driven.Renderer
	mailer   driven.Mailer
	from     string
	now      func() time.Time
}

// NewNotifier creates a notifier sending from the given address.
func NewNotifier(renderer driven.Renderer, mailer driven.Mailer, from string) *Notifier {
	return &Notifier{
		renderer: renderer,
		mailer:   mailer,
		from:     from,
		now:      time.Now,
	}
}

// Notify renders every message first and only then starts sending, so a
// template error sends nothing. Delivery failures do not stop the run; they
// are recorded in the report and joined into the returned error.
func (n *Notifier) Notify(
	ctx context.Context, roster domain.Roster, pairing domain.Pairing,
) (*domain.NotificationReport, error) {
	if n.mailer == nil {
		return nil, domain.ErrMailerUnavailable
	}

	logger.Section("Notification")
	report := &domain.NotificationReport{Failed: map[string]string{}}
	meta := domain.MessageMeta{
		Title:     roster.DisplayTitle(),
		Year:      n.now().Year(),
		Organizer: roster.Organizer,
	}

	// Givers may share a mailbox, so deliveries are tracked by giver name.
	type delivery struct {
		giver string
		msg   domain.Message
	}

	var outgoing []delivery
	for _, pair := range pairing {
		if !pair.Giver.HasEmail() {
			logger.Warn("%s has no email address, skipping", pair.Giver.Name)
			report.Skipped = append(report.Skipped, pair.Giver.Name)
			continue
		}
		msg, err := n.renderer.RenderSanta(pair, meta)
		if err != nil {
			return nil, fmt.Errorf("render message for %s: %w", pair.Giver.Name, err)
		}
		msg.To = pair.Giver.Email
		outgoing = append(outgoing, delivery{giver: pair.Giver.Name, msg: msg})
	}

	masterTo := roster.Organizer.Email
	if masterTo == "" {
		masterTo = n.from
	}
	var master *domain.Message
	if masterTo != "" {
		msg, err := n.renderer.RenderMaster(pairing, meta)
		if err != nil {
			return nil, fmt.Errorf("render master list: %w", err)
		}
		msg.To = masterTo
		master = &msg
	} else {
		logger.Warn("No organizer address, master list not sent")
	}

	var errs []error
	for _, d := range outgoing {
		if err := n.send(ctx, d.msg); err != nil {
			report.Failed[d.giver] = err.Error()
			errs = append(errs, fmt.Errorf("send to %s <%s>: %w", d.giver, d.msg.To, err))
			continue
		}
		report.Sent = append(report.Sent, d.giver)
	}

	if master != nil {
		if err := n.send(ctx, *master); err != nil {
			report.MasterListError = err.Error()
			errs = append(errs, fmt.Errorf("send master list to %s: %w", master.To, err))
		} else {
			report.MasterListSent = true
		}
	}

	return report, errors.Join(errs...)
}

func (n *Notifier) send(ctx context.Context, msg domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.From == "" {
		msg.From = n.from
	}
	logger.Debug("Sending %q to %s", msg.Subject, msg.To)
	return n.mailer.Send(ctx, msg)
}
