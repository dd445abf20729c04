package jobs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/db/tables"
	"github.com/kinfolkhq/kinfolk/events"
	"github.com/kinfolkhq/kinfolk/events/event"
	"github.com/kinfolkhq/kinfolk/mailing"
	"go.uber.org/zap"
)

const (
	// drainBatchSize bounds a single drain run
	drainBatchSize = 50
	// maxAttempts is how often a mail is tried before it is given up on
	maxAttempts = 3
	// baseRetryDelay doubles with every failed attempt
	baseRetryDelay = time.Minute
)

// OutboxStorer is the persistence surface of the outbox drain
type OutboxStorer interface {
	DueEmails(
		ctx context.Context,
		now time.Time,
		maxAttempts int,
		limit int,
	) ([]*tables.EmailOutboxTable, error)
	MarkEmailSent(ctx context.Context, id int64) error
	MarkEmailFailed(
		ctx context.Context,
		id int64,
		attempts int,
		nextAttempt time.Time,
		lastError string,
	) error
	DropOutboxEntry(ctx context.Context, id int64) error
	InvitationByID(ctx context.Context, id int64) (*tables.InvitationTable, error)
	FamilyByID(ctx context.Context, id int64) (*tables.FamilyTable, error)
	UserByID(ctx context.Context, id uuid.UUID) (*tables.UserTable, error)
}

// InviteMailSender is the slice of the mailer the drain needs
type InviteMailSender interface {
	SendInviteMail(data mailing.InviteMailData) error
	SendReminderMail(data mailing.InviteMailData) error
}

// Dispatcher used to dispatch events
type Dispatcher interface {
	Dispatch(ctx context.Context, ev events.Event)
}

// OutboxDrain picks up due outbox entries and hands them to the mailer,
// delivery is retried with a doubling delay until maxAttempts is reached
type OutboxDrain struct {
	store      OutboxStorer
	mailer     InviteMailSender
	log        *zap.Logger
	dispatcher Dispatcher
	locale     string
}

func NewOutboxDrain(
	store OutboxStorer,
	mailer InviteMailSender,
	log *zap.Logger,
	dispatcher Dispatcher,
	locale string,
) *OutboxDrain {
	return &OutboxDrain{
		store:      store,
		mailer:     mailer,
		log:        log,
		dispatcher: dispatcher,
		locale:     locale,
	}
}

// retryBackoff is 1m, 2m, 4m counted from the failed attempt
func retryBackoff(attempts int) time.Duration {
	return baseRetryDelay << (attempts - 1)
}

// Drain processes one batch of due entries, a single broken mail never
// stops the rest of the batch
func (o *OutboxDrain) Drain(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	due, err := o.store.DueEmails(ctx, now, maxAttempts, drainBatchSize)
	if err != nil {
		o.log.Error("unable to load due outbox entries", zap.Error(err))
		return 0, err
	}
	sent := 0
	for _, entry := range due {
		if err := o.process(ctx, entry, now); err != nil {
			o.log.Warn(
				"outbox entry could not be delivered",
				zap.Int64("outbox_id", entry.ID),
				zap.String("kind", entry.Kind),
				zap.Error(err),
			)
			continue
		}
		sent++
	}
	return sent, nil
}

func (o *OutboxDrain) process(ctx context.Context, entry *tables.EmailOutboxTable, now time.Time) error {
	inv, err := o.store.InvitationByID(ctx, entry.InvitationID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return o.store.DropOutboxEntry(ctx, entry.ID)
		}
		return err
	}
	// the invitation may have moved on since the mail was queued,
	// a cancelled or accepted invite gets no mail
	if inv.Status != db.InvitationStatusPending || inv.ArchivedAt != nil ||
		!inv.ExpiresAt.After(now) {
		o.log.Debug(
			"dropping stale outbox entry",
			zap.Int64("outbox_id", entry.ID),
			zap.String("status", inv.Status),
		)
		return o.store.DropOutboxEntry(ctx, entry.ID)
	}
	data, err := o.mailData(ctx, inv)
	if err != nil {
		return err
	}
	switch entry.Kind {
	case db.OutboxKindInvite:
		err = o.mailer.SendInviteMail(*data)
	case db.OutboxKindReminder:
		err = o.mailer.SendReminderMail(*data)
	default:
		o.log.Error("unknown outbox kind", zap.String("kind", entry.Kind))
		return o.store.DropOutboxEntry(ctx, entry.ID)
	}
	if err != nil {
		return o.recordFailure(ctx, entry, inv, now, err)
	}
	if err := o.store.MarkEmailSent(ctx, entry.ID); err != nil {
		return err
	}
	switch entry.Kind {
	case db.OutboxKindInvite:
		o.dispatcher.Dispatch(ctx, &event.EmailInviteSent{
			InvitationID: inv.PublicID,
			Email:        inv.Email,
			Sent:         now,
		})
	case db.OutboxKindReminder:
		o.dispatcher.Dispatch(ctx, &event.EmailReminderSent{
			InvitationID: inv.PublicID,
			Email:        inv.Email,
			Sent:         now,
		})
	}
	return nil
}

func (o *OutboxDrain) recordFailure(
	ctx context.Context,
	entry *tables.EmailOutboxTable,
	inv *tables.InvitationTable,
	now time.Time,
	sendErr error,
) error {
	attempts := entry.Attempts + 1
	next := now.Add(retryBackoff(attempts))
	if err := o.store.MarkEmailFailed(ctx, entry.ID, attempts, next, sendErr.Error()); err != nil {
		return err
	}
	if attempts >= maxAttempts {
		o.dispatcher.Dispatch(ctx, &event.EmailDeliveryFailed{
			InvitationID: inv.PublicID,
			Kind:         entry.Kind,
			Attempts:     attempts,
			LastError:    sendErr.Error(),
		})
	}
	return sendErr
}

func (o *OutboxDrain) mailData(
	ctx context.Context,
	inv *tables.InvitationTable,
) (*mailing.InviteMailData, error) {
	family, err := o.store.FamilyByID(ctx, inv.FamilyID)
	if err != nil {
		return nil, err
	}
	inviter := ""
	user, err := o.store.UserByID(ctx, inv.InvitedBy)
	if err == nil {
		inviter = userDisplayName(user)
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}
	return &mailing.InviteMailData{
		Email:       inv.Email,
		Token:       inv.Token,
		FamilyName:  family.Name,
		InviterName: inviter,
		Message:     inv.Message,
		ExpiresAt:   inv.ExpiresAt,
		Language:    o.locale,
	}, nil
}

func userDisplayName(u *tables.UserTable) string {
	parts := make([]string, 0, 2)
	if u.FirstName != nil && *u.FirstName != "" {
		parts = append(parts, *u.FirstName)
	}
	if u.LastName != nil && *u.LastName != "" {
		parts = append(parts, *u.LastName)
	}
	if len(parts) == 0 {
		return u.Email
	}
	return strings.Join(parts, " ")
}
