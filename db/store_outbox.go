package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/kinfolkhq/kinfolk/db/tables"
)

// Outbox mail kinds
const (
	OutboxKindInvite   = "invite"
	OutboxKindReminder = "reminder"
)

var outboxColumns = []string{
	"id", "kind", "invitation_id", "attempts", "next_attempt_at",
	"sent_at", "last_error", "created_at",
}

// EnqueueEmail queues a mail for the outbox drain, due immediately
func (d *DataStore) EnqueueEmail(
	ctx context.Context,
	kind string,
	invitationID int64,
) (int64, error) {
	now := time.Now().UTC()
	var id int64
	ins := sq.Insert("email_outbox").
		Columns("kind", "invitation_id", "attempts", "next_attempt_at", "created_at").
		Values(kind, invitationID, 0, now, now).
		Suffix("RETURNING id")
	err := d.returningInsertStatement(ctx, &id, ins, nil)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// DueEmails returns unsent outbox entries whose next attempt has come,
// oldest first and capped so one drain run stays bounded, entries that
// burned through maxAttempts stay behind as a delivery trace
func (d *DataStore) DueEmails(
	ctx context.Context,
	now time.Time,
	maxAttempts int,
	limit int,
) ([]*tables.EmailOutboxTable, error) {
	var entities []*tables.EmailOutboxTable
	q := sq.Select(outboxColumns...).
		From("email_outbox").
		Where(sq.And{
			sq.Eq{"sent_at": nil},
			sq.LtOrEq{"next_attempt_at": now},
			sq.Lt{"attempts": maxAttempts},
		}).
		OrderBy("next_attempt_at ASC").
		Limit(uint64(limit))
	err := d.selectStatement(ctx, &entities, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*tables.EmailOutboxTable{}, nil
		}
		return nil, err
	}
	return entities, nil
}

// MarkEmailSent closes an outbox entry after a successful delivery
func (d *DataStore) MarkEmailSent(ctx context.Context, id int64) error {
	q := sq.Update("email_outbox").
		Set("sent_at", time.Now().UTC()).
		Set("last_error", nil).
		Where(sq.And{sq.Eq{"id": id}, sq.Eq{"sent_at": nil}})
	res, err := d.updateStatement(ctx, q, nil)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkEmailFailed records a failed delivery attempt and schedules the next one
func (d *DataStore) MarkEmailFailed(
	ctx context.Context,
	id int64,
	attempts int,
	nextAttempt time.Time,
	lastError string,
) error {
	q := sq.Update("email_outbox").
		Set("attempts", attempts).
		Set("next_attempt_at", nextAttempt).
		Set("last_error", lastError).
		Where(sq.And{sq.Eq{"id": id}, sq.Eq{"sent_at": nil}})
	res, err := d.updateStatement(ctx, q, nil)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DropOutboxEntry discards a single unsent entry, used when the drain
// finds the referenced invitation no longer wants the mail
func (d *DataStore) DropOutboxEntry(ctx context.Context, id int64) error {
	del := sq.Delete("email_outbox").
		Where(sq.And{
			sq.Eq{"id": id},
			sq.Eq{"sent_at": nil},
		})
	_, err := d.deleteStatement(ctx, del, nil)
	return err
}

// DropOutboxForInvitation discards pending mail of an invitation,
// used when it gets cancelled before the drain picks the mail up
func (d *DataStore) DropOutboxForInvitation(ctx context.Context, invitationID int64) error {
	del := sq.Delete("email_outbox").
		Where(sq.And{
			sq.Eq{"invitation_id": invitationID},
			sq.Eq{"sent_at": nil},
		})
	_, err := d.deleteStatement(ctx, del, nil)
	return err
}
