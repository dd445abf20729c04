package tables

import "time"

// EmailOutboxTable represents the email_outbox table, the queue the
// state machine writes to instead of sending mail inline
type EmailOutboxTable struct {
	ID           int64      `db:"id,omitempty"`
	Kind         string     `db:"kind"`
	InvitationID int64      `db:"invitation_id"`
	Attempts     int        `db:"attempts"`
	NextAttempt  time.Time  `db:"next_attempt_at"`
	SentAt       *time.Time `db:"sent_at"`
	LastError    *string    `db:"last_error"`
	CreatedAt    time.Time  `db:"created_at"`
}
