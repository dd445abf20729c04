package tables

import (
	"time"

	"github.com/google/uuid"
)

// InvitationTable represents the invitations table.
// status and archived_at are independent axes, an archived row keeps
// whatever business status it had when it was archived.
type InvitationTable struct {
	ID             int64      `db:"id,omitempty"   fiql:"id,db:id"`
	PublicID       uuid.UUID  `db:"public_id"      fiql:"public_id,db:public_id"`
	FamilyID       int64      `db:"family_id"      fiql:"family_id,db:family_id"`
	Email          string     `db:"email"          fiql:"email,db:email"`
	FirstName      *string    `db:"first_name"`
	LastName       *string    `db:"last_name"`
	Role           string     `db:"role"           fiql:"role,db:role"`
	Message        *string    `db:"message"`
	Status         string     `db:"status"         fiql:"status,db:status"`
	Token          string     `db:"token"                                                      json:"-"`
	ExpiresAt      time.Time  `db:"expires_at"     fiql:"expires_at,db:expires_at"`
	InvitedBy      uuid.UUID  `db:"invited_by"     fiql:"invited_by,db:invited_by"`
	AcceptedBy     *uuid.UUID `db:"accepted_by"`
	AcceptedAt     *time.Time `db:"accepted_at"    fiql:"accepted_at,db:accepted_at"`
	ReminderSentAt *time.Time `db:"reminder_sent_at"`
	CreatedAt      time.Time  `db:"created_at"     fiql:"created_at,db:created_at"`
	UpdatedAt      *time.Time `db:"updated_at,omitempty"`
	ArchivedAt     *time.Time `db:"archived_at"`
}
