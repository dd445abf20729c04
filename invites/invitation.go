package invites

import (
	"time"

	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/db/tables"
)

// Status is the lifecycle state of an invitation
type Status string

const (
	StatusPending   Status = db.InvitationStatusPending
	StatusAccepted  Status = db.InvitationStatusAccepted
	StatusExpired   Status = db.InvitationStatusExpired
	StatusCancelled Status = db.InvitationStatusCancelled
)

// Invitation is the domain view over an invitation row,
// the token never leaves the domain layer except for mailing
type Invitation struct {
	row *tables.InvitationTable
}

// NewInvitation wraps a loaded row into its domain view
func NewInvitation(row *tables.InvitationTable) *Invitation {
	return &Invitation{row: row}
}

// ID is the public identifier
func (i *Invitation) ID() uuid.UUID { return i.row.PublicID }

func (i *Invitation) internalID() int64 { return i.row.ID }

// FamilyID is the internal id of the family the invitation belongs to
func (i *Invitation) FamilyID() int64 { return i.row.FamilyID }

// Email is the invited address
func (i *Invitation) Email() string { return i.row.Email }

// FirstName of the invited person if supplied
func (i *Invitation) FirstName() *string { return i.row.FirstName }

// LastName of the invited person if supplied
func (i *Invitation) LastName() *string { return i.row.LastName }

// Role the invitation grants on acceptance
func (i *Invitation) Role() string { return i.row.Role }

// Message is the optional personal note of the inviter
func (i *Invitation) Message() *string { return i.row.Message }

// Status is the current lifecycle state
func (i *Invitation) Status() Status { return Status(i.row.Status) }

// Token is the secret the invited person redeems
func (i *Invitation) Token() string { return i.row.Token }

// ExpiresAt is the current expiry
func (i *Invitation) ExpiresAt() time.Time { return i.row.ExpiresAt }

// InvitedBy is the id of the inviting user
func (i *Invitation) InvitedBy() uuid.UUID { return i.row.InvitedBy }

// CreatedAt is when the invitation was issued
func (i *Invitation) CreatedAt() time.Time { return i.row.CreatedAt }

// IsArchived reports the soft delete axis, an archived invitation keeps
// whatever status it had
func (i *Invitation) IsArchived() bool { return i.row.ArchivedAt != nil }

// IsExpired reports whether the expiry has passed, regardless of
// whether the sweep already flipped the status
func (i *Invitation) IsExpired(now time.Time) bool {
	if i.Status() == StatusExpired {
		return true
	}
	return Expired(&i.row.ExpiresAt, now)
}

// CanCancel reports if the invitation may transition to cancelled
func (i *Invitation) CanCancel() bool {
	if i.IsArchived() {
		return false
	}
	s := i.Status()
	return s == StatusPending || s == StatusExpired
}

// CanResend reports if the invitation may get a fresh token
func (i *Invitation) CanResend() bool {
	if i.IsArchived() {
		return false
	}
	s := i.Status()
	return s == StatusPending || s == StatusExpired
}
