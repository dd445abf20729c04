package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/events"
)

const (
	InvitationCreatedEvent        events.EventName = "invitation_created"
	InvitationResentEvent         events.EventName = "invitation_resent"
	InvitationCancelledEvent      events.EventName = "invitation_cancelled"
	InvitationAcceptedEvent       events.EventName = "invitation_accepted"
	InvitationExpiryExtendedEvent events.EventName = "invitation_expiry_extended"
	InvitationsExpiredEvent       events.EventName = "invitations_expired"
	InvitationsArchivedEvent      events.EventName = "invitations_archived"

	EmailInviteSentEvent     events.EventName = "email_invite_sent"
	EmailReminderSentEvent   events.EventName = "email_reminder_sent"
	EmailDeliveryFailedEvent events.EventName = "email_delivery_failed"

	UserSignupEvent   events.EventName = "user_signup"
	UserLoginEvent    events.EventName = "user_login"
	MemberJoinedEvent events.EventName = "member_joined"

	FamilyCreatedEvent events.EventName = "family_created"
	RoleCreatedEvent   events.EventName = "role_created"
	RoleGrantedEvent   events.EventName = "role_granted"

	ProjectCreatedEvent events.EventName = "project_created"
	TaskCompletedEvent  events.EventName = "task_completed"
)

type InvitationCreated struct {
	InvitationID uuid.UUID
	FamilyID     int64
	Email        string
	Role         string
	ExpiresAt    time.Time
	InvitedBy    uuid.UUID
}

func (*InvitationCreated) Name() events.EventName { return InvitationCreatedEvent }

// InvitationResent carries both tokens so the audit trail
// shows which token was invalidated by the resend
type InvitationResent struct {
	InvitationID uuid.UUID
	Email        string
	OldToken     string
	NewToken     string
	ExpiresAt    time.Time
}

func (*InvitationResent) Name() events.EventName { return InvitationResentEvent }

type InvitationCancelled struct {
	InvitationID uuid.UUID
	CancelledBy  uuid.UUID
}

func (*InvitationCancelled) Name() events.EventName { return InvitationCancelledEvent }

type InvitationAccepted struct {
	InvitationID uuid.UUID
	FamilyID     int64
	UserID       uuid.UUID
}

func (*InvitationAccepted) Name() events.EventName { return InvitationAcceptedEvent }

type InvitationExpiryExtended struct {
	InvitationID uuid.UUID
	ExpiresAt    time.Time
}

func (*InvitationExpiryExtended) Name() events.EventName { return InvitationExpiryExtendedEvent }

type InvitationsExpired struct {
	Affected int64
	SweptAt  time.Time
}

func (*InvitationsExpired) Name() events.EventName { return InvitationsExpiredEvent }

type InvitationsArchived struct {
	Affected       int64
	ArchivedBefore time.Time
}

func (*InvitationsArchived) Name() events.EventName { return InvitationsArchivedEvent }

type EmailInviteSent struct {
	InvitationID uuid.UUID
	Email        string
	Sent         time.Time
}

func (*EmailInviteSent) Name() events.EventName { return EmailInviteSentEvent }

type EmailReminderSent struct {
	InvitationID uuid.UUID
	Email        string
	Sent         time.Time
}

func (*EmailReminderSent) Name() events.EventName { return EmailReminderSentEvent }

type EmailDeliveryFailed struct {
	InvitationID uuid.UUID
	Kind         string
	Attempts     int
	LastError    string
}

func (*EmailDeliveryFailed) Name() events.EventName { return EmailDeliveryFailedEvent }

type UserSignup struct {
	UserID uuid.UUID
	Email  string
}

func (*UserSignup) Name() events.EventName { return UserSignupEvent }

type UserLogin struct {
	UserID uuid.UUID
}

func (*UserLogin) Name() events.EventName { return UserLoginEvent }

type MemberJoined struct {
	UserID   uuid.UUID
	FamilyID int64
	Role     string
}

func (*MemberJoined) Name() events.EventName { return MemberJoinedEvent }

type FamilyCreated struct {
	FamilyID   int64
	PublicID   uuid.UUID
	FamilyName string
	CreatedBy  uuid.UUID
}

func (*FamilyCreated) Name() events.EventName { return FamilyCreatedEvent }

type RoleCreated struct {
	Role string
}

func (*RoleCreated) Name() events.EventName { return RoleCreatedEvent }

type RoleGranted struct {
	UserID     uuid.UUID
	FamilyID   int64
	Role       string
	ValidUntil *time.Time
}

func (*RoleGranted) Name() events.EventName { return RoleGrantedEvent }

type ProjectCreated struct {
	ProjectID   uuid.UUID
	FamilyID    int64
	ProjectName string
	CreatedBy   uuid.UUID
}

func (*ProjectCreated) Name() events.EventName { return ProjectCreatedEvent }

type TaskCompleted struct {
	TaskID      uuid.UUID
	ProjectID   uuid.UUID
	CompletedBy uuid.UUID
}

func (*TaskCompleted) Name() events.EventName { return TaskCompletedEvent }
