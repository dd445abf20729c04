package db

import (
	"context"

	"github.com/kinfolkhq/kinfolk/events"
	"github.com/kinfolkhq/kinfolk/events/event"
	"go.uber.org/zap"
)

// BootstrapListeners registers all the event listeners from this package
func BootstrapListeners(store Auditor, log *zap.Logger) []events.EventListener {
	return []events.EventListener{
		&invitationCreatedListener{
			log:   log,
			store: store,
		},
		&invitationResentListener{
			log:   log,
			store: store,
		},
		&invitationCancelledListener{
			log:   log,
			store: store,
		},
		&invitationAcceptedListener{
			log:   log,
			store: store,
		},
		&invitationExpiryExtendedListener{
			log:   log,
			store: store,
		},
		&invitationsExpiredListener{
			log:   log,
			store: store,
		},
		&invitationsArchivedListener{
			log:   log,
			store: store,
		},
		&emailInviteSentListener{
			log:   log,
			store: store,
		},
		&emailReminderSentListener{
			log:   log,
			store: store,
		},
		&emailDeliveryFailedListener{
			log:   log,
			store: store,
		},
		&userSignupListener{
			log:   log,
			store: store,
		},
		&userLoginListener{
			log:   log,
			store: store,
		},
		&memberJoinedListener{
			log:   log,
			store: store,
		},
		&familyCreatedListener{
			log:   log,
			store: store,
		},
		&roleCreatedListener{
			log:   log,
			store: store,
		},
		&roleGrantedListener{
			log:   log,
			store: store,
		},
		&projectCreatedListener{
			log:   log,
			store: store,
		},
		&taskCompletedListener{
			log:   log,
			store: store,
		},
	}
}

type invitationCreatedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*invitationCreatedListener) ForEvent() events.EventName {
	return event.InvitationCreatedEvent
}

func (l *invitationCreatedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.InvitationCreated)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"invitation_id": e.InvitationID.String(),
		"family_id":     e.FamilyID,
		"email":         e.Email,
		"role":          e.Role,
		"expires_at":    e.ExpiresAt,
		"invited_by":    e.InvitedBy.String(),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type invitationResentListener struct {
	store Auditor
	log   *zap.Logger
}

func (*invitationResentListener) ForEvent() events.EventName {
	return event.InvitationResentEvent
}

func (l *invitationResentListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.InvitationResent)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"invitation_id": e.InvitationID.String(),
		"email":         e.Email,
		"old_token":     e.OldToken,
		"new_token":     e.NewToken,
		"expires_at":    e.ExpiresAt,
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type invitationCancelledListener struct {
	store Auditor
	log   *zap.Logger
}

func (*invitationCancelledListener) ForEvent() events.EventName {
	return event.InvitationCancelledEvent
}

func (l *invitationCancelledListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.InvitationCancelled)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"invitation_id": e.InvitationID.String(),
		"cancelled_by":  e.CancelledBy.String(),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type invitationAcceptedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*invitationAcceptedListener) ForEvent() events.EventName {
	return event.InvitationAcceptedEvent
}

func (l *invitationAcceptedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.InvitationAccepted)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"invitation_id": e.InvitationID.String(),
		"family_id":     e.FamilyID,
		"user_id":       e.UserID.String(),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type invitationExpiryExtendedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*invitationExpiryExtendedListener) ForEvent() events.EventName {
	return event.InvitationExpiryExtendedEvent
}

func (l *invitationExpiryExtendedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.InvitationExpiryExtended)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"invitation_id": e.InvitationID.String(),
		"expires_at":    e.ExpiresAt,
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type invitationsExpiredListener struct {
	store Auditor
	log   *zap.Logger
}

func (*invitationsExpiredListener) ForEvent() events.EventName {
	return event.InvitationsExpiredEvent
}

func (l *invitationsExpiredListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.InvitationsExpired)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"affected": e.Affected,
		"swept_at": e.SweptAt,
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type invitationsArchivedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*invitationsArchivedListener) ForEvent() events.EventName {
	return event.InvitationsArchivedEvent
}

func (l *invitationsArchivedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.InvitationsArchived)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"affected":        e.Affected,
		"archived_before": e.ArchivedBefore,
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type emailInviteSentListener struct {
	store Auditor
	log   *zap.Logger
}

func (*emailInviteSentListener) ForEvent() events.EventName {
	return event.EmailInviteSentEvent
}

func (l *emailInviteSentListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.EmailInviteSent)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"invitation_id": e.InvitationID.String(),
		"email":         e.Email,
		"sent":          e.Sent,
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type emailReminderSentListener struct {
	store Auditor
	log   *zap.Logger
}

func (*emailReminderSentListener) ForEvent() events.EventName {
	return event.EmailReminderSentEvent
}

func (l *emailReminderSentListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.EmailReminderSent)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"invitation_id": e.InvitationID.String(),
		"email":         e.Email,
		"sent":          e.Sent,
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type emailDeliveryFailedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*emailDeliveryFailedListener) ForEvent() events.EventName {
	return event.EmailDeliveryFailedEvent
}

func (l *emailDeliveryFailedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.EmailDeliveryFailed)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"invitation_id": e.InvitationID.String(),
		"kind":          e.Kind,
		"attempts":      e.Attempts,
		"last_error":    e.LastError,
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type userSignupListener struct {
	store Auditor
	log   *zap.Logger
}

func (*userSignupListener) ForEvent() events.EventName {
	return event.UserSignupEvent
}

func (l *userSignupListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.UserSignup)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"user_id": e.UserID.String(),
		"email":   e.Email,
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type userLoginListener struct {
	store Auditor
	log   *zap.Logger
}

func (*userLoginListener) ForEvent() events.EventName {
	return event.UserLoginEvent
}

func (l *userLoginListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.UserLogin)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"user_id": e.UserID.String(),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type memberJoinedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*memberJoinedListener) ForEvent() events.EventName {
	return event.MemberJoinedEvent
}

func (l *memberJoinedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.MemberJoined)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"user_id":   e.UserID.String(),
		"family_id": e.FamilyID,
		"role":      e.Role,
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type familyCreatedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*familyCreatedListener) ForEvent() events.EventName {
	return event.FamilyCreatedEvent
}

func (l *familyCreatedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.FamilyCreated)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"family_id":  e.FamilyID,
		"public_id":  e.PublicID.String(),
		"name":       e.FamilyName,
		"created_by": e.CreatedBy.String(),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type roleCreatedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*roleCreatedListener) ForEvent() events.EventName {
	return event.RoleCreatedEvent
}

func (l *roleCreatedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.RoleCreated)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"role": e.Role,
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type roleGrantedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*roleGrantedListener) ForEvent() events.EventName {
	return event.RoleGrantedEvent
}

func (l *roleGrantedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.RoleGranted)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"user_id":     e.UserID.String(),
		"family_id":   e.FamilyID,
		"role":        e.Role,
		"valid_until": e.ValidUntil,
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type projectCreatedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*projectCreatedListener) ForEvent() events.EventName {
	return event.ProjectCreatedEvent
}

func (l *projectCreatedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.ProjectCreated)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"project_id": e.ProjectID.String(),
		"family_id":  e.FamilyID,
		"name":       e.ProjectName,
		"created_by": e.CreatedBy.String(),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type taskCompletedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*taskCompletedListener) ForEvent() events.EventName {
	return event.TaskCompletedEvent
}

func (l *taskCompletedListener) Handle(_ context.Context, ev events.Event) error {
	e := ev.(*event.TaskCompleted)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"task_id":      e.TaskID.String(),
		"project_id":   e.ProjectID.String(),
		"completed_by": e.CompletedBy.String(),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}
