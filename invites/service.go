package invites

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/authorization"
	"github.com/kinfolkhq/kinfolk/config"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/db/tables"
	"github.com/kinfolkhq/kinfolk/events"
	"github.com/kinfolkhq/kinfolk/events/event"
	"github.com/kinfolkhq/kinfolk/generator"
	"go.uber.org/zap"
)

const maxIterationCycles = 100

var (
	ErrEntityDoesNotExist  = errors.New("entity does not exist")
	ErrEntityAlreadyExists = errors.New("entity already exists in system")
	// ErrInvalidTransition signals the invitation status does not
	// allow the requested operation
	ErrInvalidTransition = errors.New("entity does not support transition")
	// ErrInviteArchived signals the invitation was soft deleted
	ErrInviteArchived = errors.New("invitation has been archived")
	ErrTokenExpired   = errors.New("supplied token has expired")
	ErrTokenGenTimeout = errors.New(
		"could not generate a token within given cycles",
	)
	ErrUnknownRole = errors.New("role does not exist or is inactive")
	// ErrRoleEscalation signals the inviter tried to hand out
	// capabilities they do not hold themselves
	ErrRoleEscalation = errors.New("role exceeds inviter capabilities")
	// ErrElevatedRole signals the role carries family administration
	// and may never be handed out by invitation
	ErrElevatedRole = errors.New("role is not grantable by invitation")
)

// InviteStorer is the persistence surface the invitation
// state machine runs on
type InviteStorer interface {
	IsInviteable(ctx context.Context, familyID int64, email string) (bool, error)
	InvitationTokenExists(ctx context.Context, token string) (bool, error)
	InsertInvitation(ctx context.Context, p db.InsertInvitationParams) (int64, uuid.UUID, error)
	InvitationByToken(ctx context.Context, token string) (*tables.InvitationTable, error)
	InvitationByPublicID(ctx context.Context, publicID uuid.UUID) (*tables.InvitationTable, error)
	Invitations(
		ctx context.Context,
		familyID int64,
		invitedBy *uuid.UUID,
		opts db.ListOptions,
	) ([]*tables.InvitationTable, int, error)
	AcceptInvitation(ctx context.Context, id int64, userID uuid.UUID) (bool, error)
	CancelInvitation(ctx context.Context, id int64) (bool, error)
	ResetInvitationToken(
		ctx context.Context,
		id int64,
		token string,
		expires time.Time,
		message *string,
	) (bool, error)
	ExtendInvitationExpiry(ctx context.Context, id int64, until time.Time) (bool, error)
	ExpirePendingInvitations(ctx context.Context, now time.Time) (int64, error)
	PendingInvitationsExpiringBefore(
		ctx context.Context,
		now time.Time,
		before time.Time,
	) ([]*tables.InvitationTable, error)
	SetInvitationReminderSent(ctx context.Context, id int64) error
	ArchiveInvitationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	InvitationStats(ctx context.Context, familyID int64) ([]db.StatusCount, []db.RoleCount, error)
	RoleByName(ctx context.Context, name string) (*tables.RoleTable, error)
	FamilyByID(ctx context.Context, id int64) (*tables.FamilyTable, error)
	EnqueueEmail(ctx context.Context, kind string, invitationID int64) (int64, error)
	DropOutboxForInvitation(ctx context.Context, invitationID int64) error
}

// Dispatcher used to dispatch events
type Dispatcher interface {
	Dispatch(ctx context.Context, ev events.Event)
}

// Service is the invitation state machine
type Service struct {
	store      InviteStorer
	log        *zap.Logger
	cfg        *config.BehaviourConfiguration
	gen        *generator.RandomTokenGenerator
	dispatcher Dispatcher
}

// New assembles the invitation service
func New(store InviteStorer,
	log *zap.Logger,
	cfg *config.BehaviourConfiguration,
	dispatcher Dispatcher) *Service {
	return &Service{
		store:      store,
		log:        log,
		cfg:        cfg,
		gen:        generator.New(),
		dispatcher: dispatcher,
	}
}

func (s *Service) uniqueToken(ctx context.Context) (string, error) {
	iterations := 0
	for iterations < maxIterationCycles {
		iterations++
		token := string(s.gen.CreateSecureToken())
		taken, err := s.store.InvitationTokenExists(ctx, token)
		if err != nil {
			return "", err
		}
		if !taken {
			return token, nil
		}
	}
	return "", ErrTokenGenTimeout
}

// CreateInvitation carries the input for Create, capability checks
// happened upstream except for the escalation guard
type CreateInvitation struct {
	FamilyID            int64
	InvitedBy           uuid.UUID
	InviterCapabilities []string
	Email               string
	FirstName           *string
	LastName            *string
	Role                string
	Message             *string
}

// Create issues a new pending invitation, generates a unique token,
// queues the invite mail and announces the event
func (s *Service) Create(ctx context.Context, req CreateInvitation) (*Invitation, error) {
	if req.Role == "" {
		req.Role = s.cfg.DefaultRole
	}
	ok, err := s.store.IsInviteable(ctx, req.FamilyID, req.Email)
	if err != nil {
		s.log.Error("Unable to check inviteability", zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, ErrEntityAlreadyExists
	}
	role, err := s.store.RoleByName(ctx, req.Role)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUnknownRole
		}
		return nil, err
	}
	if !role.Active {
		return nil, ErrUnknownRole
	}
	if elevated(role.Capabilities) {
		return nil, ErrElevatedRole
	}
	if escalates(role.Capabilities, req.InviterCapabilities) {
		return nil, ErrRoleEscalation
	}
	token, err := s.uniqueToken(ctx)
	if err != nil {
		return nil, err
	}
	expires := ExpiryDate(time.Now().UTC(), s.cfg.InviteExpiry)
	id, publicID, err := s.store.InsertInvitation(ctx, db.InsertInvitationParams{
		FamilyID:  req.FamilyID,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Message:   req.Message,
		Token:     token,
		ExpiresAt: expires,
		InvitedBy: req.InvitedBy,
	})
	if err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return nil, ErrEntityAlreadyExists
		}
		s.log.Error("Unable to insert invitation", zap.Error(err))
		return nil, err
	}
	_, err = s.store.EnqueueEmail(ctx, db.OutboxKindInvite, id)
	if err != nil {
		s.log.Error("Unable to enqueue invite mail", zap.Error(err))
	}
	s.dispatcher.Dispatch(ctx, &event.InvitationCreated{
		InvitationID: publicID,
		FamilyID:     req.FamilyID,
		Email:        req.Email,
		Role:         req.Role,
		ExpiresAt:    expires,
		InvitedBy:    req.InvitedBy,
	})
	return s.byPublicID(ctx, publicID)
}

// elevated reports if the role carries family administration,
// no inviter may hand that out regardless of their own capabilities
func elevated(role []string) bool {
	for _, c := range role {
		if c == string(authorization.CapManageFamilies) {
			return true
		}
	}
	return false
}

// escalates reports if the role hands out a capability the inviter lacks
func escalates(role []string, inviter []string) bool {
	held := make(map[string]struct{}, len(inviter))
	for _, c := range inviter {
		held[c] = struct{}{}
	}
	for _, c := range role {
		if _, ok := held[c]; !ok {
			return true
		}
	}
	return false
}

func (s *Service) byPublicID(ctx context.Context, publicID uuid.UUID) (*Invitation, error) {
	row, err := s.store.InvitationByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrEntityDoesNotExist
		}
		return nil, err
	}
	return NewInvitation(row), nil
}

// Get loads an invitation scoped to a family
func (s *Service) Get(ctx context.Context, familyID int64, publicID uuid.UUID) (*Invitation, error) {
	inv, err := s.byPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if inv.FamilyID() != familyID {
		return nil, ErrEntityDoesNotExist
	}
	return inv, nil
}

// List returns the invitations of a family paginated, invitedBy narrows
// the result to a single inviter
func (s *Service) List(
	ctx context.Context,
	familyID int64,
	invitedBy *uuid.UUID,
	opts db.ListOptions,
) ([]*Invitation, int, error) {
	rows, total, err := s.store.Invitations(ctx, familyID, invitedBy, opts)
	if err != nil {
		return nil, 0, err
	}
	invs := make([]*Invitation, len(rows))
	for i, r := range rows {
		invs[i] = NewInvitation(r)
	}
	return invs, total, nil
}

// Cancel transitions a pending or expired invitation to cancelled and
// discards any mail still waiting in the outbox
func (s *Service) Cancel(
	ctx context.Context,
	familyID int64,
	publicID uuid.UUID,
	cancelledBy uuid.UUID,
) error {
	inv, err := s.Get(ctx, familyID, publicID)
	if err != nil {
		return err
	}
	if inv.IsArchived() {
		return ErrInviteArchived
	}
	if !inv.CanCancel() {
		return ErrInvalidTransition
	}
	done, err := s.store.CancelInvitation(ctx, inv.internalID())
	if err != nil {
		s.log.Error("Unable to cancel invitation", zap.Error(err))
		return err
	}
	if !done {
		return ErrInvalidTransition
	}
	err = s.store.DropOutboxForInvitation(ctx, inv.internalID())
	if err != nil {
		s.log.Warn("Unable to drop queued mail of cancelled invitation", zap.Error(err))
	}
	s.dispatcher.Dispatch(ctx, &event.InvitationCancelled{
		InvitationID: publicID,
		CancelledBy:  cancelledBy,
	})
	return nil
}

// Resend rotates the token of a pending or expired invitation, recomputes
// the expiry from now and queues a fresh invite mail
func (s *Service) Resend(
	ctx context.Context,
	familyID int64,
	publicID uuid.UUID,
	message *string,
) (*Invitation, error) {
	inv, err := s.Get(ctx, familyID, publicID)
	if err != nil {
		return nil, err
	}
	if inv.IsArchived() {
		return nil, ErrInviteArchived
	}
	if !inv.CanResend() {
		return nil, ErrInvalidTransition
	}
	token, err := s.uniqueToken(ctx)
	if err != nil {
		return nil, err
	}
	expires := ExpiryDate(time.Now().UTC(), s.cfg.InviteExpiry)
	done, err := s.store.ResetInvitationToken(ctx, inv.internalID(), token, expires, message)
	if err != nil {
		s.log.Error("Unable to reset invitation token", zap.Error(err))
		return nil, err
	}
	if !done {
		return nil, ErrInvalidTransition
	}
	_, err = s.store.EnqueueEmail(ctx, db.OutboxKindInvite, inv.internalID())
	if err != nil {
		s.log.Error("Unable to enqueue invite mail", zap.Error(err))
	}
	s.dispatcher.Dispatch(ctx, &event.InvitationResent{
		InvitationID: publicID,
		Email:        inv.Email(),
		OldToken:     inv.Token(),
		NewToken:     token,
		ExpiresAt:    expires,
	})
	return s.byPublicID(ctx, publicID)
}

// ExtendExpiry pushes the expiry of a pending invitation to a later point
func (s *Service) ExtendExpiry(
	ctx context.Context,
	familyID int64,
	publicID uuid.UUID,
	until time.Time,
) error {
	inv, err := s.Get(ctx, familyID, publicID)
	if err != nil {
		return err
	}
	if inv.IsArchived() {
		return ErrInviteArchived
	}
	if inv.Status() != StatusPending {
		return ErrInvalidTransition
	}
	if !until.After(inv.ExpiresAt()) {
		return ErrInvalidTransition
	}
	done, err := s.store.ExtendInvitationExpiry(ctx, inv.internalID(), until.UTC())
	if err != nil {
		s.log.Error("Unable to extend invitation expiry", zap.Error(err))
		return err
	}
	if !done {
		return ErrInvalidTransition
	}
	s.dispatcher.Dispatch(ctx, &event.InvitationExpiryExtended{
		InvitationID: publicID,
		ExpiresAt:    until.UTC(),
	})
	return nil
}

// Validation is the outcome of a token check
type Validation struct {
	Invitation *Invitation
	FamilyName string
}

// Validate is the single authority deciding whether a token may still be
// redeemed, both the read-only verify endpoint and the accept flow use it
func (s *Service) Validate(ctx context.Context, token string) (*Validation, error) {
	row, err := s.store.InvitationByToken(ctx, token)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrEntityDoesNotExist
		}
		s.log.Error("Unable to load invitation by token", zap.Error(err))
		return nil, err
	}
	inv := NewInvitation(row)
	if inv.IsArchived() {
		return nil, ErrInviteArchived
	}
	if inv.Status() != StatusPending {
		return nil, ErrInvalidTransition
	}
	if inv.IsExpired(time.Now().UTC()) {
		return nil, ErrTokenExpired
	}
	family, err := s.store.FamilyByID(ctx, inv.FamilyID())
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrEntityDoesNotExist
		}
		return nil, err
	}
	return &Validation{
		Invitation: inv,
		FamilyName: family.Name,
	}, nil
}

// Accept redeems a token for a user, the guarded update makes a
// concurrent accept lose cleanly instead of double consuming the token
func (s *Service) Accept(ctx context.Context, token string, userID uuid.UUID) (*Invitation, error) {
	validation, err := s.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	inv := validation.Invitation
	done, err := s.store.AcceptInvitation(ctx, inv.internalID(), userID)
	if err != nil {
		s.log.Error("Unable to accept invitation", zap.Error(err))
		return nil, err
	}
	if !done {
		return nil, ErrInvalidTransition
	}
	s.dispatcher.Dispatch(ctx, &event.InvitationAccepted{
		InvitationID: inv.ID(),
		FamilyID:     inv.FamilyID(),
		UserID:       userID,
	})
	return s.byPublicID(ctx, inv.ID())
}

// ExpireOverdue sweeps pending invitations whose expiry has passed,
// safe to rerun at any time
func (s *Service) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	affected, err := s.store.ExpirePendingInvitations(ctx, now.UTC())
	if err != nil {
		s.log.Error("Unable to sweep overdue invitations", zap.Error(err))
		return 0, err
	}
	if affected > 0 {
		s.dispatcher.Dispatch(ctx, &event.InvitationsExpired{
			Affected: affected,
			SweptAt:  now.UTC(),
		})
	}
	return affected, nil
}

// EnqueueDueReminders queues a reminder mail for every pending invitation
// expiring within the lead window, at most once per invitation
func (s *Service) EnqueueDueReminders(ctx context.Context, now time.Time) (int, error) {
	due, err := s.store.PendingInvitationsExpiringBefore(
		ctx,
		now.UTC(),
		now.UTC().Add(s.cfg.ReminderLead),
	)
	if err != nil {
		s.log.Error("Unable to load reminder candidates", zap.Error(err))
		return 0, err
	}
	queued := 0
	for _, row := range due {
		// flagging before the enqueue keeps a failing sweep from
		// reminding the same person twice
		err = s.store.SetInvitationReminderSent(ctx, row.ID)
		if err != nil {
			s.log.Warn("Unable to flag reminder", zap.Int64("id", row.ID), zap.Error(err))
			continue
		}
		_, err = s.store.EnqueueEmail(ctx, db.OutboxKindReminder, row.ID)
		if err != nil {
			s.log.Warn("Unable to enqueue reminder", zap.Int64("id", row.ID), zap.Error(err))
			continue
		}
		queued++
	}
	return queued, nil
}

// ArchiveBefore soft-deletes terminal invitations older than the cutoff
func (s *Service) ArchiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	affected, err := s.store.ArchiveInvitationsBefore(ctx, cutoff.UTC())
	if err != nil {
		s.log.Error("Unable to archive invitations", zap.Error(err))
		return 0, err
	}
	if affected > 0 {
		s.dispatcher.Dispatch(ctx, &event.InvitationsArchived{
			Affected:       affected,
			ArchivedBefore: cutoff.UTC(),
		})
	}
	return affected, nil
}

// Stats counts the invitations of a family by status and role
type Stats struct {
	ByStatus map[string]int
	ByRole   map[string]int
}

// Stats returns the invitation counts of a family
func (s *Service) Stats(ctx context.Context, familyID int64) (*Stats, error) {
	byStatus, byRole, err := s.store.InvitationStats(ctx, familyID)
	if err != nil {
		s.log.Error("Unable to load invitation stats", zap.Error(err))
		return nil, err
	}
	stats := &Stats{
		ByStatus: make(map[string]int, len(byStatus)),
		ByRole:   make(map[string]int, len(byRole)),
	}
	for _, c := range byStatus {
		stats.ByStatus[c.Status] = c.Count
	}
	for _, c := range byRole {
		stats.ByRole[c.Role] = c.Count
	}
	return stats, nil
}
