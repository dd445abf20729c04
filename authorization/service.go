package authorization

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/db/tables"
	"go.uber.org/zap"
)

var (
	// ErrNotAMember signals the user holds no membership in the family
	ErrNotAMember = errors.New("user is not a member of this family")
	// ErrMembershipExpired signals the membership grant has lapsed
	ErrMembershipExpired = errors.New("membership grant has expired")
)

// MembershipStorer is the persistence surface capability resolution needs
type MembershipStorer interface {
	ActiveMembership(ctx context.Context, familyID int64, userID uuid.UUID) (*db.MemberRow, error)
	UserByID(ctx context.Context, id uuid.UUID) (*tables.UserTable, error)
}

// Service resolves effective capability sets
type Service struct {
	store MembershipStorer
	log   *zap.Logger
}

// New assembles the authorization service
func New(store MembershipStorer, log *zap.Logger) *Service {
	return &Service{
		store: store,
		log:   log,
	}
}

// CapabilitiesFor resolves what a user may do within a family, the
// membership has to be unrevoked and unexpired and the role active,
// superusers hold every capability everywhere
func (s *Service) CapabilitiesFor(
	ctx context.Context,
	familyID int64,
	userID uuid.UUID,
) (*CapabilitySet, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotAMember
		}
		s.log.Error("Unable to load user for capability resolution", zap.Error(err))
		return nil, err
	}
	if user.Superuser {
		all := make([]string, 0, len(All()))
		for _, c := range All() {
			all = append(all, string(c))
		}
		return newCapabilitySet("superuser", all), nil
	}
	membership, err := s.store.ActiveMembership(ctx, familyID, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotAMember
		}
		s.log.Error("Unable to load membership", zap.Error(err))
		return nil, err
	}
	if membership.ValidUntil.Valid && membership.ValidUntil.Time.Before(time.Now().UTC()) {
		return nil, ErrMembershipExpired
	}
	if !membership.RoleActive {
		// an inactive role keeps the membership but grants nothing
		return newCapabilitySet(membership.RoleName, nil), nil
	}
	return newCapabilitySet(membership.RoleName, membership.Capabilities), nil
}
