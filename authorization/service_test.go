package authorization

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/authorization/mocks"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/db/tables"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestCapabilitiesForMember(t *testing.T) {
	assert := assert.New(t)
	store := mocks.NewMembershipStorer(t)
	ctx := context.Background()
	service := New(store, zaptest.NewLogger(t))

	userID := uuid.New()
	store.On("UserByID", ctx, userID).Return(&tables.UserTable{ID: userID}, nil)
	store.On("ActiveMembership", ctx, int64(7), userID).Return(&db.MemberRow{
		FamilyID:     7,
		UserID:       userID,
		RoleName:     "organizer",
		Capabilities: tables.StringSlice{"send_invitations", "manage_invitations"},
		RoleActive:   true,
	}, nil)

	set, err := service.CapabilitiesFor(ctx, 7, userID)
	assert.Nil(err)
	assert.Equal("organizer", set.Role())
	assert.True(set.Can(CapSendInvitations))
	assert.True(set.Can(CapManageInvitations))
	assert.False(set.Can(CapManageFamilies))
}

func TestCapabilitiesForNonMember(t *testing.T) {
	assert := assert.New(t)
	store := mocks.NewMembershipStorer(t)
	ctx := context.Background()
	service := New(store, zaptest.NewLogger(t))

	userID := uuid.New()
	store.On("UserByID", ctx, userID).Return(&tables.UserTable{ID: userID}, nil)
	store.On("ActiveMembership", ctx, int64(7), userID).Return(nil, db.ErrNotFound)

	_, err := service.CapabilitiesFor(ctx, 7, userID)
	assert.ErrorIs(err, ErrNotAMember)
}

func TestCapabilitiesForExpiredMembership(t *testing.T) {
	assert := assert.New(t)
	store := mocks.NewMembershipStorer(t)
	ctx := context.Background()
	service := New(store, zaptest.NewLogger(t))

	userID := uuid.New()
	store.On("UserByID", ctx, userID).Return(&tables.UserTable{ID: userID}, nil)
	store.On("ActiveMembership", ctx, int64(7), userID).Return(&db.MemberRow{
		FamilyID:     7,
		UserID:       userID,
		RoleName:     "guest",
		Capabilities: tables.StringSlice{"send_invitations"},
		RoleActive:   true,
		ValidUntil: sql.NullTime{
			Valid: true,
			Time:  time.Now().UTC().Add(-time.Hour),
		},
	}, nil)

	_, err := service.CapabilitiesFor(ctx, 7, userID)
	assert.ErrorIs(err, ErrMembershipExpired)
}

func TestCapabilitiesForInactiveRole(t *testing.T) {
	assert := assert.New(t)
	store := mocks.NewMembershipStorer(t)
	ctx := context.Background()
	service := New(store, zaptest.NewLogger(t))

	userID := uuid.New()
	store.On("UserByID", ctx, userID).Return(&tables.UserTable{ID: userID}, nil)
	store.On("ActiveMembership", ctx, int64(7), userID).Return(&db.MemberRow{
		FamilyID:     7,
		UserID:       userID,
		RoleName:     "organizer",
		Capabilities: tables.StringSlice{"send_invitations"},
		RoleActive:   false,
	}, nil)

	set, err := service.CapabilitiesFor(ctx, 7, userID)
	assert.Nil(err)
	assert.False(set.Can(CapSendInvitations))
	assert.Empty(set.List())
}

func TestCapabilitiesForSuperuser(t *testing.T) {
	assert := assert.New(t)
	store := mocks.NewMembershipStorer(t)
	ctx := context.Background()
	service := New(store, zaptest.NewLogger(t))

	userID := uuid.New()
	store.On("UserByID", ctx, userID).Return(&tables.UserTable{
		ID:        userID,
		Superuser: true,
	}, nil)

	set, err := service.CapabilitiesFor(ctx, 7, userID)
	assert.Nil(err)
	for _, c := range All() {
		assert.True(set.Can(c))
	}
}
