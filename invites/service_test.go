package invites

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/authorization"
	"github.com/kinfolkhq/kinfolk/config"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/db/tables"
	"github.com/kinfolkhq/kinfolk/invites/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"
)

func testConfig() *config.BehaviourConfiguration {
	return &config.BehaviourConfiguration{
		DefaultRole:  "member",
		InviteExpiry: 7 * 24 * time.Hour,
		ReminderLead: 48 * time.Hour,
	}
}

func pendingRow(familyID int64) *tables.InvitationTable {
	return &tables.InvitationTable{
		ID:        1,
		PublicID:  uuid.New(),
		FamilyID:  familyID,
		Email:     "test@example.com",
		Role:      "member",
		Status:    db.InvitationStatusPending,
		Token:     "sometoken",
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
		InvitedBy: uuid.New(),
		CreatedAt: time.Now().UTC(),
	}
}

func TestCreateInvitation(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	inviter := uuid.New()
	row := pendingRow(7)

	store.On("IsInviteable", ctx, int64(7), "test@example.com").Return(true, nil)
	store.On("RoleByName", ctx, "member").Return(&tables.RoleTable{
		ID:           1,
		Name:         "member",
		Capabilities: tables.StringSlice{},
		Active:       true,
	}, nil)
	store.On("InvitationTokenExists", ctx, mock.Anything).Return(false, nil)
	store.On("InsertInvitation", ctx, mock.MatchedBy(func(p db.InsertInvitationParams) bool {
		return p.FamilyID == 7 && p.Email == "test@example.com" && p.Token != ""
	})).Return(int64(1), row.PublicID, nil)
	store.On("EnqueueEmail", ctx, db.OutboxKindInvite, int64(1)).Return(int64(1), nil)
	store.On("InvitationByPublicID", ctx, row.PublicID).Return(row, nil)
	dispatcher.On("Dispatch", ctx, mock.Anything).Return()

	inv, err := service.Create(ctx, CreateInvitation{
		FamilyID:  7,
		InvitedBy: inviter,
		Email:     "test@example.com",
		Role:      "member",
	})
	assert.Nil(err)
	assert.Equal(row.PublicID, inv.ID())
	assert.Equal(StatusPending, inv.Status())
}

func TestCreateInvitationDuplicate(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	store.On("IsInviteable", ctx, int64(7), "test@example.com").Return(false, nil)

	_, err := service.Create(ctx, CreateInvitation{
		FamilyID:  7,
		InvitedBy: uuid.New(),
		Email:     "test@example.com",
		Role:      "member",
	})
	assert.ErrorIs(err, ErrEntityAlreadyExists)
}

func TestCreateInvitationUnknownRole(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	store.On("IsInviteable", ctx, int64(7), "test@example.com").Return(true, nil)
	store.On("RoleByName", ctx, "nothere").Return(nil, db.ErrNotFound)

	_, err := service.Create(ctx, CreateInvitation{
		FamilyID:  7,
		InvitedBy: uuid.New(),
		Email:     "test@example.com",
		Role:      "nothere",
	})
	assert.ErrorIs(err, ErrUnknownRole)
}

func TestCreateInvitationInactiveRole(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	store.On("IsInviteable", ctx, int64(7), "test@example.com").Return(true, nil)
	store.On("RoleByName", ctx, "member").Return(&tables.RoleTable{
		Name:   "member",
		Active: false,
	}, nil)

	_, err := service.Create(ctx, CreateInvitation{
		FamilyID:  7,
		InvitedBy: uuid.New(),
		Email:     "test@example.com",
		Role:      "member",
	})
	assert.ErrorIs(err, ErrUnknownRole)
}

func TestCreateInvitationRoleEscalation(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	store.On("IsInviteable", ctx, int64(7), "test@example.com").Return(true, nil)
	store.On("RoleByName", ctx, "organizer").Return(&tables.RoleTable{
		Name:         "organizer",
		Capabilities: tables.StringSlice{"manage_projects"},
		Active:       true,
	}, nil)

	_, err := service.Create(ctx, CreateInvitation{
		FamilyID:            7,
		InvitedBy:           uuid.New(),
		InviterCapabilities: []string{"send_invitations"},
		Email:               "test@example.com",
		Role:                "organizer",
	})
	assert.ErrorIs(err, ErrRoleEscalation)
}

func TestCreateInvitationElevatedRole(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	store.On("IsInviteable", ctx, int64(7), "test@example.com").Return(true, nil)
	store.On("RoleByName", ctx, "admin").Return(&tables.RoleTable{
		Name:         "admin",
		Capabilities: tables.StringSlice{string(authorization.CapManageFamilies)},
		Active:       true,
	}, nil)

	all := authorization.All()
	caps := make([]string, len(all))
	for idx, c := range all {
		caps[idx] = string(c)
	}

	// even an inviter holding every capability cannot hand out
	// family administration by invitation
	_, err := service.Create(ctx, CreateInvitation{
		FamilyID:            7,
		InvitedBy:           uuid.New(),
		InviterCapabilities: caps,
		Email:               "test@example.com",
		Role:                "admin",
	})
	assert.ErrorIs(err, ErrElevatedRole)
	store.AssertNotCalled(t, "InsertInvitation", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "EnqueueEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateInvitationDefaultRole(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	row := pendingRow(7)
	store.On("IsInviteable", ctx, int64(7), "test@example.com").Return(true, nil)
	store.On("RoleByName", ctx, "member").Return(&tables.RoleTable{
		ID:           1,
		Name:         "member",
		Capabilities: tables.StringSlice{},
		Active:       true,
	}, nil)
	store.On("InvitationTokenExists", ctx, mock.Anything).Return(false, nil)
	store.On("InsertInvitation", ctx, mock.MatchedBy(func(p db.InsertInvitationParams) bool {
		return p.Role == "member"
	})).Return(int64(1), row.PublicID, nil)
	store.On("EnqueueEmail", ctx, db.OutboxKindInvite, int64(1)).Return(int64(1), nil)
	store.On("InvitationByPublicID", ctx, row.PublicID).Return(row, nil)
	dispatcher.On("Dispatch", ctx, mock.Anything).Return()

	inv, err := service.Create(ctx, CreateInvitation{
		FamilyID:  7,
		InvitedBy: uuid.New(),
		Email:     "test@example.com",
	})
	assert.Nil(err)
	assert.Equal("member", inv.Role())
}

func TestCancelInvitationAccepted(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	row := pendingRow(7)
	row.Status = db.InvitationStatusAccepted
	store.On("InvitationByPublicID", ctx, row.PublicID).Return(row, nil)

	err := service.Cancel(ctx, 7, row.PublicID, uuid.New())
	assert.ErrorIs(err, ErrInvalidTransition)
}

func TestCancelInvitationArchived(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	row := pendingRow(7)
	archived := time.Now().UTC()
	row.ArchivedAt = &archived
	store.On("InvitationByPublicID", ctx, row.PublicID).Return(row, nil)

	err := service.Cancel(ctx, 7, row.PublicID, uuid.New())
	assert.ErrorIs(err, ErrInviteArchived)
}

func TestCancelInvitationWrongFamily(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	row := pendingRow(7)
	store.On("InvitationByPublicID", ctx, row.PublicID).Return(row, nil)

	err := service.Cancel(ctx, 8, row.PublicID, uuid.New())
	assert.ErrorIs(err, ErrEntityDoesNotExist)
}

func TestCancelInvitation(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	row := pendingRow(7)
	store.On("InvitationByPublicID", ctx, row.PublicID).Return(row, nil)
	store.On("CancelInvitation", ctx, row.ID).Return(true, nil)
	store.On("DropOutboxForInvitation", ctx, row.ID).Return(nil)
	dispatcher.On("Dispatch", ctx, mock.Anything).Return()

	err := service.Cancel(ctx, 7, row.PublicID, uuid.New())
	assert.Nil(err)
}

func TestResendAcceptedInvitation(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	row := pendingRow(7)
	row.Status = db.InvitationStatusAccepted
	store.On("InvitationByPublicID", ctx, row.PublicID).Return(row, nil)

	_, err := service.Resend(ctx, 7, row.PublicID, nil)
	assert.ErrorIs(err, ErrInvalidTransition)
}

func TestResendExpiredInvitation(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	row := pendingRow(7)
	row.Status = db.InvitationStatusExpired
	store.On("InvitationByPublicID", ctx, row.PublicID).Return(row, nil)
	store.On("InvitationTokenExists", ctx, mock.Anything).Return(false, nil)
	store.On("ResetInvitationToken", ctx, row.ID, mock.Anything, mock.Anything, (*string)(nil)).
		Return(true, nil)
	store.On("EnqueueEmail", ctx, db.OutboxKindInvite, row.ID).Return(int64(2), nil)
	dispatcher.On("Dispatch", ctx, mock.Anything).Return()

	inv, err := service.Resend(ctx, 7, row.PublicID, nil)
	assert.Nil(err)
	assert.NotNil(inv)
}

func TestValidateUnknownToken(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	store.On("InvitationByToken", ctx, "nope").Return(nil, db.ErrNotFound)

	_, err := service.Validate(ctx, "nope")
	assert.ErrorIs(err, ErrEntityDoesNotExist)
}

func TestValidateExpiredToken(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	row := pendingRow(7)
	row.ExpiresAt = time.Now().UTC().Add(-time.Hour)
	store.On("InvitationByToken", ctx, row.Token).Return(row, nil)

	_, err := service.Validate(ctx, row.Token)
	assert.ErrorIs(err, ErrTokenExpired)
}

func TestValidateCancelledToken(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	row := pendingRow(7)
	row.Status = db.InvitationStatusCancelled
	store.On("InvitationByToken", ctx, row.Token).Return(row, nil)

	_, err := service.Validate(ctx, row.Token)
	assert.ErrorIs(err, ErrInvalidTransition)
}

func TestValidateArchivedToken(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	row := pendingRow(7)
	archived := time.Now().UTC()
	row.ArchivedAt = &archived
	store.On("InvitationByToken", ctx, row.Token).Return(row, nil)

	_, err := service.Validate(ctx, row.Token)
	assert.ErrorIs(err, ErrInviteArchived)
}

func TestValidate(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	row := pendingRow(7)
	store.On("InvitationByToken", ctx, row.Token).Return(row, nil)
	store.On("FamilyByID", ctx, int64(7)).Return(&tables.FamilyTable{
		ID:   7,
		Name: "The Does",
	}, nil)

	validation, err := service.Validate(ctx, row.Token)
	assert.Nil(err)
	assert.Equal("The Does", validation.FamilyName)
	assert.Equal(row.PublicID, validation.Invitation.ID())
}

func TestExpireOverdueDispatches(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	now := time.Now().UTC()
	store.On("ExpirePendingInvitations", ctx, now).Return(int64(3), nil)
	dispatcher.On("Dispatch", ctx, mock.Anything).Return()

	affected, err := service.ExpireOverdue(ctx, now)
	assert.Nil(err)
	assert.Equal(int64(3), affected)
}

func TestExpireOverdueNothingToDo(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	now := time.Now().UTC()
	store.On("ExpirePendingInvitations", ctx, now).Return(int64(0), nil)

	affected, err := service.ExpireOverdue(ctx, now)
	assert.Nil(err)
	assert.Equal(int64(0), affected)
}

func TestEnqueueDueReminders(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	now := time.Now().UTC()
	row := pendingRow(7)
	store.On("PendingInvitationsExpiringBefore", ctx, now, now.Add(48*time.Hour)).
		Return([]*tables.InvitationTable{row}, nil)
	store.On("SetInvitationReminderSent", ctx, row.ID).Return(nil)
	store.On("EnqueueEmail", ctx, db.OutboxKindReminder, row.ID).Return(int64(5), nil)

	queued, err := service.EnqueueDueReminders(ctx, now)
	assert.Nil(err)
	assert.Equal(1, queued)
}

func TestStats(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewInviteStorer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), dispatcher)

	store.On("InvitationStats", ctx, int64(7)).Return(
		[]db.StatusCount{{Status: "pending", Count: 2}, {Status: "accepted", Count: 1}},
		[]db.RoleCount{{Role: "member", Count: 3}},
		nil,
	)

	stats, err := service.Stats(ctx, int64(7))
	assert.Nil(err)
	assert.Equal(2, stats.ByStatus["pending"])
	assert.Equal(1, stats.ByStatus["accepted"])
	assert.Equal(3, stats.ByRole["member"])
}
