package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/db/tables"
	"github.com/kinfolkhq/kinfolk/events/event"
	"github.com/kinfolkhq/kinfolk/jobs/mocks"
	"github.com/kinfolkhq/kinfolk/mailing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"
)

func pendingInvitation() *tables.InvitationTable {
	return &tables.InvitationTable{
		ID:        1,
		PublicID:  uuid.New(),
		FamilyID:  7,
		Email:     "invited@example.com",
		Role:      "member",
		Status:    db.InvitationStatusPending,
		Token:     "sometoken",
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
		InvitedBy: uuid.New(),
	}
}

func dueEntry(kind string) *tables.EmailOutboxTable {
	return &tables.EmailOutboxTable{
		ID:           10,
		Kind:         kind,
		InvitationID: 1,
		Attempts:     0,
	}
}

func TestDrainSendsInviteMail(t *testing.T) {
	assert := assert.New(t)
	store := mocks.NewOutboxStorer(t)
	mailer := mocks.NewInviteMailSender(t)
	dispatcher := mocks.NewDispatcher(t)
	drain := NewOutboxDrain(store, mailer, zaptest.NewLogger(t), dispatcher, "en")
	ctx := context.Background()

	inv := pendingInvitation()
	store.On("DueEmails", ctx, mock.Anything, maxAttempts, drainBatchSize).
		Return([]*tables.EmailOutboxTable{dueEntry(db.OutboxKindInvite)}, nil)
	store.On("InvitationByID", ctx, int64(1)).Return(inv, nil)
	store.On("FamilyByID", ctx, int64(7)).Return(&tables.FamilyTable{ID: 7, Name: "The Does"}, nil)
	store.On("UserByID", ctx, inv.InvitedBy).Return(&tables.UserTable{
		ID:    inv.InvitedBy,
		Email: "jane@example.com",
	}, nil)
	mailer.On("SendInviteMail", mock.MatchedBy(func(d mailing.InviteMailData) bool {
		return d.Email == "invited@example.com" &&
			d.Token == "sometoken" &&
			d.FamilyName == "The Does" &&
			d.InviterName == "jane@example.com"
	})).Return(nil)
	store.On("MarkEmailSent", ctx, int64(10)).Return(nil)
	dispatcher.On("Dispatch", ctx, mock.MatchedBy(func(ev interface{}) bool {
		_, ok := ev.(*event.EmailInviteSent)
		return ok
	})).Return()

	sent, err := drain.Drain(ctx)
	assert.Nil(err)
	assert.Equal(1, sent)
}

func TestDrainDropsStaleEntry(t *testing.T) {
	assert := assert.New(t)
	store := mocks.NewOutboxStorer(t)
	mailer := mocks.NewInviteMailSender(t)
	dispatcher := mocks.NewDispatcher(t)
	drain := NewOutboxDrain(store, mailer, zaptest.NewLogger(t), dispatcher, "en")
	ctx := context.Background()

	inv := pendingInvitation()
	inv.Status = db.InvitationStatusCancelled
	store.On("DueEmails", ctx, mock.Anything, maxAttempts, drainBatchSize).
		Return([]*tables.EmailOutboxTable{dueEntry(db.OutboxKindInvite)}, nil)
	store.On("InvitationByID", ctx, int64(1)).Return(inv, nil)
	store.On("DropOutboxEntry", ctx, int64(10)).Return(nil)

	sent, err := drain.Drain(ctx)
	assert.Nil(err)
	assert.Equal(1, sent)
	mailer.AssertNotCalled(t, "SendInviteMail", mock.Anything)
}

func TestDrainDropsOrphanedEntry(t *testing.T) {
	assert := assert.New(t)
	store := mocks.NewOutboxStorer(t)
	mailer := mocks.NewInviteMailSender(t)
	dispatcher := mocks.NewDispatcher(t)
	drain := NewOutboxDrain(store, mailer, zaptest.NewLogger(t), dispatcher, "en")
	ctx := context.Background()

	store.On("DueEmails", ctx, mock.Anything, maxAttempts, drainBatchSize).
		Return([]*tables.EmailOutboxTable{dueEntry(db.OutboxKindInvite)}, nil)
	store.On("InvitationByID", ctx, int64(1)).Return(nil, db.ErrNotFound)
	store.On("DropOutboxEntry", ctx, int64(10)).Return(nil)

	_, err := drain.Drain(ctx)
	assert.Nil(err)
}

func TestDrainSchedulesRetry(t *testing.T) {
	assert := assert.New(t)
	store := mocks.NewOutboxStorer(t)
	mailer := mocks.NewInviteMailSender(t)
	dispatcher := mocks.NewDispatcher(t)
	drain := NewOutboxDrain(store, mailer, zaptest.NewLogger(t), dispatcher, "en")
	ctx := context.Background()

	inv := pendingInvitation()
	store.On("DueEmails", ctx, mock.Anything, maxAttempts, drainBatchSize).
		Return([]*tables.EmailOutboxTable{dueEntry(db.OutboxKindInvite)}, nil)
	store.On("InvitationByID", ctx, int64(1)).Return(inv, nil)
	store.On("FamilyByID", ctx, int64(7)).Return(&tables.FamilyTable{ID: 7, Name: "The Does"}, nil)
	store.On("UserByID", ctx, inv.InvitedBy).Return(&tables.UserTable{
		ID:    inv.InvitedBy,
		Email: "jane@example.com",
	}, nil)
	mailer.On("SendInviteMail", mock.Anything).Return(errors.New("smtp down"))
	store.On("MarkEmailFailed", ctx, int64(10), 1, mock.Anything, "smtp down").Return(nil)

	sent, err := drain.Drain(ctx)
	assert.Nil(err)
	assert.Equal(0, sent)
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestDrainGivesUpAfterMaxAttempts(t *testing.T) {
	assert := assert.New(t)
	store := mocks.NewOutboxStorer(t)
	mailer := mocks.NewInviteMailSender(t)
	dispatcher := mocks.NewDispatcher(t)
	drain := NewOutboxDrain(store, mailer, zaptest.NewLogger(t), dispatcher, "en")
	ctx := context.Background()

	inv := pendingInvitation()
	entry := dueEntry(db.OutboxKindReminder)
	entry.Attempts = maxAttempts - 1
	store.On("DueEmails", ctx, mock.Anything, maxAttempts, drainBatchSize).
		Return([]*tables.EmailOutboxTable{entry}, nil)
	store.On("InvitationByID", ctx, int64(1)).Return(inv, nil)
	store.On("FamilyByID", ctx, int64(7)).Return(&tables.FamilyTable{ID: 7, Name: "The Does"}, nil)
	store.On("UserByID", ctx, inv.InvitedBy).Return(&tables.UserTable{
		ID:    inv.InvitedBy,
		Email: "jane@example.com",
	}, nil)
	mailer.On("SendReminderMail", mock.Anything).Return(errors.New("smtp down"))
	store.On("MarkEmailFailed", ctx, int64(10), maxAttempts, mock.Anything, "smtp down").Return(nil)
	dispatcher.On("Dispatch", ctx, mock.MatchedBy(func(ev interface{}) bool {
		failed, ok := ev.(*event.EmailDeliveryFailed)
		return ok && failed.Attempts == maxAttempts
	})).Return()

	sent, err := drain.Drain(ctx)
	assert.Nil(err)
	assert.Equal(0, sent)
}

func TestRetryBackoffDoubles(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(time.Minute, retryBackoff(1))
	assert.Equal(2*time.Minute, retryBackoff(2))
	assert.Equal(4*time.Minute, retryBackoff(3))
}
