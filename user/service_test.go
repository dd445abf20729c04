package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/config"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/db/tables"
	"github.com/kinfolkhq/kinfolk/invites"
	"github.com/kinfolkhq/kinfolk/user/mocks"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Configuration {
	return &config.Configuration{
		Behaviour: &config.BehaviourConfiguration{
			PasswordMinLength: 8,
			InviteExpiry:      7 * 24 * time.Hour,
		},
	}
}

func testValidation(familyID int64) *invites.Validation {
	return &invites.Validation{
		Invitation: invites.NewInvitation(&tables.InvitationTable{
			ID:        1,
			PublicID:  uuid.New(),
			FamilyID:  familyID,
			Email:     "invited@example.com",
			Role:      "member",
			Status:    db.InvitationStatusPending,
			Token:     "sometoken",
			ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
			InvitedBy: uuid.New(),
		}),
		FamilyName: "The Does",
	}
}

func expectSession(issuer *mocks.TokenIssuer, ctx context.Context) {
	issuer.On("IssueAccessTokenForUser", mock.Anything, mock.Anything, mock.Anything).
		Return(jwt.New(), nil)
	issuer.On("Sign", mock.Anything).Return([]byte("signed"), nil)
	issuer.On("IssueRefreshToken", ctx, mock.Anything).Return("refresh", nil)
}

func TestRegisterFromInvite(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewUserStorer(t)
	redeemer := mocks.NewInviteRedeemer(t)
	issuer := mocks.NewTokenIssuer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), redeemer, issuer, dispatcher)

	userID := uuid.New()
	validation := testValidation(7)

	redeemer.On("Validate", ctx, "sometoken").Return(validation, nil)
	store.On("IsRegistred", ctx, "invited@example.com").Return(false, nil)
	store.On("InsertUser", ctx, "invited@example.com", (*string)(nil), (*string)(nil), mock.Anything).
		Return(userID, nil)
	redeemer.On("Accept", ctx, "sometoken", userID).Return(validation.Invitation, nil)
	store.On("RoleByName", ctx, "member").Return(&tables.RoleTable{ID: 3, Name: "member"}, nil)
	store.On("AddMembership", ctx, int64(7), userID, int64(3), (*time.Time)(nil)).
		Return(int64(1), nil)
	dispatcher.On("Dispatch", ctx, mock.Anything).Return()
	expectSession(issuer, ctx)

	session, err := service.RegisterFromInvite(ctx, "sometoken", "longenough", nil, nil)
	assert.Nil(err)
	assert.Equal(userID, session.UserID)
	assert.Equal("invited@example.com", session.Email)
	assert.Equal("signed", session.AccessToken)
	assert.Equal("refresh", session.RefreshToken)
}

func TestRegisterFromInviteShortPassword(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewUserStorer(t)
	redeemer := mocks.NewInviteRedeemer(t)
	issuer := mocks.NewTokenIssuer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), redeemer, issuer, dispatcher)

	redeemer.On("Validate", ctx, "sometoken").Return(testValidation(7), nil)

	_, err := service.RegisterFromInvite(ctx, "sometoken", "short", nil, nil)
	assert.ErrorIs(err, ErrPasswordGuidelines)
}

func TestRegisterFromInviteExpiredToken(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewUserStorer(t)
	redeemer := mocks.NewInviteRedeemer(t)
	issuer := mocks.NewTokenIssuer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), redeemer, issuer, dispatcher)

	redeemer.On("Validate", ctx, "sometoken").Return(nil, invites.ErrTokenExpired)

	_, err := service.RegisterFromInvite(ctx, "sometoken", "longenough", nil, nil)
	assert.ErrorIs(err, invites.ErrTokenExpired)
}

func TestRegisterFromInviteAlreadyRegistered(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewUserStorer(t)
	redeemer := mocks.NewInviteRedeemer(t)
	issuer := mocks.NewTokenIssuer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), redeemer, issuer, dispatcher)

	redeemer.On("Validate", ctx, "sometoken").Return(testValidation(7), nil)
	store.On("IsRegistred", ctx, "invited@example.com").Return(true, nil)

	_, err := service.RegisterFromInvite(ctx, "sometoken", "longenough", nil, nil)
	assert.ErrorIs(err, ErrEntityAlreadyExists)
}

func TestRegisterFromInviteLostRace(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewUserStorer(t)
	redeemer := mocks.NewInviteRedeemer(t)
	issuer := mocks.NewTokenIssuer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), redeemer, issuer, dispatcher)

	userID := uuid.New()
	redeemer.On("Validate", ctx, "sometoken").Return(testValidation(7), nil)
	store.On("IsRegistred", ctx, "invited@example.com").Return(false, nil)
	store.On("InsertUser", ctx, "invited@example.com", (*string)(nil), (*string)(nil), mock.Anything).
		Return(userID, nil)
	redeemer.On("Accept", ctx, "sometoken", userID).Return(nil, invites.ErrInvalidTransition)
	dispatcher.On("Dispatch", ctx, mock.Anything).Return()

	_, err := service.RegisterFromInvite(ctx, "sometoken", "longenough", nil, nil)
	assert.ErrorIs(err, invites.ErrInvalidTransition)
}

func TestSignIn(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewUserStorer(t)
	redeemer := mocks.NewInviteRedeemer(t)
	issuer := mocks.NewTokenIssuer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), redeemer, issuer, dispatcher)

	hash, err := bcrypt.GenerateFromPassword([]byte("testtest"), bcrypt.DefaultCost)
	assert.Nil(err)
	userID := uuid.New()
	store.On("UserByEmail", ctx, "test@example.com").Return(&tables.UserTable{
		ID:       userID,
		Email:    "test@example.com",
		Password: string(hash),
	}, nil)
	dispatcher.On("Dispatch", ctx, mock.Anything).Return()
	expectSession(issuer, ctx)

	session, err := service.SignIn(ctx, "test@example.com", "testtest")
	assert.Nil(err)
	assert.Equal(userID, session.UserID)
}

func TestSignInWrongPassword(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewUserStorer(t)
	redeemer := mocks.NewInviteRedeemer(t)
	issuer := mocks.NewTokenIssuer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), redeemer, issuer, dispatcher)

	hash, err := bcrypt.GenerateFromPassword([]byte("testtest"), bcrypt.DefaultCost)
	assert.Nil(err)
	store.On("UserByEmail", ctx, "test@example.com").Return(&tables.UserTable{
		ID:       uuid.New(),
		Email:    "test@example.com",
		Password: string(hash),
	}, nil)

	_, err = service.SignIn(ctx, "test@example.com", "nottherightone")
	assert.ErrorIs(err, ErrInvalidCredentials)
}

func TestSignInUnknownUser(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewUserStorer(t)
	redeemer := mocks.NewInviteRedeemer(t)
	issuer := mocks.NewTokenIssuer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), redeemer, issuer, dispatcher)

	store.On("UserByEmail", ctx, "nobody@example.com").Return(nil, db.ErrNotFound)

	_, err := service.SignIn(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(err, ErrInvalidCredentials)
}

func TestEmailToID(t *testing.T) {
	assert := assert.New(t)
	logger := zaptest.NewLogger(t)
	store := mocks.NewUserStorer(t)
	redeemer := mocks.NewInviteRedeemer(t)
	issuer := mocks.NewTokenIssuer(t)
	dispatcher := mocks.NewDispatcher(t)
	ctx := context.Background()
	service := New(store, logger, testConfig(), redeemer, issuer, dispatcher)

	uid := uuid.New()
	store.On("IDFromEmail", ctx, "test@example.com").Return(true, uid, nil)

	id, found := service.EmailToID(ctx, "test@example.com")
	assert.True(found)
	assert.Equal(uid, id)
}
