//go:build integration
// +build integration

package db

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v4/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

type DatabaseIntegrationTestSuite struct {
	suite.Suite
	dataStore *DataStore
	dbType    string
	dsn       string
}

func (s *DatabaseIntegrationTestSuite) SetupTest() {
	//reset to clean state
	switch s.dbType {
	case "sqlite":
		//just reopen for :memory:
		dataStore, err := NewSqliteStore(zap.NewNop(), &config.DatabaseConfiguration{
			Type: s.dbType,
			DSN:  s.dsn,
		})
		if err != nil {
			log.Fatal("error creating database store")
		}
		s.dataStore = dataStore
	case "pg":
		s.dataStore.db.MustExec("DROP SCHEMA IF EXISTS kinfolk CASCADE;")
	case "mysql":
		s.dataStore.db.MustExec("DROP DATABASE IF EXISTS kinfolk;")
		s.dataStore.db.MustExec("CREATE DATABASE kinfolk;")
		s.dataStore.db.MustExec("USE kinfolk;")
	}

	err := s.dataStore.EnsureUsable()
	assert.NoError(s.T(), err)
}

func (s *DatabaseIntegrationTestSuite) seedUser(email string) uuid.UUID {
	id, err := s.dataStore.InsertUser(context.Background(), email, nil, nil, "hashed")
	assert.NoError(s.T(), err)
	return id
}

func (s *DatabaseIntegrationTestSuite) seedFamily(name string, createdBy uuid.UUID) int64 {
	id, _, err := s.dataStore.InsertFamily(context.Background(), name, createdBy)
	assert.NoError(s.T(), err)
	return id
}

func (s *DatabaseIntegrationTestSuite) seedRole(name string, caps []string) int64 {
	id, err := s.dataStore.AddRole(context.Background(), name, caps)
	assert.NoError(s.T(), err)
	return id
}

func (s *DatabaseIntegrationTestSuite) seedInvitation(familyID int64, email string, token string) int64 {
	id, _, err := s.dataStore.InsertInvitation(context.Background(), InsertInvitationParams{
		FamilyID:  familyID,
		Email:     email,
		Role:      "member",
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
		InvitedBy: s.seedUser("inviter-" + token + "@example.com"),
	})
	assert.NoError(s.T(), err)
	return id
}

// Users part

func (s *DatabaseIntegrationTestSuite) TestInsertUserDuplicateEmail() {
	s.seedUser("dup@example.com")
	_, err := s.dataStore.InsertUser(context.Background(), "dup@example.com", nil, nil, "hashed")
	assert.ErrorIs(s.T(), err, ErrAlreadyExists)
}

func (s *DatabaseIntegrationTestSuite) TestUserByIDNotFound() {
	_, err := s.dataStore.UserByID(context.Background(), uuid.New())
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *DatabaseIntegrationTestSuite) TestIDFromEmail() {
	id := s.seedUser("findme@example.com")
	found, got, err := s.dataStore.IDFromEmail(context.Background(), "findme@example.com")
	assert.NoError(s.T(), err)
	assert.True(s.T(), found)
	assert.Equal(s.T(), id, got)
}

func (s *DatabaseIntegrationTestSuite) TestSetSuperuser() {
	id := s.seedUser("op@example.com")
	err := s.dataStore.SetSuperuser(context.Background(), id, true)
	assert.NoError(s.T(), err)
	user, err := s.dataStore.UserByID(context.Background(), id)
	assert.NoError(s.T(), err)
	assert.True(s.T(), user.Superuser)
}

// Invitations part

func (s *DatabaseIntegrationTestSuite) TestInsertInvitationRefusesSecondPending() {
	creator := s.seedUser("creator@example.com")
	familyID := s.seedFamily("testers", creator)
	s.seedInvitation(familyID, "invited@example.com", "token-one")
	_, _, err := s.dataStore.InsertInvitation(context.Background(), InsertInvitationParams{
		FamilyID:  familyID,
		Email:     "invited@example.com",
		Role:      "member",
		Token:     "token-two",
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
		InvitedBy: creator,
	})
	assert.ErrorIs(s.T(), err, ErrAlreadyExists)
}

func (s *DatabaseIntegrationTestSuite) TestAcceptInvitationSecondAcceptLoses() {
	creator := s.seedUser("creator@example.com")
	familyID := s.seedFamily("testers", creator)
	id := s.seedInvitation(familyID, "invited@example.com", "token-one")

	first := s.seedUser("first@example.com")
	ok, err := s.dataStore.AcceptInvitation(context.Background(), id, first)
	assert.NoError(s.T(), err)
	assert.True(s.T(), ok)

	second := s.seedUser("second@example.com")
	ok, err = s.dataStore.AcceptInvitation(context.Background(), id, second)
	assert.NoError(s.T(), err)
	assert.False(s.T(), ok)

	inv, err := s.dataStore.InvitationByID(context.Background(), id)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), InvitationStatusAccepted, inv.Status)
	if assert.NotNil(s.T(), inv.AcceptedBy) {
		assert.Equal(s.T(), first, *inv.AcceptedBy)
	}
}

func (s *DatabaseIntegrationTestSuite) TestCancelAcceptedInvitationFails() {
	creator := s.seedUser("creator@example.com")
	familyID := s.seedFamily("testers", creator)
	id := s.seedInvitation(familyID, "invited@example.com", "token-one")
	_, err := s.dataStore.AcceptInvitation(context.Background(), id, s.seedUser("joined@example.com"))
	assert.NoError(s.T(), err)

	ok, err := s.dataStore.CancelInvitation(context.Background(), id)
	assert.NoError(s.T(), err)
	assert.False(s.T(), ok)
}

func (s *DatabaseIntegrationTestSuite) TestResetInvitationTokenReopensExpired() {
	creator := s.seedUser("creator@example.com")
	familyID := s.seedFamily("testers", creator)
	id := s.seedInvitation(familyID, "invited@example.com", "token-one")

	affected, err := s.dataStore.ExpirePendingInvitations(context.Background(), time.Now().UTC().Add(48*time.Hour))
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), affected)

	ok, err := s.dataStore.ResetInvitationToken(
		context.Background(),
		id,
		"token-fresh",
		time.Now().UTC().Add(24*time.Hour),
		nil,
	)
	assert.NoError(s.T(), err)
	assert.True(s.T(), ok)

	inv, err := s.dataStore.InvitationByID(context.Background(), id)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), InvitationStatusPending, inv.Status)
	assert.Equal(s.T(), "token-fresh", inv.Token)
}

func (s *DatabaseIntegrationTestSuite) TestExpirePendingInvitationsIsRerunSafe() {
	creator := s.seedUser("creator@example.com")
	familyID := s.seedFamily("testers", creator)
	s.seedInvitation(familyID, "invited@example.com", "token-one")

	cutoff := time.Now().UTC().Add(48 * time.Hour)
	affected, err := s.dataStore.ExpirePendingInvitations(context.Background(), cutoff)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), affected)

	affected, err = s.dataStore.ExpirePendingInvitations(context.Background(), cutoff)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), int64(0), affected)
}

func (s *DatabaseIntegrationTestSuite) TestArchiveInvitationsBeforeSkipsPending() {
	creator := s.seedUser("creator@example.com")
	familyID := s.seedFamily("testers", creator)
	pending := s.seedInvitation(familyID, "pending@example.com", "token-one")
	cancelled := s.seedInvitation(familyID, "cancelled@example.com", "token-two")
	ok, err := s.dataStore.CancelInvitation(context.Background(), cancelled)
	assert.NoError(s.T(), err)
	assert.True(s.T(), ok)

	affected, err := s.dataStore.ArchiveInvitationsBefore(context.Background(), time.Now().UTC().Add(time.Hour))
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), affected)

	inv, err := s.dataStore.InvitationByID(context.Background(), pending)
	assert.NoError(s.T(), err)
	assert.Nil(s.T(), inv.ArchivedAt)

	inv, err = s.dataStore.InvitationByID(context.Background(), cancelled)
	assert.NoError(s.T(), err)
	assert.NotNil(s.T(), inv.ArchivedAt)
}

// Outbox part

func (s *DatabaseIntegrationTestSuite) TestOutboxDueAndSent() {
	creator := s.seedUser("creator@example.com")
	familyID := s.seedFamily("testers", creator)
	invitationID := s.seedInvitation(familyID, "invited@example.com", "token-one")

	id, err := s.dataStore.EnqueueEmail(context.Background(), OutboxKindInvite, invitationID)
	assert.NoError(s.T(), err)

	due, err := s.dataStore.DueEmails(context.Background(), time.Now().UTC().Add(time.Minute), 3, 10)
	assert.NoError(s.T(), err)
	if assert.Len(s.T(), due, 1) {
		assert.Equal(s.T(), id, due[0].ID)
		assert.Equal(s.T(), OutboxKindInvite, due[0].Kind)
	}

	err = s.dataStore.MarkEmailSent(context.Background(), id)
	assert.NoError(s.T(), err)

	due, err = s.dataStore.DueEmails(context.Background(), time.Now().UTC().Add(time.Minute), 3, 10)
	assert.NoError(s.T(), err)
	assert.Len(s.T(), due, 0)
}

func (s *DatabaseIntegrationTestSuite) TestOutboxBurnedAttemptsStayBehind() {
	creator := s.seedUser("creator@example.com")
	familyID := s.seedFamily("testers", creator)
	invitationID := s.seedInvitation(familyID, "invited@example.com", "token-one")

	id, err := s.dataStore.EnqueueEmail(context.Background(), OutboxKindReminder, invitationID)
	assert.NoError(s.T(), err)

	err = s.dataStore.MarkEmailFailed(context.Background(), id, 3, time.Now().UTC(), "smtp said no")
	assert.NoError(s.T(), err)

	due, err := s.dataStore.DueEmails(context.Background(), time.Now().UTC().Add(time.Minute), 3, 10)
	assert.NoError(s.T(), err)
	assert.Len(s.T(), due, 0)

	//still in the table as a delivery trace
	entry, err := s.dataStore.InvitationByID(context.Background(), invitationID)
	assert.NoError(s.T(), err)
	assert.NotNil(s.T(), entry)
}

// Refresh tokens part

func (s *DatabaseIntegrationTestSuite) TestRedeemRefreshTokenIsSingleUse() {
	userID := s.seedUser("session@example.com")
	_, err := s.dataStore.InsertRefreshToken(
		context.Background(),
		userID,
		"refresh-token",
		time.Now().UTC().Add(time.Hour),
	)
	assert.NoError(s.T(), err)

	got, err := s.dataStore.RedeemRefreshToken(context.Background(), "refresh-token", time.Now().UTC())
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), userID, got)

	_, err = s.dataStore.RedeemRefreshToken(context.Background(), "refresh-token", time.Now().UTC())
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *DatabaseIntegrationTestSuite) TestRedeemExpiredRefreshToken() {
	userID := s.seedUser("session@example.com")
	_, err := s.dataStore.InsertRefreshToken(
		context.Background(),
		userID,
		"refresh-token",
		time.Now().UTC().Add(-time.Hour),
	)
	assert.NoError(s.T(), err)

	_, err = s.dataStore.RedeemRefreshToken(context.Background(), "refresh-token", time.Now().UTC())
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

// Memberships part

func (s *DatabaseIntegrationTestSuite) TestActiveMembershipAfterRevoke() {
	creator := s.seedUser("creator@example.com")
	familyID := s.seedFamily("testers", creator)
	roleID := s.seedRole("member", []string{"send_invitations"})
	member := s.seedUser("member@example.com")

	_, err := s.dataStore.AddMembership(context.Background(), familyID, member, roleID, nil)
	assert.NoError(s.T(), err)

	row, err := s.dataStore.ActiveMembership(context.Background(), familyID, member)
	assert.NoError(s.T(), err)
	if assert.NotNil(s.T(), row) {
		assert.Equal(s.T(), "member", row.RoleName)
	}

	err = s.dataStore.RevokeMembership(context.Background(), familyID, member)
	assert.NoError(s.T(), err)

	_, err = s.dataStore.ActiveMembership(context.Background(), familyID, member)
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func TestDatabaseSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping database integration tests")
	}
	s := &DatabaseIntegrationTestSuite{}
	logger := zaptest.NewLogger(t)
	dbType := os.Getenv("INTEGRATION_TEST_DB_TYPE")
	dsn := os.Getenv("INTEGRATION_TEST_DB_DSN")
	switch dbType {
	case "mysql":
		dataStore, err := NewMysqlStore(logger, &config.DatabaseConfiguration{
			Type: dbType,
			DSN:  dsn,
		})
		if err != nil {
			log.Fatal("error creating database store")
		}
		s.dataStore = dataStore
	case "pg":
		dataStore, err := NewPostgrestore(logger, &config.DatabaseConfiguration{
			Type: dbType,
			DSN:  dsn,
		})
		if err != nil {
			log.Fatal("error creating database store")
		}
		s.dataStore = dataStore
	default:
		dbType = "sqlite"
		if dsn == "" {
			dsn = ":memory:"
		}
		dataStore, err := NewSqliteStore(logger, &config.DatabaseConfiguration{
			Type: dbType,
			DSN:  dsn,
		})
		if err != nil {
			log.Fatal("error creating database store")
		}
		s.dataStore = dataStore
	}
	s.dbType = dbType
	s.dsn = dsn
	suite.Run(t, s)
}
