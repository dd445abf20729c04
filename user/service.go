package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/config"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/db/tables"
	"github.com/kinfolkhq/kinfolk/events"
	"github.com/kinfolkhq/kinfolk/events/event"
	"github.com/kinfolkhq/kinfolk/invites"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEntityDoesNotExist  = errors.New("entity does not exist")
	ErrEntityAlreadyExists = errors.New("entity already exists in system")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPasswordGuidelines  = errors.New("password doesnt match password guidlines")
)

// UserStorer is the persistence surface of the user service
type UserStorer interface {
	IsRegistred(ctx context.Context, email string) (bool, error)
	InsertUser(
		ctx context.Context,
		email string,
		firstName *string,
		lastName *string,
		passwordHash string,
	) (uuid.UUID, error)
	UserByEmail(ctx context.Context, email string) (*tables.UserTable, error)
	UserByID(ctx context.Context, id uuid.UUID) (*tables.UserTable, error)
	IDFromEmail(ctx context.Context, email string) (bool, uuid.UUID, error)
	RoleByName(ctx context.Context, name string) (*tables.RoleTable, error)
	AddMembership(
		ctx context.Context,
		familyID int64,
		userID uuid.UUID,
		roleID int64,
		validUntil *time.Time,
	) (int64, error)
	RedeemRefreshToken(ctx context.Context, token string, now time.Time) (uuid.UUID, error)
}

// InviteRedeemer is the slice of the invitation state machine the
// registration flow needs
type InviteRedeemer interface {
	Validate(ctx context.Context, token string) (*invites.Validation, error)
	Accept(ctx context.Context, token string, userID uuid.UUID) (*invites.Invitation, error)
}

// TokenIssuer mints the session credentials handed out after signup and signin
type TokenIssuer interface {
	IssueAccessTokenForUser(userID uuid.UUID, email string, displayName string) (jwt.Token, error)
	Sign(token jwt.Token) ([]byte, error)
	IssueRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)
}

// Dispatcher used to dispatch events
type Dispatcher interface {
	Dispatch(ctx context.Context, ev events.Event)
}

// Service covers registration and signin
type Service struct {
	store      UserStorer
	log        *zap.Logger
	cfg        *config.Configuration
	invites    InviteRedeemer
	issuer     TokenIssuer
	dispatcher Dispatcher
}

// New assembles the user service
func New(store UserStorer,
	log *zap.Logger,
	cfg *config.Configuration,
	inviteService InviteRedeemer,
	issuer TokenIssuer,
	dispatcher Dispatcher) *Service {
	return &Service{
		store:      store,
		log:        log,
		cfg:        cfg,
		invites:    inviteService,
		issuer:     issuer,
		dispatcher: dispatcher,
	}
}

// SignedInUser is an established session
type SignedInUser struct {
	UserID       uuid.UUID
	Email        string
	AccessToken  string
	RefreshToken string
}

func displayName(first *string, last *string) string {
	parts := make([]string, 0, 2)
	if first != nil && *first != "" {
		parts = append(parts, *first)
	}
	if last != nil && *last != "" {
		parts = append(parts, *last)
	}
	return strings.Join(parts, " ")
}

func (g *Service) issueSession(
	ctx context.Context,
	userID uuid.UUID,
	email string,
	name string,
) (*SignedInUser, error) {
	access, err := g.issuer.IssueAccessTokenForUser(userID, email, name)
	if err != nil {
		g.log.Error("Unable to build access token", zap.Error(err))
		return nil, err
	}
	signed, err := g.issuer.Sign(access)
	if err != nil {
		g.log.Error("Unable to sign access token", zap.Error(err))
		return nil, err
	}
	refresh, err := g.issuer.IssueRefreshToken(ctx, userID)
	if err != nil {
		g.log.Error("Unable to issue refresh token", zap.Error(err))
		return nil, err
	}
	return &SignedInUser{
		UserID:       userID,
		Email:        email,
		AccessToken:  string(signed),
		RefreshToken: refresh,
	}, nil
}

// shared register boilerplate
func (g *Service) register(
	ctx context.Context,
	email string,
	password string,
	firstName *string,
	lastName *string,
) (uuid.UUID, error) {
	if len(password) < g.cfg.Behaviour.PasswordMinLength {
		return uuid.UUID{}, ErrPasswordGuidelines
	}
	regis, err := g.store.IsRegistred(ctx, email)
	if err != nil {
		g.log.Error(
			"Could not check registration in data store",
			zap.String("email", email),
			zap.Error(err),
		)
		return uuid.UUID{}, err
	}
	if regis {
		return uuid.UUID{}, ErrEntityAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.UUID{}, err
	}
	id, err := g.store.InsertUser(ctx, email, firstName, lastName, string(hash))
	if err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return uuid.UUID{}, ErrEntityAlreadyExists
		}
		return uuid.UUID{}, err
	}
	g.dispatcher.Dispatch(ctx, &event.UserSignup{
		UserID: id,
		Email:  email,
	})
	return id, nil
}

// RegisterFromInvite redeems an invitation token into a fresh account,
// grants the membership the invitation promised and establishes a session,
// the email is taken from the invitation and cannot be chosen
func (g *Service) RegisterFromInvite(
	ctx context.Context,
	token string,
	password string,
	firstName *string,
	lastName *string,
) (*SignedInUser, error) {
	validation, err := g.invites.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	inv := validation.Invitation
	if firstName == nil {
		firstName = inv.FirstName()
	}
	if lastName == nil {
		lastName = inv.LastName()
	}
	id, err := g.register(ctx, inv.Email(), password, firstName, lastName)
	if err != nil {
		g.log.Error("unable to register from invite", zap.Error(err))
		return nil, err
	}
	_, err = g.invites.Accept(ctx, token, id)
	if err != nil {
		// the account exists but the token was consumed by someone else
		// in between, nothing to grant
		g.log.Warn(
			"could not accept invitation after registration",
			zap.String("user_id", id.String()),
			zap.Error(err),
		)
		return nil, err
	}
	role, err := g.store.RoleByName(ctx, inv.Role())
	if err != nil {
		g.log.Error(
			"could not resolve invited role",
			zap.String("role", inv.Role()),
			zap.Error(err),
		)
		return nil, err
	}
	_, err = g.store.AddMembership(ctx, inv.FamilyID(), id, role.ID, nil)
	if err != nil && !errors.Is(err, db.ErrAlreadyExists) {
		g.log.Error(
			"could not grant membership",
			zap.String("user_id", id.String()),
			zap.Int64("family_id", inv.FamilyID()),
			zap.Error(err),
		)
		return nil, err
	}
	g.dispatcher.Dispatch(ctx, &event.MemberJoined{
		UserID:   id,
		FamilyID: inv.FamilyID(),
		Role:     inv.Role(),
	})
	return g.issueSession(ctx, id, inv.Email(), displayName(firstName, lastName))
}

// SignIn verifies credentials and establishes a session
func (g *Service) SignIn(ctx context.Context, email string, password string) (*SignedInUser, error) {
	ud, err := g.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		g.log.Error("Unable to load user for signin", zap.Error(err))
		return nil, err
	}
	err = bcrypt.CompareHashAndPassword([]byte(ud.Password), []byte(password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	g.dispatcher.Dispatch(ctx, &event.UserLogin{
		UserID: ud.ID,
	})
	return g.issueSession(ctx, ud.ID, ud.Email, displayName(ud.FirstName, ud.LastName))
}

// Refresh swaps a single use refresh token for a fresh session
func (g *Service) Refresh(ctx context.Context, refreshToken string) (*SignedInUser, error) {
	id, err := g.store.RedeemRefreshToken(ctx, refreshToken, time.Now().UTC())
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		g.log.Error("Unable to redeem refresh token", zap.Error(err))
		return nil, err
	}
	ud, err := g.store.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return g.issueSession(ctx, ud.ID, ud.Email, displayName(ud.FirstName, ud.LastName))
}

// EmailToID resolves an email address to a user id if there is one
func (g *Service) EmailToID(ctx context.Context, email string) (uuid.UUID, bool) {
	found, id, err := g.store.IDFromEmail(ctx, email)
	if err != nil {
		g.log.Error("Unable to resolve email to id", zap.Error(err))
		return uuid.UUID{}, false
	}
	if !found {
		return uuid.UUID{}, false
	}
	return id, true
}
