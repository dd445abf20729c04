package manage

import (
	"context"

	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/config"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/events"
	"github.com/kinfolkhq/kinfolk/user"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	store      *db.DataStore
	log        *zap.Logger
	cfg        *config.Configuration
	dispatcher *events.Dispatcher
}

func (u *UserService) List(
	ctx context.Context,
	page int,
	pageSize int,
	q string,
	sort string,
) (*PaginationResponse, error) {
	users, total, err := u.store.Users(
		ctx,
		db.ListOptions{Page: page, PageSize: pageSize, Query: q, Sort: sort},
	)
	if err != nil {
		return nil, err
	}
	dtos := make([]*UserDTO, 0)
	for _, v := range users {
		dtos = append(dtos, userDTOfromDB(v))
	}
	return &PaginationResponse{
		Total:   total,
		Entries: dtos,
	}, nil
}

// SetPassword forces a new password onto an account, meant for
// operators unlocking someone, not for self service
func (u *UserService) SetPassword(ctx context.Context, id uuid.UUID, password string) error {
	if len(password) < u.cfg.Behaviour.PasswordMinLength {
		return user.ErrPasswordGuidelines
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return u.store.SetPassword(ctx, id, string(hash))
}

// IsSuperuser tells whether an account carries the superuser flag
func (u *UserService) IsSuperuser(ctx context.Context, id uuid.UUID) (bool, error) {
	ud, err := u.store.UserByID(ctx, id)
	if err != nil {
		return false, err
	}
	return ud.Superuser, nil
}

// Memberships lists every family membership a user holds
func (u *UserService) Memberships(ctx context.Context, id uuid.UUID) ([]*MemberDTO, error) {
	rows, err := u.store.MembershipsOf(ctx, id)
	if err != nil {
		return nil, err
	}
	dtos := make([]*MemberDTO, 0)
	for _, v := range rows {
		dtos = append(dtos, memberDTOfromDB(v))
	}
	return dtos, nil
}

func NewUserService(store *db.DataStore,
	log *zap.Logger,
	cfg *config.Configuration,
	dispatcher *events.Dispatcher) *UserService {

	return &UserService{
		store:      store,
		log:        log,
		cfg:        cfg,
		dispatcher: dispatcher,
	}
}
