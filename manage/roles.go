package manage

import (
	"context"

	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/events"
	"github.com/kinfolkhq/kinfolk/events/event"
	"go.uber.org/zap"
)

type RoleService struct {
	store      *db.DataStore
	log        *zap.Logger
	dispatcher *events.Dispatcher
}

func (r *RoleService) List(
	ctx context.Context,
	page int,
	pageSize int,
	q string,
	sort string,
) (*PaginationResponse, error) {
	roles, total, err := r.store.Roles(
		ctx,
		db.ListOptions{Page: page, PageSize: pageSize, Query: q, Sort: sort},
	)
	if err != nil {
		return nil, err
	}
	dtos := make([]*RoleDTO, 0)
	for _, v := range roles {
		dtos = append(dtos, roleDTOfromDB(v))
	}
	return &PaginationResponse{
		Total:   total,
		Entries: dtos,
	}, nil
}

func (r *RoleService) CreateRole(
	ctx context.Context,
	name string,
	capabilities []string,
) (int64, error) {
	id, err := r.store.AddRole(ctx, name, capabilities)
	if err != nil {
		return id, err
	}
	r.dispatcher.Dispatch(ctx, &event.RoleCreated{Role: name})
	return id, nil
}

// SetCapabilities replaces the capability set of a role, takes effect
// for every member holding the role on their next request
func (r *RoleService) SetCapabilities(ctx context.Context, name string, capabilities []string) error {
	return r.store.SetRoleCapabilities(ctx, name, capabilities)
}

func (r *RoleService) SetActive(ctx context.Context, name string, active bool) error {
	return r.store.SetRoleActive(ctx, name, active)
}

// DeleteRole removes a role nobody holds anymore
func (r *RoleService) DeleteRole(ctx context.Context, name string) error {
	return r.store.DeleteRole(ctx, name)
}

func NewRoleService(store *db.DataStore,
	log *zap.Logger,
	dispatcher *events.Dispatcher) *RoleService {

	return &RoleService{
		store:      store,
		log:        log,
		dispatcher: dispatcher,
	}
}
