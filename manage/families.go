package manage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/events"
	"github.com/kinfolkhq/kinfolk/events/event"
	"go.uber.org/zap"
)

type FamilyService struct {
	store      *db.DataStore
	log        *zap.Logger
	dispatcher *events.Dispatcher
}

func (f *FamilyService) List(
	ctx context.Context,
	page int,
	pageSize int,
	q string,
	sort string,
) (*PaginationResponse, error) {
	families, total, err := f.store.Families(
		ctx,
		db.ListOptions{Page: page, PageSize: pageSize, Query: q, Sort: sort},
	)
	if err != nil {
		return nil, err
	}
	dtos := make([]*FamilyDTO, 0)
	for _, v := range families {
		dtos = append(dtos, familyDTOfromDB(v))
	}
	return &PaginationResponse{
		Total:   total,
		Entries: dtos,
	}, nil
}

// CreateFamily opens a new family and grants the creator the given role
func (f *FamilyService) CreateFamily(
	ctx context.Context,
	name string,
	createdBy uuid.UUID,
	creatorRole string,
) (uuid.UUID, error) {
	id, publicID, err := f.store.InsertFamily(ctx, name, createdBy)
	if err != nil {
		return uuid.UUID{}, err
	}
	role, err := f.store.RoleByName(ctx, creatorRole)
	if err != nil {
		return uuid.UUID{}, err
	}
	_, err = f.store.AddMembership(ctx, id, createdBy, role.ID, nil)
	if err != nil {
		return uuid.UUID{}, err
	}
	f.dispatcher.Dispatch(ctx, &event.FamilyCreated{
		FamilyID:   id,
		PublicID:   publicID,
		FamilyName: name,
		CreatedBy:  createdBy,
	})
	return publicID, nil
}

func (f *FamilyService) ArchiveFamily(ctx context.Context, publicID uuid.UUID) error {
	family, err := f.store.FamilyByPublicID(ctx, publicID)
	if err != nil {
		return err
	}
	return f.store.ArchiveFamily(ctx, family.ID)
}

// Members lists everyone who ever held a membership in a family,
// revoked entries included
func (f *FamilyService) Members(ctx context.Context, publicID uuid.UUID) ([]*MemberDTO, error) {
	family, err := f.store.FamilyByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	rows, err := f.store.FamilyMembers(ctx, family.ID)
	if err != nil {
		return nil, err
	}
	dtos := make([]*MemberDTO, 0)
	for _, v := range rows {
		dtos = append(dtos, memberDTOfromDB(v))
	}
	return dtos, nil
}

// GrantRole hands a user a role in a family without the invitation
// ceremony, an operator shortcut
func (f *FamilyService) GrantRole(
	ctx context.Context,
	familyPublicID uuid.UUID,
	userID uuid.UUID,
	roleName string,
	validUntil *time.Time,
) error {
	family, err := f.store.FamilyByPublicID(ctx, familyPublicID)
	if err != nil {
		return err
	}
	role, err := f.store.RoleByName(ctx, roleName)
	if err != nil {
		return err
	}
	_, err = f.store.AddMembership(ctx, family.ID, userID, role.ID, validUntil)
	if err != nil {
		return err
	}
	f.dispatcher.Dispatch(ctx, &event.RoleGranted{
		UserID:     userID,
		FamilyID:   family.ID,
		Role:       roleName,
		ValidUntil: validUntil,
	})
	return nil
}

func (f *FamilyService) RevokeMembership(
	ctx context.Context,
	familyPublicID uuid.UUID,
	userID uuid.UUID,
) error {
	family, err := f.store.FamilyByPublicID(ctx, familyPublicID)
	if err != nil {
		return err
	}
	return f.store.RevokeMembership(ctx, family.ID, userID)
}

func NewFamilyService(store *db.DataStore,
	log *zap.Logger,
	dispatcher *events.Dispatcher) *FamilyService {

	return &FamilyService{
		store:      store,
		log:        log,
		dispatcher: dispatcher,
	}
}
