package manage

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/authorization"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/invites"
	"go.uber.org/zap"
)

type InviteService struct {
	store   *db.DataStore
	log     *zap.Logger
	invites *invites.Service
}

type InviteDTO struct {
	ID     uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	Status string    `json:"status"`
	// Token is only filled in for freshly seeded invitations,
	// listings never expose it
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	InvitedBy uuid.UUID `json:"invited_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (i *InviteDTO) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func inviteDTOfrom(inv *invites.Invitation) *InviteDTO {
	return &InviteDTO{
		ID:        inv.ID(),
		Email:     inv.Email(),
		Role:      inv.Role(),
		Status:    string(inv.Status()),
		ExpiresAt: inv.ExpiresAt(),
		InvitedBy: inv.InvitedBy(),
		CreatedAt: inv.CreatedAt(),
	}
}

// List pages through the invitations of one family, operators see
// every inviter
func (i *InviteService) List(
	ctx context.Context,
	familyPublicID uuid.UUID,
	page int,
	pageSize int,
	q string,
	sort string,
) (*PaginationResponse, error) {
	family, err := i.store.FamilyByPublicID(ctx, familyPublicID)
	if err != nil {
		return nil, err
	}
	invs, total, err := i.invites.List(
		ctx,
		family.ID,
		nil,
		db.ListOptions{Page: page, PageSize: pageSize, Query: q, Sort: sort},
	)
	if err != nil {
		return nil, err
	}
	dtos := make([]*InviteDTO, 0)
	for _, v := range invs {
		dtos = append(dtos, inviteDTOfrom(v))
	}
	return &PaginationResponse{
		Total:   total,
		Entries: dtos,
	}, nil
}

// Seed creates an invitation on behalf of an operator, the escalation
// guard is satisfied with the full capability set, elevated roles stay
// refused regardless
func (i *InviteService) Seed(
	ctx context.Context,
	familyPublicID uuid.UUID,
	seededBy uuid.UUID,
	email string,
	role string,
	message *string,
) (*InviteDTO, error) {
	family, err := i.store.FamilyByPublicID(ctx, familyPublicID)
	if err != nil {
		return nil, err
	}
	all := authorization.All()
	caps := make([]string, len(all))
	for idx, c := range all {
		caps[idx] = string(c)
	}
	inv, err := i.invites.Create(ctx, invites.CreateInvitation{
		FamilyID:            family.ID,
		InvitedBy:           seededBy,
		InviterCapabilities: caps,
		Email:               email,
		Role:                role,
		Message:             message,
	})
	if err != nil {
		return nil, err
	}
	dto := inviteDTOfrom(inv)
	dto.Token = inv.Token()
	return dto, nil
}

func NewInviteService(store *db.DataStore,
	log *zap.Logger,
	inviteService *invites.Service) *InviteService {

	return &InviteService{
		store:   store,
		log:     log,
		invites: inviteService,
	}
}
