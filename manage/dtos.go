package manage

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/db/tables"
)

// PaginationResponse is the envelope of every management listing
type PaginationResponse struct {
	Total   int         `json:"total"`
	Entries interface{} `json:"entries"`
}

func (p *PaginationResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type UserDTO struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FirstName *string    `json:"first_name"`
	LastName  *string    `json:"last_name"`
	Superuser bool       `json:"superuser"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func userDTOfromDB(t *tables.UserTable) *UserDTO {
	return &UserDTO{
		ID:        t.ID,
		Email:     t.Email,
		FirstName: t.FirstName,
		LastName:  t.LastName,
		Superuser: t.Superuser,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

type FamilyDTO struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	CreatedBy  uuid.UUID  `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

func familyDTOfromDB(t *tables.FamilyTable) *FamilyDTO {
	return &FamilyDTO{
		ID:         t.PublicID,
		Name:       t.Name,
		CreatedBy:  t.CreatedBy,
		CreatedAt:  t.CreatedAt,
		ArchivedAt: t.ArchivedAt,
	}
}

type RoleDTO struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Capabilities []string  `json:"capabilities"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

func roleDTOfromDB(t *tables.RoleTable) *RoleDTO {
	return &RoleDTO{
		ID:           t.ID,
		Name:         t.Name,
		Capabilities: t.Capabilities,
		Active:       t.Active,
		CreatedAt:    t.CreatedAt,
	}
}

type MemberDTO struct {
	UserID     uuid.UUID  `json:"user_id"`
	Email      string     `json:"email"`
	FirstName  *string    `json:"first_name"`
	LastName   *string    `json:"last_name"`
	Role       string     `json:"role"`
	RoleActive bool       `json:"role_active"`
	GrantedAt  time.Time  `json:"granted_at"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

func memberDTOfromDB(r *db.MemberRow) *MemberDTO {
	dto := &MemberDTO{
		UserID:     r.UserID,
		Email:      r.Email,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Role:       r.RoleName,
		RoleActive: r.RoleActive,
		GrantedAt:  r.GrantedAt,
	}
	if r.ValidUntil.Valid {
		dto.ValidUntil = &r.ValidUntil.Time
	}
	if r.RevokedAt.Valid {
		dto.RevokedAt = &r.RevokedAt.Time
	}
	return dto
}
