package management

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"
)

type genericSuccessResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	ID      *string `json:"id,omitempty"`
}

func (g *genericSuccessResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func createError(err string, status int) *genericErrorResponse {
	return &genericErrorResponse{
		Error:      err,
		StatusCode: status,
	}
}

type genericErrorResponse struct {
	Error      string `json:"error,omitempty"`
	StatusCode int    `json:"-"`
}

func (e *genericErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

type setPasswordRequest struct {
	ID       uuid.UUID `json:"id"`
	Password string    `json:"password"`
}

type roleRequest struct {
	Name string `json:"name"`
}

type roleCapabilitiesRequest struct {
	Name         string   `json:"name"`
	Capabilities []string `json:"capabilities"`
}

type createFamilyRequest struct {
	Name        string    `json:"name"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatorRole string    `json:"creator_role"`
}

type familyIDRequest struct {
	ID uuid.UUID `json:"id"`
}

type grantRoleRequest struct {
	FamilyID   uuid.UUID  `json:"family_id"`
	UserID     uuid.UUID  `json:"user_id"`
	Role       string     `json:"role"`
	ValidUntil *time.Time `json:"valid_until"`
}

type revokeMembershipRequest struct {
	FamilyID uuid.UUID `json:"family_id"`
	UserID   uuid.UUID `json:"user_id"`
}

type seedInviteRequest struct {
	FamilyID uuid.UUID `json:"family_id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	Message  *string   `json:"message"`
}
