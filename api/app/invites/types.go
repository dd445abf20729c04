package invites

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/invites"
)

type createInviteRequest struct {
	Email     string  `json:"email"      validate:"required,email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      string  `json:"role"`
	Message   *string `json:"message"`
}

type resendInviteRequest struct {
	Message *string `json:"message"`
}

type extendInviteRequest struct {
	Until time.Time `json:"until" validate:"required"`
}

type invitationResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName *string   `json:"first_name,omitempty"`
	LastName  *string   `json:"last_name,omitempty"`
	Role      string    `json:"role"`
	Message   *string   `json:"message,omitempty"`
	Status string `json:"status"`
	// Token is only disclosed to the inviter on create and resend,
	// reads and listings never carry it
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	InvitedBy uuid.UUID `json:"invited_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (*invitationResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

func invitationResponseFrom(inv *invites.Invitation) *invitationResponse {
	return &invitationResponse{
		ID:        inv.ID(),
		Email:     inv.Email(),
		FirstName: inv.FirstName(),
		LastName:  inv.LastName(),
		Role:      inv.Role(),
		Message:   inv.Message(),
		Status:    string(inv.Status()),
		ExpiresAt: inv.ExpiresAt(),
		InvitedBy: inv.InvitedBy(),
		CreatedAt: inv.CreatedAt(),
	}
}

type invitationListResponse struct {
	Total   int                   `json:"total"`
	Entries []*invitationResponse `json:"entries"`
}

func (*invitationListResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

type statsResponse struct {
	ByStatus map[string]int `json:"by_status"`
	ByRole   map[string]int `json:"by_role"`
}

func (*statsResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	StatusCode       int    `json:"-"`
}

func (e *errorResponse) Render(_ http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func createError(err string, status int, description string) *errorResponse {
	return &errorResponse{
		Error:            err,
		ErrorDescription: description,
		StatusCode:       status,
	}
}
