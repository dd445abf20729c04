package account

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

type signinRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type signupRequest struct {
	InviteCode string  `json:"invite_code" validate:"required"`
	Password   string  `json:"password"    validate:"required,minpwd"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

func (*tokenResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

// verifyResponse tells a prospective member what they were invited to,
// never more than the invitation email already disclosed
type verifyResponse struct {
	Email      string    `json:"email"`
	FamilyName string    `json:"family_name"`
	Role       string    `json:"role"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func (*verifyResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
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
