package account

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/kinfolkhq/kinfolk/config"
	"github.com/kinfolkhq/kinfolk/invites"
	"github.com/kinfolkhq/kinfolk/user"
	"go.uber.org/zap"
)

// AccountRessource habours the public account endpoints, nothing in
// here requires an authenticated caller
type AccountRessource struct {
	log           *zap.Logger
	userService   *user.Service
	inviteService *invites.Service
	validate      *validator.Validate
	cfg           *config.Configuration
	limiter       *ipRateLimiter
}

func NewAccountRessource(
	logger *zap.Logger,
	userService *user.Service,
	inviteService *invites.Service,
	validate *validator.Validate,
	cfg *config.Configuration,
) *AccountRessource {
	return &AccountRessource{
		log:           logger,
		userService:   userService,
		inviteService: inviteService,
		validate:      validate,
		cfg:           cfg,
		limiter:       newIPRateLimiter(1, 5),
	}
}

func (a *AccountRessource) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(a.limiter.middleware)

	r.Post("/signin", a.signin)
	r.Post("/refresh", a.refresh)
	r.Post("/signup", a.signup)
	r.Get("/invite/verify", a.verify)
	return r
}

func (a *AccountRessource) renderErr(w http.ResponseWriter, r *http.Request, e *errorResponse) {
	if err := render.Render(w, r, e); err != nil {
		a.log.Error("unable to render response", zap.Error(err))
	}
}

func (a *AccountRessource) session(w http.ResponseWriter, r *http.Request, s *user.SignedInUser) {
	render.Respond(w, r, &tokenResponse{
		AccessToken:  s.AccessToken,
		TokenType:    "bearer",
		ExpiresIn:    int(a.cfg.JWT.Expiry.Seconds()),
		RefreshToken: s.RefreshToken,
	})
}

func (a *AccountRessource) signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.renderErr(w, r, createError("invalid_request", http.StatusBadRequest, ""))
		return
	}
	if err := a.validate.Struct(&req); err != nil {
		a.renderErr(w, r, createError("invalid_request", http.StatusBadRequest, err.Error()))
		return
	}
	session, err := a.userService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			a.renderErr(w, r, createError("invalid_credentials", http.StatusUnauthorized, ""))
			return
		}
		a.log.Error("signin failed", zap.Error(err))
		a.renderErr(w, r, createError("server_error", http.StatusInternalServerError, ""))
		return
	}
	a.session(w, r, session)
}

func (a *AccountRessource) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.renderErr(w, r, createError("invalid_request", http.StatusBadRequest, ""))
		return
	}
	if err := a.validate.Struct(&req); err != nil {
		a.renderErr(w, r, createError("invalid_request", http.StatusBadRequest, err.Error()))
		return
	}
	session, err := a.userService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			a.renderErr(w, r, createError("invalid_grant", http.StatusUnauthorized, ""))
			return
		}
		a.log.Error("refresh failed", zap.Error(err))
		a.renderErr(w, r, createError("server_error", http.StatusInternalServerError, ""))
		return
	}
	a.session(w, r, session)
}

func (a *AccountRessource) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.renderErr(w, r, createError("invalid_request", http.StatusBadRequest, ""))
		return
	}
	if err := a.validate.Struct(&req); err != nil {
		a.renderErr(w, r, createError("invalid_request", http.StatusBadRequest, err.Error()))
		return
	}
	session, err := a.userService.RegisterFromInvite(
		r.Context(),
		req.InviteCode,
		req.Password,
		req.FirstName,
		req.LastName,
	)
	if err != nil {
		a.signupError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	a.session(w, r, session)
}

func (a *AccountRessource) signupError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, user.ErrPasswordGuidelines):
		a.renderErr(
			w,
			r,
			createError("weak_password", http.StatusBadRequest, "password does not meet the guidelines"),
		)
	case errors.Is(err, user.ErrEntityAlreadyExists):
		a.renderErr(
			w,
			r,
			createError("already_registered", http.StatusConflict, ""),
		)
	default:
		a.inviteError(w, r, err)
	}
}

func (a *AccountRessource) verify(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("invite_code")
	if code == "" {
		a.renderErr(w, r, createError("invalid_request", http.StatusBadRequest, "invite_code missing"))
		return
	}
	validation, err := a.inviteService.Validate(r.Context(), code)
	if err != nil {
		a.inviteError(w, r, err)
		return
	}
	render.Respond(w, r, &verifyResponse{
		Email:      validation.Invitation.Email(),
		FamilyName: validation.FamilyName,
		Role:       validation.Invitation.Role(),
		ExpiresAt:  validation.Invitation.ExpiresAt(),
	})
}

// the error shapes mirror the state machine, an unknown and a revoked
// token are deliberately told apart
func (a *AccountRessource) inviteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, invites.ErrEntityDoesNotExist):
		a.renderErr(w, r, createError("invalid_token", http.StatusNotFound, ""))
	case errors.Is(err, invites.ErrInviteArchived):
		a.renderErr(w, r, createError("gone", http.StatusGone, "invitation was deleted"))
	case errors.Is(err, invites.ErrTokenExpired):
		a.renderErr(w, r, createError("expired", http.StatusGone, "invitation expired"))
	case errors.Is(err, invites.ErrInvalidTransition):
		a.renderErr(
			w,
			r,
			createError("invalid_status", http.StatusConflict, "invitation was already used or cancelled"),
		)
	default:
		a.log.Error("invitation verification failed", zap.Error(err))
		a.renderErr(w, r, createError("server_error", http.StatusInternalServerError, ""))
	}
}
