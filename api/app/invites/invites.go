package invites

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/api/auth"
	"github.com/kinfolkhq/kinfolk/authorization"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/db/tables"
	"github.com/kinfolkhq/kinfolk/invites"
	"github.com/kinfolkhq/kinfolk/sanitize"
	"go.uber.org/zap"
)

// InviteRessource habours the family scoped invitation endpoints,
// it expects the family context middleware on the parent router
type InviteRessource struct {
	log      *zap.Logger
	service  *invites.Service
	validate *validator.Validate
}

func NewInviteRessource(
	logger *zap.Logger,
	service *invites.Service,
	validate *validator.Validate,
) *InviteRessource {
	return &InviteRessource{
		log:      logger,
		service:  service,
		validate: validate,
	}
}

func (i *InviteRessource) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(jwtauth.Authenticator)

	r.With(auth.RequireCapability(authorization.CapSendInvitations)).Post("/", i.create)
	r.Get("/", i.list)
	r.With(auth.RequireCapability(authorization.CapViewAllInvitations)).Get("/stats", i.stats)
	r.Get("/{inviteID}", i.get)
	// owner-or-admin checks happen inside the handlers
	r.Post("/{inviteID}/cancel", i.cancel)
	r.Post("/{inviteID}/resend", i.resend)
	r.Post("/{inviteID}/extend", i.extend)
	return r
}

func (i *InviteRessource) renderErr(w http.ResponseWriter, r *http.Request, e *errorResponse) {
	if err := render.Render(w, r, e); err != nil {
		i.log.Error("unable to render response", zap.Error(err))
	}
}

// maps the service errors onto http responses
func (i *InviteRessource) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, invites.ErrEntityDoesNotExist):
		i.renderErr(w, r, createError("not_found", http.StatusNotFound, ""))
	case errors.Is(err, invites.ErrEntityAlreadyExists):
		i.renderErr(
			w,
			r,
			createError(
				"already_exists",
				http.StatusConflict,
				"a pending invitation or account with this email already exists",
			),
		)
	case errors.Is(err, invites.ErrInviteArchived):
		i.renderErr(w, r, createError("gone", http.StatusGone, "invitation was deleted"))
	case errors.Is(err, invites.ErrInvalidTransition):
		i.renderErr(
			w,
			r,
			createError("invalid_status", http.StatusConflict, "invitation status does not allow this"),
		)
	case errors.Is(err, invites.ErrTokenExpired):
		i.renderErr(w, r, createError("expired", http.StatusGone, "invitation expired"))
	case errors.Is(err, invites.ErrUnknownRole):
		i.renderErr(w, r, createError("unknown_role", http.StatusBadRequest, ""))
	case errors.Is(err, invites.ErrElevatedRole):
		i.renderErr(
			w,
			r,
			createError("forbidden", http.StatusForbidden, "this role cannot be granted by invitation"),
		)
	case errors.Is(err, invites.ErrRoleEscalation):
		i.renderErr(
			w,
			r,
			createError("forbidden", http.StatusForbidden, "cannot invite to a role above your own"),
		)
	default:
		i.log.Error("invitation endpoint failed", zap.Error(err))
		i.renderErr(w, r, createError("server_error", http.StatusInternalServerError, ""))
	}
}

func (i *InviteRessource) create(w http.ResponseWriter, r *http.Request) {
	var req createInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		i.renderErr(w, r, createError("invalid_request", http.StatusBadRequest, ""))
		return
	}
	if err := i.validate.Struct(&req); err != nil {
		i.renderErr(w, r, createError("invalid_request", http.StatusBadRequest, err.Error()))
		return
	}
	family, err := auth.FamilyFromContext(r.Context())
	if err != nil {
		i.renderErr(w, r, createError("server_error", http.StatusInternalServerError, ""))
		return
	}
	caps, err := auth.CapabilitiesFromContext(r.Context())
	if err != nil {
		i.renderErr(w, r, createError("server_error", http.StatusInternalServerError, ""))
		return
	}
	userID, err := auth.Subject(r)
	if err != nil {
		i.renderErr(w, r, createError("unauthorized", http.StatusUnauthorized, ""))
		return
	}
	inv, err := i.service.Create(r.Context(), invites.CreateInvitation{
		FamilyID:            family.ID,
		InvitedBy:           userID,
		InviterCapabilities: caps.List(),
		Email:               req.Email,
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Role:                req.Role,
		Message:             req.Message,
	})
	if err != nil {
		i.serviceError(w, r, err)
		return
	}
	resp := invitationResponseFrom(inv)
	resp.Token = inv.Token()
	render.Status(r, http.StatusCreated)
	render.Respond(w, r, resp)
}

func (i *InviteRessource) list(w http.ResponseWriter, r *http.Request) {
	family, err := auth.FamilyFromContext(r.Context())
	if err != nil {
		i.renderErr(w, r, createError("server_error", http.StatusInternalServerError, ""))
		return
	}
	caps, err := auth.CapabilitiesFromContext(r.Context())
	if err != nil {
		i.renderErr(w, r, createError("server_error", http.StatusInternalServerError, ""))
		return
	}
	userID, err := auth.Subject(r)
	if err != nil {
		i.renderErr(w, r, createError("unauthorized", http.StatusUnauthorized, ""))
		return
	}
	intOrDefault := func(in string, def int) int {
		if in == "" {
			return def
		}
		v, err := strconv.Atoi(in)
		if err != nil {
			return def
		}
		return v
	}
	opts := db.ListOptions{
		Page:     intOrDefault(r.URL.Query().Get("page"), 1),
		PageSize: intOrDefault(r.URL.Query().Get("page_size"), 12),
		Query:    r.URL.Query().Get("query"),
		Sort:     r.URL.Query().Get("sort"),
	}
	// without view_all_invitations a member only sees what they sent
	var invitedBy *uuid.UUID
	if !caps.Can(authorization.CapViewAllInvitations) {
		invitedBy = &userID
	}
	invs, total, err := i.service.List(r.Context(), family.ID, invitedBy, opts)
	if err != nil {
		i.log.Error(
			"error listing invitations",
			sanitize.UserInputString("query", opts.Query),
			zap.Error(err),
		)
		i.serviceError(w, r, err)
		return
	}
	entries := make([]*invitationResponse, len(invs))
	for idx, inv := range invs {
		entries[idx] = invitationResponseFrom(inv)
	}
	render.Respond(w, r, &invitationListResponse{Total: total, Entries: entries})
}

func (i *InviteRessource) get(w http.ResponseWriter, r *http.Request) {
	family, publicID, ok := i.scoped(w, r)
	if !ok {
		return
	}
	inv, err := i.service.Get(r.Context(), family.ID, publicID)
	if err != nil {
		i.serviceError(w, r, err)
		return
	}
	caps, err := auth.CapabilitiesFromContext(r.Context())
	if err != nil {
		i.renderErr(w, r, createError("server_error", http.StatusInternalServerError, ""))
		return
	}
	userID, err := auth.Subject(r)
	if err != nil {
		i.renderErr(w, r, createError("unauthorized", http.StatusUnauthorized, ""))
		return
	}
	if !caps.Can(authorization.CapViewAllInvitations) && inv.InvitedBy() != userID {
		i.renderErr(w, r, createError("not_found", http.StatusNotFound, ""))
		return
	}
	render.Respond(w, r, invitationResponseFrom(inv))
}

// mayManage decides if the caller may operate on the invitation,
// the inviter always may, everybody else needs manage_invitations.
// Outsiders get the same not_found as get hands out.
func (i *InviteRessource) mayManage(
	w http.ResponseWriter,
	r *http.Request,
	familyID int64,
	publicID uuid.UUID,
) (userID uuid.UUID, ok bool) {
	userID, err := auth.Subject(r)
	if err != nil {
		i.renderErr(w, r, createError("unauthorized", http.StatusUnauthorized, ""))
		return uuid.UUID{}, false
	}
	caps, err := auth.CapabilitiesFromContext(r.Context())
	if err != nil {
		i.renderErr(w, r, createError("server_error", http.StatusInternalServerError, ""))
		return uuid.UUID{}, false
	}
	if caps.Can(authorization.CapManageInvitations) {
		return userID, true
	}
	inv, err := i.service.Get(r.Context(), familyID, publicID)
	if err != nil {
		i.serviceError(w, r, err)
		return uuid.UUID{}, false
	}
	if inv.InvitedBy() != userID {
		i.renderErr(w, r, createError("not_found", http.StatusNotFound, ""))
		return uuid.UUID{}, false
	}
	return userID, true
}

func (i *InviteRessource) cancel(w http.ResponseWriter, r *http.Request) {
	family, publicID, ok := i.scoped(w, r)
	if !ok {
		return
	}
	userID, ok := i.mayManage(w, r, family.ID, publicID)
	if !ok {
		return
	}
	if err := i.service.Cancel(r.Context(), family.ID, publicID, userID); err != nil {
		i.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (i *InviteRessource) resend(w http.ResponseWriter, r *http.Request) {
	family, publicID, ok := i.scoped(w, r)
	if !ok {
		return
	}
	if _, ok := i.mayManage(w, r, family.ID, publicID); !ok {
		return
	}
	var req resendInviteRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			i.renderErr(w, r, createError("invalid_request", http.StatusBadRequest, ""))
			return
		}
	}
	inv, err := i.service.Resend(r.Context(), family.ID, publicID, req.Message)
	if err != nil {
		i.serviceError(w, r, err)
		return
	}
	resp := invitationResponseFrom(inv)
	resp.Token = inv.Token()
	render.Respond(w, r, resp)
}

func (i *InviteRessource) extend(w http.ResponseWriter, r *http.Request) {
	family, publicID, ok := i.scoped(w, r)
	if !ok {
		return
	}
	if _, ok := i.mayManage(w, r, family.ID, publicID); !ok {
		return
	}
	var req extendInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		i.renderErr(w, r, createError("invalid_request", http.StatusBadRequest, ""))
		return
	}
	if err := i.validate.Struct(&req); err != nil {
		i.renderErr(w, r, createError("invalid_request", http.StatusBadRequest, err.Error()))
		return
	}
	if err := i.service.ExtendExpiry(r.Context(), family.ID, publicID, req.Until); err != nil {
		if errors.Is(err, invites.ErrInvalidTransition) {
			i.renderErr(
				w,
				r,
				createError(
					"invalid_status",
					http.StatusConflict,
					"only pending invitations can be extended and only forward",
				),
			)
			return
		}
		i.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (i *InviteRessource) stats(w http.ResponseWriter, r *http.Request) {
	family, err := auth.FamilyFromContext(r.Context())
	if err != nil {
		i.renderErr(w, r, createError("server_error", http.StatusInternalServerError, ""))
		return
	}
	stats, err := i.service.Stats(r.Context(), family.ID)
	if err != nil {
		i.serviceError(w, r, err)
		return
	}
	render.Respond(w, r, &statsResponse{ByStatus: stats.ByStatus, ByRole: stats.ByRole})
}

// scoped pulls the family and invitation id out of the request
func (i *InviteRessource) scoped(
	w http.ResponseWriter,
	r *http.Request,
) (family *tables.FamilyTable, publicID uuid.UUID, ok bool) {
	f, err := auth.FamilyFromContext(r.Context())
	if err != nil {
		i.renderErr(w, r, createError("server_error", http.StatusInternalServerError, ""))
		return nil, uuid.UUID{}, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "inviteID"))
	if err != nil {
		i.renderErr(w, r, createError("not_found", http.StatusNotFound, ""))
		return nil, uuid.UUID{}, false
	}
	return f, id, true
}
