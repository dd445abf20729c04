package management

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (m *ManagementRessource) listInvites(w http.ResponseWriter, r *http.Request) {
	page := r.Context().Value(pageKey).(int)
	pageSize := r.Context().Value(pageSizeKey).(int)
	query := r.Context().Value(queryKey).(string)
	sort := r.Context().Value(sortKey).(string)

	familyID, err := uuid.Parse(r.URL.Query().Get("family_id"))
	if err != nil {
		m.log.Info("invalid query data for list invites", zap.Error(err))
		render.Respond(w, r, createError("invalid query data", http.StatusBadRequest))
		return
	}

	invites, err := m.inviteService.List(r.Context(), familyID, page, pageSize, query, sort)
	if err != nil {
		m.log.Error("error listing invites", zap.Error(err))
		render.Respond(w, r, createError("internal server error", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, invites)
}

func (m *ManagementRessource) seedInvite(w http.ResponseWriter, r *http.Request) {
	var req *seedInviteRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		m.log.Info("invalid payload data for seed invite", zap.Error(err))
		render.Respond(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	token, _, err := jwtauth.FromContext(r.Context())
	if err != nil {
		render.Respond(w, r, createError("unauthorized", http.StatusUnauthorized))
		return
	}
	seededBy, err := uuid.Parse(token.Subject())
	if err != nil {
		render.Respond(w, r, createError("unauthorized", http.StatusUnauthorized))
		return
	}
	invite, err := m.inviteService.Seed(
		r.Context(),
		req.FamilyID,
		seededBy,
		req.Email,
		req.Role,
		req.Message,
	)
	if err != nil {
		m.log.Error("could not seed invite", zap.Error(err))
		err = render.Render(w, r, &genericSuccessResponse{
			Success: false,
			Message: "Could not seed invite",
		})
		if err != nil {
			m.log.Error("unable to render response", zap.Error(err))
		}
		return
	}
	err = render.Render(w, r, invite)
	if err != nil {
		m.log.Error("unable to render response", zap.Error(err))
	}
}
