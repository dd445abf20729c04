package management

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (m *ManagementRessource) listUsers(w http.ResponseWriter, r *http.Request) {
	page := r.Context().Value(pageKey).(int)
	pageSize := r.Context().Value(pageSizeKey).(int)
	query := r.Context().Value(queryKey).(string)
	sort := r.Context().Value(sortKey).(string)

	users, err := m.userService.List(r.Context(), page, pageSize, query, sort)
	if err != nil {
		m.log.Error("error listing users", zap.Error(err))
		render.Respond(w, r, createError("internal server error", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, users)
}

func (m *ManagementRessource) userMemberships(w http.ResponseWriter, r *http.Request) {
	u := r.URL.Query().Get("id")
	id, err := uuid.Parse(u)
	if err != nil {
		m.log.Info("invalid query data for user memberships", zap.Error(err))
		render.Respond(w, r, createError("invalid query data", http.StatusBadRequest))
		return
	}
	memberships, err := m.userService.Memberships(r.Context(), id)
	if err != nil {
		m.log.Error("error getting user memberships", zap.Error(err))
		render.Respond(w, r, createError("internal server error", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, memberships)
}

func (m *ManagementRessource) setUserPassword(w http.ResponseWriter, r *http.Request) {
	var req *setPasswordRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		m.log.Info("invalid payload data for set password", zap.Error(err))
		render.Respond(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	err = m.userService.SetPassword(r.Context(), req.ID, req.Password)
	success := true
	message := "Successfully set password"
	if err != nil {
		success = false
		message = "Unable to set password"
	}
	err = render.Render(w, r, &genericSuccessResponse{
		Success: success,
		Message: message,
	})
	if err != nil {
		m.log.Error("unable to render response", zap.Error(err))
	}
}
