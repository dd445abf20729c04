package management

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"
)

func (m *ManagementRessource) listRoles(w http.ResponseWriter, r *http.Request) {
	page := r.Context().Value(pageKey).(int)
	pageSize := r.Context().Value(pageSizeKey).(int)
	query := r.Context().Value(queryKey).(string)
	sort := r.Context().Value(sortKey).(string)

	roles, err := m.roleService.List(r.Context(), page, pageSize, query, sort)
	if err != nil {
		m.log.Error("error listing roles", zap.Error(err))
		render.Respond(w, r, createError("internal server error", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, roles)
}

func (m *ManagementRessource) createRole(w http.ResponseWriter, r *http.Request) {
	var req *roleCapabilitiesRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		m.log.Info("invalid payload data for create role", zap.Error(err))
		render.Respond(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	_, err = m.roleService.CreateRole(r.Context(), req.Name, req.Capabilities)
	success := true
	message := "Successfully created role"
	if err != nil {
		success = false
		message = "Could not create role"
	}
	err = render.Render(w, r, &genericSuccessResponse{
		Success: success,
		Message: message,
	})
	if err != nil {
		m.log.Error("unable to render response", zap.Error(err))
	}
}

func (m *ManagementRessource) setRoleCapabilities(w http.ResponseWriter, r *http.Request) {
	var req *roleCapabilitiesRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		m.log.Info("invalid payload data for set capabilities", zap.Error(err))
		render.Respond(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	err = m.roleService.SetCapabilities(r.Context(), req.Name, req.Capabilities)
	success := true
	message := "Successfully set capabilities"
	if err != nil {
		success = false
		message = "Could not set capabilities"
	}
	err = render.Render(w, r, &genericSuccessResponse{
		Success: success,
		Message: message,
	})
	if err != nil {
		m.log.Error("unable to render response", zap.Error(err))
	}
}

func (m *ManagementRessource) activateRole(w http.ResponseWriter, r *http.Request) {
	m.toggleRole(w, r, true)
}

func (m *ManagementRessource) deactivateRole(w http.ResponseWriter, r *http.Request) {
	m.toggleRole(w, r, false)
}

func (m *ManagementRessource) toggleRole(w http.ResponseWriter, r *http.Request, active bool) {
	var req *roleRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		m.log.Info("invalid payload data", zap.Error(err))
		render.Respond(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	err = m.roleService.SetActive(r.Context(), req.Name, active)
	success := true
	message := "Successfully updated role"
	if err != nil {
		success = false
		message = "Could not update role"
	}
	err = render.Render(w, r, &genericSuccessResponse{
		Success: success,
		Message: message,
	})
	if err != nil {
		m.log.Error("unable to render response", zap.Error(err))
	}
}

func (m *ManagementRessource) deleteRole(w http.ResponseWriter, r *http.Request) {
	var req *roleRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		m.log.Info("invalid payload data for delete role", zap.Error(err))
		render.Respond(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	err = m.roleService.DeleteRole(r.Context(), req.Name)
	success := true
	message := "Successfully deleted role"
	if err != nil {
		success = false
		message = "Could not delete role"
	}
	err = render.Render(w, r, &genericSuccessResponse{
		Success: success,
		Message: message,
	})
	if err != nil {
		m.log.Error("unable to render response", zap.Error(err))
	}
}
