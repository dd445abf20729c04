package management

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (m *ManagementRessource) listFamilies(w http.ResponseWriter, r *http.Request) {
	page := r.Context().Value(pageKey).(int)
	pageSize := r.Context().Value(pageSizeKey).(int)
	query := r.Context().Value(queryKey).(string)
	sort := r.Context().Value(sortKey).(string)

	families, err := m.familyService.List(r.Context(), page, pageSize, query, sort)
	if err != nil {
		m.log.Error("error listing families", zap.Error(err))
		render.Respond(w, r, createError("internal server error", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, families)
}

func (m *ManagementRessource) createFamily(w http.ResponseWriter, r *http.Request) {
	var req *createFamilyRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		m.log.Info("invalid payload data for create family", zap.Error(err))
		render.Respond(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	creatorRole := req.CreatorRole
	if creatorRole == "" {
		creatorRole = m.cfg.Behaviour.DefaultRole
	}
	id, err := m.familyService.CreateFamily(r.Context(), req.Name, req.CreatedBy, creatorRole)
	if err != nil {
		m.log.Error("could not create family", zap.Error(err))
		err = render.Render(w, r, &genericSuccessResponse{
			Success: false,
			Message: "Could not create family",
		})
		if err != nil {
			m.log.Error("unable to render response", zap.Error(err))
		}
		return
	}
	idStr := id.String()
	err = render.Render(w, r, &genericSuccessResponse{
		Success: true,
		Message: "Successfully created family",
		ID:      &idStr,
	})
	if err != nil {
		m.log.Error("unable to render response", zap.Error(err))
	}
}

func (m *ManagementRessource) archiveFamily(w http.ResponseWriter, r *http.Request) {
	var req *familyIDRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		m.log.Info("invalid payload data for archive family", zap.Error(err))
		render.Respond(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	err = m.familyService.ArchiveFamily(r.Context(), req.ID)
	success := true
	message := "Successfully archived family"
	if err != nil {
		success = false
		message = "Could not archive family"
	}
	err = render.Render(w, r, &genericSuccessResponse{
		Success: success,
		Message: message,
	})
	if err != nil {
		m.log.Error("unable to render response", zap.Error(err))
	}
}

func (m *ManagementRessource) familyMembers(w http.ResponseWriter, r *http.Request) {
	u := r.URL.Query().Get("id")
	id, err := uuid.Parse(u)
	if err != nil {
		m.log.Info("invalid query data for family members", zap.Error(err))
		render.Respond(w, r, createError("invalid query data", http.StatusBadRequest))
		return
	}
	members, err := m.familyService.Members(r.Context(), id)
	if err != nil {
		m.log.Error("error getting family members", zap.Error(err))
		render.Respond(w, r, createError("internal server error", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, members)
}

func (m *ManagementRessource) grantRole(w http.ResponseWriter, r *http.Request) {
	var req *grantRoleRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		m.log.Info("invalid payload data for grant role", zap.Error(err))
		render.Respond(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	err = m.familyService.GrantRole(r.Context(), req.FamilyID, req.UserID, req.Role, req.ValidUntil)
	success := true
	message := "Successfully granted role"
	if err != nil {
		success = false
		message = "Could not grant role"
	}
	err = render.Render(w, r, &genericSuccessResponse{
		Success: success,
		Message: message,
	})
	if err != nil {
		m.log.Error("unable to render response", zap.Error(err))
	}
}

func (m *ManagementRessource) revokeMembership(w http.ResponseWriter, r *http.Request) {
	var req *revokeMembershipRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		m.log.Info("invalid payload data for revoke membership", zap.Error(err))
		render.Respond(w, r, createError("invalid payload", http.StatusBadRequest))
		return
	}
	err = m.familyService.RevokeMembership(r.Context(), req.FamilyID, req.UserID)
	success := true
	message := "Successfully revoked membership"
	if err != nil {
		success = false
		message = "Could not revoke membership"
	}
	err = render.Render(w, r, &genericSuccessResponse{
		Success: success,
		Message: message,
	})
	if err != nil {
		m.log.Error("unable to render response", zap.Error(err))
	}
}
