package projects

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/api/auth"
	"github.com/kinfolkhq/kinfolk/authorization"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/db/tables"
	"github.com/kinfolkhq/kinfolk/events"
	"github.com/kinfolkhq/kinfolk/events/event"
	"go.uber.org/zap"
)

// ProjectStorer is the persistence surface of the project endpoints
type ProjectStorer interface {
	InsertProject(
		ctx context.Context,
		familyID int64,
		name string,
		notes *string,
		createdBy uuid.UUID,
	) (uuid.UUID, error)
	ProjectByPublicID(
		ctx context.Context,
		familyID int64,
		publicID uuid.UUID,
	) (*tables.ProjectTable, error)
	Projects(
		ctx context.Context,
		familyID int64,
		opts db.ListOptions,
	) ([]*tables.ProjectTable, int, error)
	ArchiveProject(ctx context.Context, familyID int64, publicID uuid.UUID) error
	InsertTask(
		ctx context.Context,
		projectID int64,
		title string,
		notes *string,
		dueAt *time.Time,
		assignedTo *uuid.UUID,
	) (uuid.UUID, error)
	TaskByPublicID(
		ctx context.Context,
		projectID int64,
		publicID uuid.UUID,
	) (*tables.TaskTable, error)
	Tasks(ctx context.Context, projectID int64, opts db.ListOptions) ([]*tables.TaskTable, int, error)
	CompleteTask(
		ctx context.Context,
		projectID int64,
		publicID uuid.UUID,
		completedBy uuid.UUID,
	) (bool, error)
	AssignTask(
		ctx context.Context,
		projectID int64,
		publicID uuid.UUID,
		assignee *uuid.UUID,
	) error
}

// Dispatcher used to dispatch events
type Dispatcher interface {
	Dispatch(ctx context.Context, ev events.Event)
}

// ProjectRessource habours the family scoped project and task
// endpoints, it expects the family context middleware on the parent
type ProjectRessource struct {
	log        *zap.Logger
	store      ProjectStorer
	validate   *validator.Validate
	dispatcher Dispatcher
}

func NewProjectRessource(
	logger *zap.Logger,
	store ProjectStorer,
	validate *validator.Validate,
	dispatcher Dispatcher,
) *ProjectRessource {
	return &ProjectRessource{
		log:        logger,
		store:      store,
		validate:   validate,
		dispatcher: dispatcher,
	}
}

func (p *ProjectRessource) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(jwtauth.Authenticator)

	r.Get("/", p.list)
	r.Group(func(gr chi.Router) {
		gr.Use(auth.RequireCapability(authorization.CapManageProjects))
		gr.Post("/", p.create)
		gr.Delete("/{projectID}", p.archive)
	})
	r.Get("/{projectID}", p.get)
	r.Route("/{projectID}/tasks", func(tr chi.Router) {
		tr.Get("/", p.listTasks)
		tr.Post("/", p.createTask)
		tr.Get("/{taskID}", p.getTask)
		tr.Post("/{taskID}/complete", p.completeTask)
		tr.Put("/{taskID}/assign", p.assignTask)
	})
	return r
}

func (p *ProjectRessource) renderErr(w http.ResponseWriter, r *http.Request, e *errorResponse) {
	if err := render.Render(w, r, e); err != nil {
		p.log.Error("unable to render response", zap.Error(err))
	}
}

func (p *ProjectRessource) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		p.renderErr(w, r, createError("not_found", http.StatusNotFound, ""))
	case errors.Is(err, db.ErrAlreadyExists):
		p.renderErr(
			w,
			r,
			createError("already_exists", http.StatusConflict, "a project with this name exists"),
		)
	default:
		p.log.Error("project endpoint failed", zap.Error(err))
		p.renderErr(w, r, createError("server_error", http.StatusInternalServerError, ""))
	}
}

func listOpts(r *http.Request) db.ListOptions {
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
	return db.ListOptions{
		Page:     intOrDefault(r.URL.Query().Get("page"), 1),
		PageSize: intOrDefault(r.URL.Query().Get("page_size"), 12),
		Query:    r.URL.Query().Get("query"),
		Sort:     r.URL.Query().Get("sort"),
	}
}

func (p *ProjectRessource) create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		p.renderErr(w, r, createError("invalid_request", http.StatusBadRequest, ""))
		return
	}
	if err := p.validate.Struct(&req); err != nil {
		p.renderErr(w, r, createError("invalid_request", http.StatusBadRequest, err.Error()))
		return
	}
	family, err := auth.FamilyFromContext(r.Context())
	if err != nil {
		p.renderErr(w, r, createError("server_error", http.StatusInternalServerError, ""))
		return
	}
	userID, err := auth.Subject(r)
	if err != nil {
		p.renderErr(w, r, createError("unauthorized", http.StatusUnauthorized, ""))
		return
	}
	publicID, err := p.store.InsertProject(r.Context(), family.ID, req.Name, req.Notes, userID)
	if err != nil {
		p.storeError(w, r, err)
		return
	}
	p.dispatcher.Dispatch(r.Context(), &event.ProjectCreated{
		ProjectID:   publicID,
		FamilyID:    family.ID,
		ProjectName: req.Name,
		CreatedBy:   userID,
	})
	project, err := p.store.ProjectByPublicID(r.Context(), family.ID, publicID)
	if err != nil {
		p.storeError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.Respond(w, r, projectResponseFrom(project))
}

func (p *ProjectRessource) list(w http.ResponseWriter, r *http.Request) {
	family, err := auth.FamilyFromContext(r.Context())
	if err != nil {
		p.renderErr(w, r, createError("server_error", http.StatusInternalServerError, ""))
		return
	}
	rows, total, err := p.store.Projects(r.Context(), family.ID, listOpts(r))
	if err != nil {
		p.storeError(w, r, err)
		return
	}
	entries := make([]*projectResponse, len(rows))
	for i, row := range rows {
		entries[i] = projectResponseFrom(row)
	}
	render.Respond(w, r, &projectListResponse{Total: total, Entries: entries})
}

func (p *ProjectRessource) get(w http.ResponseWriter, r *http.Request) {
	project, ok := p.project(w, r)
	if !ok {
		return
	}
	render.Respond(w, r, projectResponseFrom(project))
}

func (p *ProjectRessource) archive(w http.ResponseWriter, r *http.Request) {
	family, err := auth.FamilyFromContext(r.Context())
	if err != nil {
		p.renderErr(w, r, createError("server_error", http.StatusInternalServerError, ""))
		return
	}
	publicID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		p.renderErr(w, r, createError("not_found", http.StatusNotFound, ""))
		return
	}
	if err := p.store.ArchiveProject(r.Context(), family.ID, publicID); err != nil {
		p.storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (p *ProjectRessource) createTask(w http.ResponseWriter, r *http.Request) {
	project, ok := p.project(w, r)
	if !ok {
		return
	}
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		p.renderErr(w, r, createError("invalid_request", http.StatusBadRequest, ""))
		return
	}
	if err := p.validate.Struct(&req); err != nil {
		p.renderErr(w, r, createError("invalid_request", http.StatusBadRequest, err.Error()))
		return
	}
	publicID, err := p.store.InsertTask(
		r.Context(),
		project.ID,
		req.Title,
		req.Notes,
		req.DueAt,
		req.AssignedTo,
	)
	if err != nil {
		p.storeError(w, r, err)
		return
	}
	task, err := p.store.TaskByPublicID(r.Context(), project.ID, publicID)
	if err != nil {
		p.storeError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.Respond(w, r, taskResponseFrom(task))
}

func (p *ProjectRessource) listTasks(w http.ResponseWriter, r *http.Request) {
	project, ok := p.project(w, r)
	if !ok {
		return
	}
	rows, total, err := p.store.Tasks(r.Context(), project.ID, listOpts(r))
	if err != nil {
		p.storeError(w, r, err)
		return
	}
	entries := make([]*taskResponse, len(rows))
	for i, row := range rows {
		entries[i] = taskResponseFrom(row)
	}
	render.Respond(w, r, &taskListResponse{Total: total, Entries: entries})
}

func (p *ProjectRessource) getTask(w http.ResponseWriter, r *http.Request) {
	project, ok := p.project(w, r)
	if !ok {
		return
	}
	publicID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		p.renderErr(w, r, createError("not_found", http.StatusNotFound, ""))
		return
	}
	task, err := p.store.TaskByPublicID(r.Context(), project.ID, publicID)
	if err != nil {
		p.storeError(w, r, err)
		return
	}
	render.Respond(w, r, taskResponseFrom(task))
}

func (p *ProjectRessource) completeTask(w http.ResponseWriter, r *http.Request) {
	project, ok := p.project(w, r)
	if !ok {
		return
	}
	publicID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		p.renderErr(w, r, createError("not_found", http.StatusNotFound, ""))
		return
	}
	userID, err := auth.Subject(r)
	if err != nil {
		p.renderErr(w, r, createError("unauthorized", http.StatusUnauthorized, ""))
		return
	}
	done, err := p.store.CompleteTask(r.Context(), project.ID, publicID, userID)
	if err != nil {
		p.storeError(w, r, err)
		return
	}
	if !done {
		// someone else won the race, the task is already done
		p.renderErr(w, r, createError("invalid_status", http.StatusConflict, "task is not open"))
		return
	}
	p.dispatcher.Dispatch(r.Context(), &event.TaskCompleted{
		TaskID:      publicID,
		ProjectID:   project.PublicID,
		CompletedBy: userID,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (p *ProjectRessource) assignTask(w http.ResponseWriter, r *http.Request) {
	project, ok := p.project(w, r)
	if !ok {
		return
	}
	publicID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		p.renderErr(w, r, createError("not_found", http.StatusNotFound, ""))
		return
	}
	var req assignTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		p.renderErr(w, r, createError("invalid_request", http.StatusBadRequest, ""))
		return
	}
	if err := p.store.AssignTask(r.Context(), project.ID, publicID, req.AssignedTo); err != nil {
		p.storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (p *ProjectRessource) project(
	w http.ResponseWriter,
	r *http.Request,
) (*tables.ProjectTable, bool) {
	family, err := auth.FamilyFromContext(r.Context())
	if err != nil {
		p.renderErr(w, r, createError("server_error", http.StatusInternalServerError, ""))
		return nil, false
	}
	publicID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		p.renderErr(w, r, createError("not_found", http.StatusNotFound, ""))
		return nil, false
	}
	project, err := p.store.ProjectByPublicID(r.Context(), family.ID, publicID)
	if err != nil {
		p.storeError(w, r, err)
		return nil, false
	}
	return project, true
}
