package projects

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/db/tables"
)

type createProjectRequest struct {
	Name  string  `json:"name" validate:"required,max=120"`
	Notes *string `json:"notes"`
}

type createTaskRequest struct {
	Title      string     `json:"title" validate:"required,max=200"`
	Notes      *string    `json:"notes"`
	DueAt      *time.Time `json:"due_at"`
	AssignedTo *uuid.UUID `json:"assigned_to"`
}

type assignTaskRequest struct {
	AssignedTo *uuid.UUID `json:"assigned_to"`
}

type projectResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (*projectResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

func projectResponseFrom(t *tables.ProjectTable) *projectResponse {
	return &projectResponse{
		ID:        t.PublicID,
		Name:      t.Name,
		Notes:     t.Notes,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
	}
}

type projectListResponse struct {
	Total   int                `json:"total"`
	Entries []*projectResponse `json:"entries"`
}

func (*projectListResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

type taskResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Notes       *string    `json:"notes,omitempty"`
	Status      string     `json:"status"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty"`
	CompletedBy *uuid.UUID `json:"completed_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (*taskResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

func taskResponseFrom(t *tables.TaskTable) *taskResponse {
	return &taskResponse{
		ID:          t.PublicID,
		Title:       t.Title,
		Notes:       t.Notes,
		Status:      t.Status,
		DueAt:       t.DueAt,
		AssignedTo:  t.AssignedTo,
		CompletedBy: t.CompletedBy,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
	}
}

type taskListResponse struct {
	Total   int             `json:"total"`
	Entries []*taskResponse `json:"entries"`
}

func (*taskListResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
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
