package tables

import (
	"time"

	"github.com/google/uuid"
)

// ProjectTable represents the projects table
type ProjectTable struct {
	ID         int64      `db:"id,omitempty" fiql:"id,db:id"`
	PublicID   uuid.UUID  `db:"public_id"    fiql:"public_id,db:public_id"`
	FamilyID   int64      `db:"family_id"    fiql:"family_id,db:family_id"`
	Name       string     `db:"name"         fiql:"name,db:name"`
	Notes      *string    `db:"notes"`
	CreatedBy  uuid.UUID  `db:"created_by"`
	CreatedAt  time.Time  `db:"created_at"   fiql:"created_at,db:created_at"`
	UpdatedAt  *time.Time `db:"updated_at,omitempty"`
	ArchivedAt *time.Time `db:"archived_at"`
}

// TaskTable represents the tasks table
type TaskTable struct {
	ID          int64      `db:"id,omitempty" fiql:"id,db:id"`
	PublicID    uuid.UUID  `db:"public_id"    fiql:"public_id,db:public_id"`
	ProjectID   int64      `db:"project_id"   fiql:"project_id,db:project_id"`
	Title       string     `db:"title"        fiql:"title,db:title"`
	Notes       *string    `db:"notes"`
	Status      string     `db:"status"       fiql:"status,db:status"`
	DueAt       *time.Time `db:"due_at"       fiql:"due_at,db:due_at"`
	AssignedTo  *uuid.UUID `db:"assigned_to"`
	CompletedBy *uuid.UUID `db:"completed_by"`
	CompletedAt *time.Time `db:"completed_at"`
	CreatedAt   time.Time  `db:"created_at"   fiql:"created_at,db:created_at"`
	UpdatedAt   *time.Time `db:"updated_at,omitempty"`
}
