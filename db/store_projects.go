package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/db/tables"
)

// Task status values as persisted in the tasks table
const (
	TaskStatusOpen = "open"
	TaskStatusDone = "done"
)

var projectColumns = []string{
	"id", "public_id", "family_id", "name", "notes",
	"created_by", "created_at", "updated_at", "archived_at",
}

var taskColumns = []string{
	"id", "public_id", "project_id", "title", "notes", "status", "due_at",
	"assigned_to", "completed_by", "completed_at", "created_at", "updated_at",
}

// InsertProject creates a project within a family
func (d *DataStore) InsertProject(
	ctx context.Context,
	familyID int64,
	name string,
	notes *string,
	createdBy uuid.UUID,
) (uuid.UUID, error) {
	dup, err := d.exists(ctx, "projects", sq.And{
		sq.Eq{"family_id": familyID},
		sq.Eq{"name": name},
		sq.Eq{"archived_at": nil},
	})
	if err != nil {
		return uuid.UUID{}, err
	}
	if dup {
		return uuid.UUID{}, ErrAlreadyExists
	}
	publicID := uuid.New()
	ins := sq.Insert("projects").
		Columns("public_id", "family_id", "name", "notes", "created_by", "created_at").
		Values(publicID, familyID, name, notes, createdBy, time.Now().UTC())
	_, err = d.insertStatement(ctx, ins, nil)
	if err != nil {
		return uuid.UUID{}, err
	}
	return publicID, nil
}

// ProjectByPublicID loads a project by its public identifier scoped
// to a family, a project of another family reads as not found
func (d *DataStore) ProjectByPublicID(
	ctx context.Context,
	familyID int64,
	publicID uuid.UUID,
) (*tables.ProjectTable, error) {
	var entity tables.ProjectTable
	q := sq.Select(projectColumns...).
		From("projects").
		Where(sq.And{
			sq.Eq{"public_id": publicID},
			sq.Eq{"family_id": familyID},
		})
	err := d.getStatement(ctx, &entity, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// Projects lists the unarchived projects of a family paginated
func (d *DataStore) Projects(
	ctx context.Context,
	familyID int64,
	opts ListOptions,
) ([]*tables.ProjectTable, int, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	var c int
	count := sq.Select("COUNT(*)").
		From("projects").
		Where(sq.Eq{"family_id": familyID}).
		Where(sq.Eq{"archived_at": nil})
	applyWhere, err := d.whereFromAdapater("projects", opts.Query)
	if err != nil {
		return nil, 0, err
	}
	count = applyWhere(count)
	err = count.RunWith(d.db).Scan(&c)
	if err != nil {
		return nil, 0, err
	}
	offset := (opts.Page - 1) * opts.PageSize
	if c < int(offset) {
		return []*tables.ProjectTable{}, c, nil
	}
	var entities []*tables.ProjectTable
	q := sq.Select(projectColumns...).
		From("projects").
		Where(sq.Eq{"family_id": familyID}).
		Where(sq.Eq{"archived_at": nil})
	q = applyWhere(q)
	q = d.orderByFromAdapater(q, "projects", "id DESC", opts)
	q = q.Offset(uint64(offset)).Limit(uint64(opts.PageSize))
	err = d.selectStatement(ctx, &entities, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	return entities, c, nil
}

// ArchiveProject soft-deletes a project
func (d *DataStore) ArchiveProject(ctx context.Context, familyID int64, publicID uuid.UUID) error {
	q := sq.Update("projects").
		Set("archived_at", time.Now().UTC()).
		Where(sq.And{
			sq.Eq{"public_id": publicID},
			sq.Eq{"family_id": familyID},
			sq.Eq{"archived_at": nil},
		})
	res, err := d.updateStatement(ctx, q, nil)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertTask creates a task within a project
func (d *DataStore) InsertTask(
	ctx context.Context,
	projectID int64,
	title string,
	notes *string,
	dueAt *time.Time,
	assignedTo *uuid.UUID,
) (uuid.UUID, error) {
	publicID := uuid.New()
	ins := sq.Insert("tasks").
		Columns("public_id", "project_id", "title", "notes", "status",
			"due_at", "assigned_to", "created_at").
		Values(publicID, projectID, title, notes, TaskStatusOpen,
			dueAt, assignedTo, time.Now().UTC())
	_, err := d.insertStatement(ctx, ins, nil)
	if err != nil {
		return uuid.UUID{}, err
	}
	return publicID, nil
}

// TaskByPublicID loads a task by its public identifier scoped to a project
func (d *DataStore) TaskByPublicID(
	ctx context.Context,
	projectID int64,
	publicID uuid.UUID,
) (*tables.TaskTable, error) {
	var entity tables.TaskTable
	q := sq.Select(taskColumns...).
		From("tasks").
		Where(sq.And{
			sq.Eq{"public_id": publicID},
			sq.Eq{"project_id": projectID},
		})
	err := d.getStatement(ctx, &entity, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// Tasks lists the tasks of a project paginated
func (d *DataStore) Tasks(
	ctx context.Context,
	projectID int64,
	opts ListOptions,
) ([]*tables.TaskTable, int, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	var c int
	count := sq.Select("COUNT(*)").
		From("tasks").
		Where(sq.Eq{"project_id": projectID})
	applyWhere, err := d.whereFromAdapater("tasks", opts.Query)
	if err != nil {
		return nil, 0, err
	}
	count = applyWhere(count)
	err = count.RunWith(d.db).Scan(&c)
	if err != nil {
		return nil, 0, err
	}
	offset := (opts.Page - 1) * opts.PageSize
	if c < int(offset) {
		return []*tables.TaskTable{}, c, nil
	}
	var entities []*tables.TaskTable
	q := sq.Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"project_id": projectID})
	q = applyWhere(q)
	q = d.orderByFromAdapater(q, "tasks", "id ASC", opts)
	q = q.Offset(uint64(offset)).Limit(uint64(opts.PageSize))
	err = d.selectStatement(ctx, &entities, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	return entities, c, nil
}

// CompleteTask marks an open task done, the status guard keeps a
// double completion from overwriting who finished it first
func (d *DataStore) CompleteTask(
	ctx context.Context,
	projectID int64,
	publicID uuid.UUID,
	completedBy uuid.UUID,
) (bool, error) {
	now := time.Now().UTC()
	q := sq.Update("tasks").
		Set("status", TaskStatusDone).
		Set("completed_by", completedBy).
		Set("completed_at", now).
		Set("updated_at", now).
		Where(sq.And{
			sq.Eq{"public_id": publicID},
			sq.Eq{"project_id": projectID},
			sq.Eq{"status": TaskStatusOpen},
		})
	res, err := d.updateStatement(ctx, q, nil)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// AssignTask assigns or unassigns an open task
func (d *DataStore) AssignTask(
	ctx context.Context,
	projectID int64,
	publicID uuid.UUID,
	assignee *uuid.UUID,
) error {
	q := sq.Update("tasks").
		Set("assigned_to", assignee).
		Set("updated_at", time.Now().UTC()).
		Where(sq.And{
			sq.Eq{"public_id": publicID},
			sq.Eq{"project_id": projectID},
			sq.Eq{"status": TaskStatusOpen},
		})
	res, err := d.updateStatement(ctx, q, nil)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
