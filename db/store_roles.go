package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/kinfolkhq/kinfolk/db/tables"
)

var roleColumns = []string{"id", "name", "capabilities", "active", "created_at"}

// AddRole creates a role with its capability set
func (d *DataStore) AddRole(
	ctx context.Context,
	name string,
	capabilities []string,
) (int64, error) {
	taken, err := d.exists(ctx, "roles", sq.Eq{"name": name})
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, ErrAlreadyExists
	}
	var id int64
	ins := sq.Insert("roles").
		Columns("name", "capabilities", "active", "created_at").
		Values(name, tables.StringSlice(capabilities), true, time.Now().UTC()).
		Suffix("RETURNING id")
	err = d.returningInsertStatement(ctx, &id, ins, nil)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// RoleByName loads a role by name
func (d *DataStore) RoleByName(ctx context.Context, name string) (*tables.RoleTable, error) {
	var entity tables.RoleTable
	q := sq.Select(roleColumns...).From("roles").Where(sq.Eq{"name": name})
	err := d.getStatement(ctx, &entity, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// SetRoleCapabilities replaces the capability set of a role
func (d *DataStore) SetRoleCapabilities(
	ctx context.Context,
	name string,
	capabilities []string,
) error {
	q := sq.Update("roles").
		Set("capabilities", tables.StringSlice(capabilities)).
		Where(sq.Eq{"name": name})
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

// SetRoleActive toggles whether a role grants its capabilities
func (d *DataStore) SetRoleActive(ctx context.Context, name string, active bool) error {
	q := sq.Update("roles").
		Set("active", active).
		Where(sq.Eq{"name": name})
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

// DeleteRole removes a role unless memberships still reference it
func (d *DataStore) DeleteRole(ctx context.Context, name string) error {
	role, err := d.RoleByName(ctx, name)
	if err != nil {
		return err
	}
	used, err := d.exists(ctx, "memberships", sq.And{
		sq.Eq{"role_id": role.ID},
		sq.Eq{"revoked_at": nil},
	})
	if err != nil {
		return err
	}
	if used {
		return ErrInUse
	}
	del := sq.Delete("roles").Where(sq.Eq{"id": role.ID})
	_, err = d.deleteStatement(ctx, del, nil)
	return err
}

// Roles lists roles paginated
func (d *DataStore) Roles(
	ctx context.Context,
	opts ListOptions,
) ([]*tables.RoleTable, int, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	var c int
	count := sq.Select("COUNT(*)").From("roles")
	applyWhere, err := d.whereFromAdapater("roles", opts.Query)
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
		return []*tables.RoleTable{}, c, nil
	}
	var entities []*tables.RoleTable
	q := sq.Select(roleColumns...).From("roles")
	q = applyWhere(q)
	q = d.orderByFromAdapater(q, "roles", "id ASC", opts)
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
