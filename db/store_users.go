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

var userColumns = []string{
	"id", "email", "first_name", "last_name", "password",
	"superuser", "created_at", "updated_at",
}

// IsRegistred checks if an email address belongs to a registered user
func (d *DataStore) IsRegistred(ctx context.Context, email string) (bool, error) {
	return d.exists(ctx, "users", sq.Eq{"email": email})
}

// InsertUser creates a new user row
func (d *DataStore) InsertUser(
	ctx context.Context,
	email string,
	firstName *string,
	lastName *string,
	passwordHash string,
) (uuid.UUID, error) {
	taken, err := d.IsRegistred(ctx, email)
	if err != nil {
		return uuid.UUID{}, err
	}
	if taken {
		return uuid.UUID{}, ErrAlreadyExists
	}
	id := uuid.New()
	ins := sq.Insert("users").
		Columns("id", "email", "first_name", "last_name", "password", "created_at").
		Values(id, email, firstName, lastName, passwordHash, time.Now().UTC())
	_, err = d.insertStatement(ctx, ins, nil)
	if err != nil {
		return uuid.UUID{}, err
	}
	return id, nil
}

// UserByID loads a user by id
func (d *DataStore) UserByID(ctx context.Context, id uuid.UUID) (*tables.UserTable, error) {
	var entity tables.UserTable
	q := sq.Select(userColumns...).From("users").Where(sq.Eq{"id": id})
	err := d.getStatement(ctx, &entity, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// UserByEmail loads a user by email address
func (d *DataStore) UserByEmail(ctx context.Context, email string) (*tables.UserTable, error) {
	var entity tables.UserTable
	q := sq.Select(userColumns...).From("users").Where(sq.Eq{"email": email})
	err := d.getStatement(ctx, &entity, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// IDFromEmail resolves an email address to the user id
func (d *DataStore) IDFromEmail(ctx context.Context, email string) (bool, uuid.UUID, error) {
	var id uuid.UUID
	q := sq.Select("id").From("users").Where(sq.Eq{"email": email})
	err := d.getStatement(ctx, &id, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, uuid.UUID{}, nil
		}
		return false, uuid.UUID{}, err
	}
	return true, id, nil
}

// SetPassword replaces a users password hash
func (d *DataStore) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	q := sq.Update("users").
		Set("password", passwordHash).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})
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

// SetSuperuser toggles the operator flag of an account
func (d *DataStore) SetSuperuser(ctx context.Context, id uuid.UUID, superuser bool) error {
	q := sq.Update("users").
		Set("superuser", superuser).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})
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

// Users lists users paginated
func (d *DataStore) Users(
	ctx context.Context,
	opts ListOptions,
) ([]*tables.UserTable, int, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	var c int
	count := sq.Select("COUNT(*)").From("users")
	applyWhere, err := d.whereFromAdapater("users", opts.Query)
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
		return []*tables.UserTable{}, c, nil
	}
	var entities []*tables.UserTable
	q := sq.Select(userColumns...).From("users")
	q = applyWhere(q)
	q = d.orderByFromAdapater(q, "users", "created_at DESC", opts)
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
