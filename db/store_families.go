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

var familyColumns = []string{
	"id", "public_id", "name", "created_by", "created_at", "updated_at", "archived_at",
}

// InsertFamily creates a new family owned by the given user
func (d *DataStore) InsertFamily(
	ctx context.Context,
	name string,
	createdBy uuid.UUID,
) (int64, uuid.UUID, error) {
	publicID := uuid.New()
	var id int64
	ins := sq.Insert("families").
		Columns("public_id", "name", "created_by", "created_at").
		Values(publicID, name, createdBy, time.Now().UTC()).
		Suffix("RETURNING id")
	err := d.returningInsertStatement(ctx, &id, ins, nil)
	if err != nil {
		return 0, uuid.UUID{}, err
	}
	return id, publicID, nil
}

// FamilyByID loads a family by its internal id
func (d *DataStore) FamilyByID(ctx context.Context, id int64) (*tables.FamilyTable, error) {
	var entity tables.FamilyTable
	q := sq.Select(familyColumns...).From("families").Where(sq.Eq{"id": id})
	err := d.getStatement(ctx, &entity, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// FamilyByPublicID loads a family by its public identifier
func (d *DataStore) FamilyByPublicID(
	ctx context.Context,
	publicID uuid.UUID,
) (*tables.FamilyTable, error) {
	var entity tables.FamilyTable
	q := sq.Select(familyColumns...).From("families").Where(sq.Eq{"public_id": publicID})
	err := d.getStatement(ctx, &entity, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// Families lists families paginated
func (d *DataStore) Families(
	ctx context.Context,
	opts ListOptions,
) ([]*tables.FamilyTable, int, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	var c int
	count := sq.Select("COUNT(*)").From("families").Where(sq.Eq{"archived_at": nil})
	applyWhere, err := d.whereFromAdapater("families", opts.Query)
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
		return []*tables.FamilyTable{}, c, nil
	}
	var entities []*tables.FamilyTable
	q := sq.Select(familyColumns...).From("families").Where(sq.Eq{"archived_at": nil})
	q = applyWhere(q)
	q = d.orderByFromAdapater(q, "families", "id DESC", opts)
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

// ArchiveFamily soft-deletes a family
func (d *DataStore) ArchiveFamily(ctx context.Context, id int64) error {
	q := sq.Update("families").
		Set("archived_at", time.Now().UTC()).
		Where(sq.And{sq.Eq{"id": id}, sq.Eq{"archived_at": nil}})
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

// AddMembership grants a user a role within a family, a user holds at most
// one unrevoked membership per family
func (d *DataStore) AddMembership(
	ctx context.Context,
	familyID int64,
	userID uuid.UUID,
	roleID int64,
	validUntil *time.Time,
) (int64, error) {
	active, err := d.exists(ctx, "memberships", sq.And{
		sq.Eq{"family_id": familyID},
		sq.Eq{"user_id": userID},
		sq.Eq{"revoked_at": nil},
	})
	if err != nil {
		return 0, err
	}
	if active {
		return 0, ErrAlreadyExists
	}
	var id int64
	ins := sq.Insert("memberships").
		Columns("family_id", "user_id", "role_id", "granted_at", "valid_until").
		Values(familyID, userID, roleID, time.Now().UTC(), validUntil).
		Suffix("RETURNING id")
	err = d.returningInsertStatement(ctx, &id, ins, nil)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// RevokeMembership ends a users membership in a family
func (d *DataStore) RevokeMembership(
	ctx context.Context,
	familyID int64,
	userID uuid.UUID,
) error {
	q := sq.Update("memberships").
		Set("revoked_at", time.Now().UTC()).
		Where(sq.And{
			sq.Eq{"family_id": familyID},
			sq.Eq{"user_id": userID},
			sq.Eq{"revoked_at": nil},
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

// MemberRow is a membership joined with its role and user
type MemberRow struct {
	MembershipID int64              `db:"membership_id"`
	FamilyID     int64              `db:"family_id"`
	UserID       uuid.UUID          `db:"user_id"`
	Email        string             `db:"email"`
	FirstName    *string            `db:"first_name"`
	LastName     *string            `db:"last_name"`
	RoleName     string             `db:"role_name"`
	Capabilities tables.StringSlice `db:"capabilities"`
	RoleActive   bool               `db:"role_active"`
	GrantedAt    time.Time          `db:"granted_at"`
	ValidUntil   sql.NullTime       `db:"valid_until"`
	RevokedAt    sql.NullTime       `db:"revoked_at"`
}

var memberRowColumns = []string{
	"m.id AS membership_id", "m.family_id", "m.user_id",
	"u.email", "u.first_name", "u.last_name",
	"r.name AS role_name", "r.capabilities", "r.active AS role_active",
	"m.granted_at", "m.valid_until", "m.revoked_at",
}

// ActiveMembership loads the unrevoked membership of a user in a family
// together with its role, expiry of the grant is left to the caller
func (d *DataStore) ActiveMembership(
	ctx context.Context,
	familyID int64,
	userID uuid.UUID,
) (*MemberRow, error) {
	var row MemberRow
	q := sq.Select(memberRowColumns...).
		From("memberships m").
		Join("users u ON u.id = m.user_id").
		Join("roles r ON r.id = m.role_id").
		Where(sq.And{
			sq.Eq{"m.family_id": familyID},
			sq.Eq{"m.user_id": userID},
			sq.Eq{"m.revoked_at": nil},
		})
	err := d.getStatement(ctx, &row, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// FamilyMembers lists the unrevoked memberships of a family with their roles
func (d *DataStore) FamilyMembers(
	ctx context.Context,
	familyID int64,
) ([]*MemberRow, error) {
	var rows []*MemberRow
	q := sq.Select(memberRowColumns...).
		From("memberships m").
		Join("users u ON u.id = m.user_id").
		Join("roles r ON r.id = m.role_id").
		Where(sq.And{
			sq.Eq{"m.family_id": familyID},
			sq.Eq{"m.revoked_at": nil},
		}).
		OrderBy("m.granted_at ASC")
	err := d.selectStatement(ctx, &rows, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*MemberRow{}, nil
		}
		return nil, err
	}
	return rows, nil
}

// MembershipsOf lists every unrevoked membership of a user across families
func (d *DataStore) MembershipsOf(
	ctx context.Context,
	userID uuid.UUID,
) ([]*MemberRow, error) {
	var rows []*MemberRow
	q := sq.Select(memberRowColumns...).
		From("memberships m").
		Join("users u ON u.id = m.user_id").
		Join("roles r ON r.id = m.role_id").
		Where(sq.And{
			sq.Eq{"m.user_id": userID},
			sq.Eq{"m.revoked_at": nil},
		}).
		OrderBy("m.granted_at ASC")
	err := d.selectStatement(ctx, &rows, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*MemberRow{}, nil
		}
		return nil, err
	}
	return rows, nil
}
