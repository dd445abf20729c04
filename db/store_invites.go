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

// InvitationStatus values as persisted in the invitations table
const (
	InvitationStatusPending   = "pending"
	InvitationStatusAccepted  = "accepted"
	InvitationStatusExpired   = "expired"
	InvitationStatusCancelled = "cancelled"
)

var invitationColumns = []string{
	"id", "public_id", "family_id", "email", "first_name", "last_name",
	"role", "message", "status", "token", "expires_at", "invited_by",
	"accepted_by", "accepted_at", "reminder_sent_at", "created_at",
	"updated_at", "archived_at",
}

// InsertInvitationParams carries everything needed to persist a fresh invitation
type InsertInvitationParams struct {
	FamilyID  int64
	Email     string
	FirstName *string
	LastName  *string
	Role      string
	Message   *string
	Token     string
	ExpiresAt time.Time
	InvitedBy uuid.UUID
}

// InsertInvitation persists a new pending invitation, it refuses a second
// pending invitation for the same address within the same family
func (d *DataStore) InsertInvitation(
	ctx context.Context,
	p InsertInvitationParams,
) (int64, uuid.UUID, error) {
	dup, err := d.exists(ctx, "invitations", sq.And{
		sq.Eq{"family_id": p.FamilyID},
		sq.Eq{"email": p.Email},
		sq.Eq{"status": InvitationStatusPending},
		sq.Eq{"archived_at": nil},
	})
	if err != nil {
		return 0, uuid.UUID{}, err
	}
	if dup {
		return 0, uuid.UUID{}, ErrAlreadyExists
	}
	publicID := uuid.New()
	var id int64
	ins := sq.Insert("invitations").
		Columns("public_id", "family_id", "email", "first_name", "last_name",
			"role", "message", "status", "token", "expires_at", "invited_by", "created_at").
		Values(publicID, p.FamilyID, p.Email, p.FirstName, p.LastName,
			p.Role, p.Message, InvitationStatusPending, p.Token, p.ExpiresAt,
			p.InvitedBy, time.Now().UTC()).
		Suffix("RETURNING id")
	err = d.returningInsertStatement(ctx, &id, ins, nil)
	if err != nil {
		return 0, uuid.UUID{}, err
	}
	return id, publicID, nil
}

// InvitationTokenExists checks whether a token is already taken, tokens are
// never reused so archived rows count as well
func (d *DataStore) InvitationTokenExists(ctx context.Context, token string) (bool, error) {
	return d.exists(ctx, "invitations", sq.Eq{"token": token})
}

// InvitationByToken loads the invitation a token resolves to,
// archived rows are returned too so the caller can tell them apart
func (d *DataStore) InvitationByToken(
	ctx context.Context,
	token string,
) (*tables.InvitationTable, error) {
	var entity tables.InvitationTable
	q := sq.Select(invitationColumns...).
		From("invitations").
		Where(sq.Eq{"token": token})
	err := d.getStatement(ctx, &entity, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// InvitationByID loads an invitation by its internal id, used by the
// outbox drain which stores the internal reference
func (d *DataStore) InvitationByID(ctx context.Context, id int64) (*tables.InvitationTable, error) {
	var entity tables.InvitationTable
	q := sq.Select(invitationColumns...).
		From("invitations").
		Where(sq.Eq{"id": id})
	err := d.getStatement(ctx, &entity, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// InvitationByPublicID loads an invitation by its public identifier
func (d *DataStore) InvitationByPublicID(
	ctx context.Context,
	publicID uuid.UUID,
) (*tables.InvitationTable, error) {
	var entity tables.InvitationTable
	q := sq.Select(invitationColumns...).
		From("invitations").
		Where(sq.Eq{"public_id": publicID})
	err := d.getStatement(ctx, &entity, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// Invitations lists the unarchived invitations of a family paginated,
// invitedBy narrows the result to a single inviter when the caller may
// not see the whole family
func (d *DataStore) Invitations(
	ctx context.Context,
	familyID int64,
	invitedBy *uuid.UUID,
	opts ListOptions,
) ([]*tables.InvitationTable, int, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	scope := func(b sq.SelectBuilder) sq.SelectBuilder {
		b = b.Where(sq.Eq{"family_id": familyID}).Where(sq.Eq{"archived_at": nil})
		if invitedBy != nil {
			b = b.Where(sq.Eq{"invited_by": *invitedBy})
		}
		return b
	}

	var c int
	count := scope(sq.Select("COUNT(*)").From("invitations"))
	applyWhere, err := d.whereFromAdapater("invitations", opts.Query)
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
		return []*tables.InvitationTable{}, c, nil
	}

	var entities []*tables.InvitationTable
	q := scope(sq.Select(invitationColumns...).From("invitations"))
	q = applyWhere(q)
	q = d.orderByFromAdapater(q, "invitations", "id DESC", opts)
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

// AcceptInvitation marks a pending invitation accepted, the status guard in
// the where clause makes concurrent accepts lose cleanly instead of
// overwriting each other
func (d *DataStore) AcceptInvitation(
	ctx context.Context,
	id int64,
	userID uuid.UUID,
) (bool, error) {
	now := time.Now().UTC()
	q := sq.Update("invitations").
		Set("status", InvitationStatusAccepted).
		Set("accepted_by", userID).
		Set("accepted_at", now).
		Set("updated_at", now).
		Where(sq.And{
			sq.Eq{"id": id},
			sq.Eq{"status": InvitationStatusPending},
			sq.Eq{"archived_at": nil},
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

// CancelInvitation marks a pending or expired invitation cancelled
func (d *DataStore) CancelInvitation(ctx context.Context, id int64) (bool, error) {
	q := sq.Update("invitations").
		Set("status", InvitationStatusCancelled).
		Set("updated_at", time.Now().UTC()).
		Where(sq.And{
			sq.Eq{"id": id},
			sq.Eq{"status": []string{InvitationStatusPending, InvitationStatusExpired}},
			sq.Eq{"archived_at": nil},
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

// ResetInvitationToken rotates the token of a pending or expired invitation,
// forces it back to pending and clears a sent reminder so the new expiry
// gets its own one
func (d *DataStore) ResetInvitationToken(
	ctx context.Context,
	id int64,
	token string,
	expires time.Time,
	message *string,
) (bool, error) {
	q := sq.Update("invitations").
		Set("token", token).
		Set("expires_at", expires).
		Set("status", InvitationStatusPending).
		Set("reminder_sent_at", nil).
		Set("updated_at", time.Now().UTC()).
		Where(sq.And{
			sq.Eq{"id": id},
			sq.Eq{"status": []string{InvitationStatusPending, InvitationStatusExpired}},
			sq.Eq{"archived_at": nil},
		})
	if message != nil {
		q = q.Set("message", *message)
	}
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

// ExtendInvitationExpiry pushes the expiry of a pending invitation
func (d *DataStore) ExtendInvitationExpiry(
	ctx context.Context,
	id int64,
	until time.Time,
) (bool, error) {
	q := sq.Update("invitations").
		Set("expires_at", until).
		Set("reminder_sent_at", nil).
		Set("updated_at", time.Now().UTC()).
		Where(sq.And{
			sq.Eq{"id": id},
			sq.Eq{"status": InvitationStatusPending},
			sq.Eq{"archived_at": nil},
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

// ExpirePendingInvitations bulk transitions overdue pending invitations to
// expired and returns how many rows were affected, rerunning it is a no-op
func (d *DataStore) ExpirePendingInvitations(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	q := sq.Update("invitations").
		Set("status", InvitationStatusExpired).
		Set("updated_at", now).
		Where(sq.And{
			sq.Eq{"status": InvitationStatusPending},
			sq.Lt{"expires_at": now},
			sq.Eq{"archived_at": nil},
		})
	res, err := d.updateStatement(ctx, q, nil)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// PendingInvitationsExpiringBefore returns pending invitations whose expiry
// falls before the given point and that have not seen a reminder yet
func (d *DataStore) PendingInvitationsExpiringBefore(
	ctx context.Context,
	now time.Time,
	before time.Time,
) ([]*tables.InvitationTable, error) {
	var entities []*tables.InvitationTable
	q := sq.Select(invitationColumns...).
		From("invitations").
		Where(sq.And{
			sq.Eq{"status": InvitationStatusPending},
			sq.Eq{"reminder_sent_at": nil},
			sq.Eq{"archived_at": nil},
			sq.Gt{"expires_at": now},
			sq.Lt{"expires_at": before},
		})
	err := d.selectStatement(ctx, &entities, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*tables.InvitationTable{}, nil
		}
		return nil, err
	}
	return entities, nil
}

// SetInvitationReminderSent records that the expiry reminder went out
func (d *DataStore) SetInvitationReminderSent(ctx context.Context, id int64) error {
	q := sq.Update("invitations").
		Set("reminder_sent_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})
	_, err := d.updateStatement(ctx, q, nil)
	return err
}

// ArchiveInvitationsBefore soft-deletes terminal invitations last touched
// before the cutoff, rows are never hard-deleted
func (d *DataStore) ArchiveInvitationsBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	q := sq.Update("invitations").
		Set("archived_at", time.Now().UTC()).
		Where(sq.And{
			sq.Eq{"status": []string{
				InvitationStatusAccepted,
				InvitationStatusExpired,
				InvitationStatusCancelled,
			}},
			sq.Eq{"archived_at": nil},
			sq.Lt{"created_at": cutoff},
		})
	res, err := d.updateStatement(ctx, q, nil)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// StatusCount is a single bucket of the invitation stats
type StatusCount struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

// RoleCount is a single role bucket of the invitation stats
type RoleCount struct {
	Role  string `db:"role"`
	Count int    `db:"count"`
}

// InvitationStats counts the unarchived invitations of a family
// by status and by role
func (d *DataStore) InvitationStats(
	ctx context.Context,
	familyID int64,
) ([]StatusCount, []RoleCount, error) {
	var byStatus []StatusCount
	sb := sq.Select("status", "COUNT(*) AS count").
		From("invitations").
		Where(sq.Eq{"family_id": familyID}).
		Where(sq.Eq{"archived_at": nil}).
		GroupBy("status")
	err := d.selectStatement(ctx, &byStatus, sb, nil)
	if err != nil {
		return nil, nil, err
	}
	var byRole []RoleCount
	rb := sq.Select("role", "COUNT(*) AS count").
		From("invitations").
		Where(sq.Eq{"family_id": familyID}).
		Where(sq.Eq{"archived_at": nil}).
		GroupBy("role")
	err = d.selectStatement(ctx, &byRole, rb, nil)
	if err != nil {
		return nil, nil, err
	}
	return byStatus, byRole, nil
}

// IsInviteable checks that the address neither belongs to a registered user
// nor has a live pending invitation within the family
func (d *DataStore) IsInviteable(
	ctx context.Context,
	familyID int64,
	email string,
) (bool, error) {
	user, err := d.exists(ctx, "users", sq.Eq{"email": email})
	if err != nil {
		return false, err
	}
	if user {
		return false, nil
	}
	invite, err := d.exists(ctx, "invitations", sq.And{
		sq.Eq{"family_id": familyID},
		sq.Eq{"email": email},
		sq.Eq{"status": InvitationStatusPending},
		sq.Eq{"archived_at": nil},
	})
	if err != nil {
		return false, err
	}
	return !invite, nil
}
