package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// InsertRefreshToken stores a freshly issued refresh token
func (d *DataStore) InsertRefreshToken(
	ctx context.Context,
	userID uuid.UUID,
	token string,
	expires time.Time,
) (int64, error) {
	var id int64
	ins := sq.Insert("refresh_tokens").
		Columns("user_id", "token", "expires_at", "created_at").
		Values(userID, token, expires, time.Now().UTC()).
		Suffix("RETURNING id")
	err := d.returningInsertStatement(ctx, &id, ins, nil)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// RedeemRefreshToken resolves an unrevoked, unexpired refresh token to its
// user and revokes it in the same breath, tokens are single use
func (d *DataStore) RedeemRefreshToken(
	ctx context.Context,
	token string,
	now time.Time,
) (uuid.UUID, error) {
	var userID uuid.UUID
	q := sq.Select("user_id").
		From("refresh_tokens").
		Where(sq.And{
			sq.Eq{"token": token},
			sq.Eq{"revoked_at": nil},
			sq.Gt{"expires_at": now},
		})
	err := d.getStatement(ctx, &userID, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.UUID{}, ErrNotFound
		}
		return uuid.UUID{}, err
	}
	upd := sq.Update("refresh_tokens").
		Set("revoked_at", now).
		Where(sq.And{sq.Eq{"token": token}, sq.Eq{"revoked_at": nil}})
	res, err := d.updateStatement(ctx, upd, nil)
	if err != nil {
		return uuid.UUID{}, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return uuid.UUID{}, err
	}
	if rows == 0 {
		// somebody redeemed it first
		return uuid.UUID{}, ErrNotFound
	}
	return userID, nil
}

// RevokeRefreshTokensOf revokes every live refresh token of a user
func (d *DataStore) RevokeRefreshTokensOf(ctx context.Context, userID uuid.UUID) error {
	upd := sq.Update("refresh_tokens").
		Set("revoked_at", time.Now().UTC()).
		Where(sq.And{sq.Eq{"user_id": userID}, sq.Eq{"revoked_at": nil}})
	_, err := d.updateStatement(ctx, upd, nil)
	return err
}
