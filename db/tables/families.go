package tables

import (
	"time"

	"github.com/google/uuid"
)

// FamilyTable represents the families table, the tenancy boundary
// every invitation, membership and project is confined to
type FamilyTable struct {
	ID         int64      `db:"id,omitempty" fiql:"id,db:id"`
	PublicID   uuid.UUID  `db:"public_id"    fiql:"public_id,db:public_id"`
	Name       string     `db:"name"         fiql:"name,db:name"`
	CreatedBy  uuid.UUID  `db:"created_by"`
	CreatedAt  time.Time  `db:"created_at"   fiql:"created_at,db:created_at"`
	UpdatedAt  *time.Time `db:"updated_at,omitempty"`
	ArchivedAt *time.Time `db:"archived_at"`
}

// MembershipTable represents the memberships table
type MembershipTable struct {
	ID        int64      `db:"id,omitempty"`
	FamilyID  int64      `db:"family_id"`
	UserID    uuid.UUID  `db:"user_id"`
	RoleID    int64      `db:"role_id"`
	GrantedAt time.Time  `db:"granted_at"`
	// ValidUntil bounds time-limited grants, nil means no bound
	ValidUntil *time.Time `db:"valid_until"`
	RevokedAt  *time.Time `db:"revoked_at"`
}
