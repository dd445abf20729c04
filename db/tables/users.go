package tables

import (
	"time"

	"github.com/google/uuid"
)

// UserTable represents the users table
type UserTable struct {
	ID        uuid.UUID  `db:"id,omitempty"         fiql:"id,db:id"`
	Email     string     `db:"email"                fiql:"email,db:email"`
	FirstName *string    `db:"first_name"           fiql:"first_name,db:first_name"`
	LastName  *string    `db:"last_name"            fiql:"last_name,db:last_name"`
	Password  string     `db:"password"                                              json:"-"`
	Superuser bool       `db:"superuser"`
	CreatedAt time.Time  `db:"created_at"           fiql:"created_at,db:created_at"`
	UpdatedAt *time.Time `db:"updated_at,omitempty" fiql:"updated_at,db:updated_at"`
}
