package tables

import "time"

// RoleTable represents the roles table, capabilities is the
// set of atomic permissions the role carries
type RoleTable struct {
	ID           int64       `db:"id,omitempty" fiql:"id,db:id"`
	Name         string      `db:"name"         fiql:"name,db:name"`
	Capabilities StringSlice `db:"capabilities"`
	Active       bool        `db:"active"       fiql:"active,db:active"`
	CreatedAt    time.Time   `db:"created_at"   fiql:"created_at,db:created_at"`
}
