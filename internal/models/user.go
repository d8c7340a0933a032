package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered author. Registration and credential management
// live in the auth service; this service only reads users to resolve
// usernames and render the author feed.
type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Roles     []string  `db:"roles" json:"roles"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
