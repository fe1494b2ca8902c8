package domain

import "time"

// DefaultRole is assigned when a registration omits the role label.
// The label is opaque to this service; nothing enforces it.
const DefaultRole = "user"

// User is the domain model for a stored account. PasswordHash holds the
// irreversible credential; the plaintext password is never persisted.
type User struct {
	ID           int64
	Name         string
	Email        string
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Sanitized returns a copy safe to leave the service boundary, with the
// credential stripped.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
