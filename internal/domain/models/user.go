package models

import "time"

// User is a registered identity. PasswordHash is a bcrypt hash and never
// leaves the backend.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
