package model

import "time"

// User is an account that may upload and manage patient documents.
// Username and email are unique and immutable once set; there is no
// update or delete path for users.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
