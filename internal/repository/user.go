package repository

import (
	"context"

	"patientdocs/internal/model"
)

// UserRepository defines data access for user accounts.
// Users are never updated or deleted once created.
type UserRepository interface {
	// Create inserts a new user record and returns the stored row.
	Create(ctx context.Context, user *model.User) (*model.User, error)

	// FindByID returns a user by primary key, or sql.ErrNoRows if absent.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername returns a user by unique username, or sql.ErrNoRows if absent.
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// FindByEmail returns a user by unique email, or sql.ErrNoRows if absent.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
