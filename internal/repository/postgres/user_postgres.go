package postgres

import (
	"context"
	"database/sql"

	"patientdocs/internal/model"
	"patientdocs/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

// Create inserts a new user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, user *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (id, username, email, password_hash, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, username, email, password_hash, is_active, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsActive,
		user.CreatedAt,
	)
	var out model.User
	if err := scanUser(row, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single user by primary key.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

// FindByUsername fetches a single user by unique username.
func (r *UserPostgres) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, `WHERE username = $1`, username)
}

// FindByEmail fetches a single user by unique email.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `WHERE email = $1`, email)
}

func (r *UserPostgres) findOne(ctx context.Context, where string, arg any) (*model.User, error) {
	q := `
		SELECT id, username, email, password_hash, is_active, created_at
		FROM users
		` + where
	row := r.db.QueryRowContext(ctx, q, arg)
	var u model.User
	if err := scanUser(row, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func scanUser(row rowScanner, u *model.User) error {
	return row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.IsActive,
		&u.CreatedAt,
	)
}
