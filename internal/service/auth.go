package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"patientdocs/internal/model"
	"patientdocs/internal/repository"
	"patientdocs/internal/token"
)

const minPasswordLength = 8

var (
	ErrUsernameTaken      = errors.New("username already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 8 characters long")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInactiveAccount    = errors.New("inactive user account")
	ErrUnauthorized       = errors.New("unauthorized")
)

// AuthResult carries a freshly issued bearer token and the identity it belongs to.
type AuthResult struct {
	Token    string `json:"access_token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// AuthService defines signup, login and per-request token resolution.
type AuthService interface {
	// Signup registers a new user and logs them in immediately.
	// Validation order: username uniqueness, email uniqueness, password strength.
	Signup(ctx context.Context, username, email, password string) (*AuthResult, error)

	// Login verifies credentials for an existing user. Unknown usernames and
	// wrong passwords both map to ErrInvalidCredentials so callers cannot tell
	// which check failed.
	Login(ctx context.Context, username, password string) (*AuthResult, error)

	// Authenticate resolves a bearer token to an active user, or ErrUnauthorized.
	Authenticate(ctx context.Context, tokenString string) (*model.User, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *token.Manager
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UserRepository, tokens *token.Manager) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Signup(ctx context.Context, username, email, password string) (*AuthResult, error) {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	stored, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueFor(stored)
}

func (s *authService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	return s.issueFor(user)
}

func (s *authService) Authenticate(ctx context.Context, tokenString string) (*model.User, error) {
	userID, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUnauthorized
	}
	return user, nil
}

func (s *authService) issueFor(user *model.User) (*AuthResult, error) {
	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{
		Token:    tok,
		UserID:   user.ID,
		Username: user.Username,
	}, nil
}
