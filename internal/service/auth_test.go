package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"patientdocs/internal/model"
	repoMocks "patientdocs/internal/repository/mocks"
	"patientdocs/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestTokens(t *testing.T) *token.Manager {
	t.Helper()
	m, err := token.NewManager("test-secret", 30*time.Minute)
	require.NoError(t, err)
	return m
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		username   string
		email      string
		password   string
		setupMocks func(mUsers *repoMocks.MockUserRepository)
		wantErr    error
	}{
		{
			name:     "happy path",
			username: "alice",
			email:    "alice@x.com",
			password: "password1",
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {
				mUsers.On("FindByUsername", ctx, "alice").Return(nil, sql.ErrNoRows)
				mUsers.On("FindByEmail", ctx, "alice@x.com").Return(nil, sql.ErrNoRows)
				mUsers.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
					return u.Username == "alice" && u.Email == "alice@x.com" &&
						u.IsActive && u.PasswordHash != "" && u.PasswordHash != "password1"
				})).Return(&model.User{ID: "new-id", Username: "alice", IsActive: true}, nil)
			},
		},
		{
			name:     "duplicate username checked first",
			username: "alice",
			email:    "fresh@x.com",
			password: "password1",
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {
				mUsers.On("FindByUsername", ctx, "alice").Return(&model.User{ID: "existing"}, nil)
			},
			wantErr: ErrUsernameTaken,
		},
		{
			name:     "duplicate email checked second",
			username: "bob",
			email:    "alice@x.com",
			password: "password1",
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {
				mUsers.On("FindByUsername", ctx, "bob").Return(nil, sql.ErrNoRows)
				mUsers.On("FindByEmail", ctx, "alice@x.com").Return(&model.User{ID: "existing"}, nil)
			},
			wantErr: ErrEmailTaken,
		},
		{
			name:     "weak password checked after uniqueness",
			username: "bob",
			email:    "bob@x.com",
			password: "short",
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {
				mUsers.On("FindByUsername", ctx, "bob").Return(nil, sql.ErrNoRows)
				mUsers.On("FindByEmail", ctx, "bob@x.com").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrWeakPassword,
		},
		{
			name:     "repository error surfaces",
			username: "bob",
			email:    "bob@x.com",
			password: "password1",
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {
				mUsers.On("FindByUsername", ctx, "bob").Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mUsers := new(repoMocks.MockUserRepository)
			tokens := newTestTokens(t)
			svc := NewAuthService(mUsers, tokens)

			tt.setupMocks(mUsers)

			res, err := svc.Signup(ctx, tt.username, tt.email, tt.password)

			if tt.wantErr != nil {
				switch {
				case errors.Is(tt.wantErr, ErrUsernameTaken),
					errors.Is(tt.wantErr, ErrEmailTaken),
					errors.Is(tt.wantErr, ErrWeakPassword):
					assert.ErrorIs(t, err, tt.wantErr)
				default:
					assert.Error(t, err)
				}
				assert.Nil(t, res)
			} else {
				require.NoError(t, err)
				require.NotNil(t, res)
				assert.Equal(t, "new-id", res.UserID)
				assert.Equal(t, "alice", res.Username)

				// Auto-login on signup: token must verify to the new user
				userID, err := tokens.Verify(res.Token)
				assert.NoError(t, err)
				assert.Equal(t, "new-id", userID)
			}
			mUsers.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.DefaultCost)
	require.NoError(t, err)

	activeUser := &model.User{ID: "user-1", Username: "alice", PasswordHash: string(hash), IsActive: true}
	inactiveUser := &model.User{ID: "user-2", Username: "carol", PasswordHash: string(hash), IsActive: false}

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(mUsers *repoMocks.MockUserRepository)
		wantErr    error
	}{
		{
			name:     "happy path",
			username: "alice",
			password: "password1",
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {
				mUsers.On("FindByUsername", ctx, "alice").Return(activeUser, nil)
			},
		},
		{
			name:     "unknown username",
			username: "ghost",
			password: "password1",
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {
				mUsers.On("FindByUsername", ctx, "ghost").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "wrong password yields the same failure as unknown username",
			username: "alice",
			password: "wrong-password",
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {
				mUsers.On("FindByUsername", ctx, "alice").Return(activeUser, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "inactive account with correct password",
			username: "carol",
			password: "password1",
			setupMocks: func(mUsers *repoMocks.MockUserRepository) {
				mUsers.On("FindByUsername", ctx, "carol").Return(inactiveUser, nil)
			},
			wantErr: ErrInactiveAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mUsers := new(repoMocks.MockUserRepository)
			tokens := newTestTokens(t)
			svc := NewAuthService(mUsers, tokens)

			tt.setupMocks(mUsers)

			res, err := svc.Login(ctx, tt.username, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "user-1", res.UserID)

				userID, err := tokens.Verify(res.Token)
				assert.NoError(t, err)
				assert.Equal(t, "user-1", userID)
			}
			mUsers.AssertExpectations(t)
		})
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token for active user", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		tokens := newTestTokens(t)
		svc := NewAuthService(mUsers, tokens)

		tok, err := tokens.Issue("user-1")
		require.NoError(t, err)

		mUsers.On("FindByID", ctx, "user-1").Return(&model.User{ID: "user-1", IsActive: true}, nil)

		user, err := svc.Authenticate(ctx, tok)
		assert.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		mUsers.AssertExpectations(t)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc := NewAuthService(new(repoMocks.MockUserRepository), newTestTokens(t))

		_, err := svc.Authenticate(ctx, "garbage")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("expired token", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		expired, err := token.NewManager("test-secret", -time.Minute)
		require.NoError(t, err)
		tok, err := expired.Issue("user-1")
		require.NoError(t, err)

		svc := NewAuthService(mUsers, newTestTokens(t))

		_, err = svc.Authenticate(ctx, tok)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("user no longer exists", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		tokens := newTestTokens(t)
		svc := NewAuthService(mUsers, tokens)

		tok, err := tokens.Issue("gone")
		require.NoError(t, err)

		mUsers.On("FindByID", ctx, "gone").Return(nil, sql.ErrNoRows)

		_, err = svc.Authenticate(ctx, tok)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("inactive user", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		tokens := newTestTokens(t)
		svc := NewAuthService(mUsers, tokens)

		tok, err := tokens.Issue("user-2")
		require.NoError(t, err)

		mUsers.On("FindByID", ctx, "user-2").Return(&model.User{ID: "user-2", IsActive: false}, nil)

		_, err = svc.Authenticate(ctx, tok)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}
