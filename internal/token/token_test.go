package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_IssueAndVerify(t *testing.T) {
	m, err := NewManager("test-secret", 30*time.Minute)
	require.NoError(t, err)

	tok, err := m.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, err := m.Verify(tok)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestManager_RejectsExpiredToken(t *testing.T) {
	m, err := NewManager("test-secret", -time.Minute)
	require.NoError(t, err)

	tok, err := m.Issue("user-123")
	require.NoError(t, err)

	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestManager_RejectsTamperedToken(t *testing.T) {
	m, err := NewManager("test-secret", 30*time.Minute)
	require.NoError(t, err)

	other, err := NewManager("other-secret", 30*time.Minute)
	require.NoError(t, err)

	tok, err := other.Issue("user-123")
	require.NoError(t, err)

	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_RejectsGarbage(t *testing.T) {
	m, err := NewManager("test-secret", 30*time.Minute)
	require.NoError(t, err)

	_, err = m.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_RejectsWrongSigningMethod(t *testing.T) {
	m, err := NewManager("test-secret", 30*time.Minute)
	require.NoError(t, err)

	// alg=none token must never verify
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "user-123"})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_RejectsMissingUserID(t *testing.T) {
	m, err := NewManager("test-secret", 30*time.Minute)
	require.NoError(t, err)

	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager("", time.Minute)
	assert.Error(t, err)
}
