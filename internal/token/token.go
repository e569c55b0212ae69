package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Manager issues and verifies stateless bearer tokens. A token is an HS256
// JWT carrying the user id and an expiry; no server-side session exists, so
// each request is authenticated by re-verifying the signature and expiry.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token Manager signing with secret, issuing tokens
// valid for ttl.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &Manager{secret: []byte(secret), ttl: ttl}, nil
}

// Issue returns a signed token for the given user id, expiring ttl from now.
func (m *Manager) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(m.ttl).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.secret)
}

// Verify checks signature and expiry and returns the embedded user id.
// Tampered or otherwise malformed tokens yield ErrInvalidToken; a valid
// signature past its expiry yields ErrExpiredToken.
func (m *Manager) Verify(tokenString string) (string, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return "", ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}
