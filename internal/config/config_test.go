package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origHost := os.Getenv("DB_HOST")
	defer os.Setenv("DB_HOST", origHost)

	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_MAX_OPEN_CONNS", "20")
	os.Setenv("MINIO_USE_SSL", "true")
	os.Setenv("DOCUMENTS_DIR", "/var/lib/patientdocs")
	os.Setenv("REDIS_ADDR", "cache:6379")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("TOKEN_TTL_MIN", "45")
	defer func() {
		os.Unsetenv("DB_MAX_OPEN_CONNS")
		os.Unsetenv("MINIO_USE_SSL")
		os.Unsetenv("DOCUMENTS_DIR")
		os.Unsetenv("REDIS_ADDR")
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("TOKEN_TTL_MIN")
	}()

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Blob.MinIO.UseSSL)
	assert.Equal(t, "/var/lib/patientdocs", cfg.Blob.LocalDir)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 45, cfg.Auth.TokenTTLMin)
}

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("DOCUMENTS_DIR")
	os.Unsetenv("REDIS_ADDR")
	os.Unsetenv("TOKEN_TTL_MIN")

	cfg := Load()

	assert.Equal(t, "documents", cfg.Blob.LocalDir)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 30, cfg.Auth.TokenTTLMin)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}
