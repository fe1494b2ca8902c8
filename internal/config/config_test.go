package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "user-account-service", cfg.App.Name)
	assert.Equal(t, "8083", cfg.App.Port)
	assert.Equal(t, 60, cfg.Auth.AccessTokenTTLMinutes)
	assert.Equal(t, 260000, cfg.Auth.HashIterations)
	assert.Equal(t, 16, cfg.Auth.SaltLength)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "prod-secret")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("AUTH_HASH_ITERATIONS", "600000")
	t.Setenv("AUTH_SALT_LENGTH", "32")
	t.Setenv("APP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 600000, cfg.Auth.HashIterations)
	assert.Equal(t, 32, cfg.Auth.SaltLength)
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("AUTH_HASH_ITERATIONS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 260000, cfg.Auth.HashIterations)
}

func TestLoad_InvalidRedisDBFails(t *testing.T) {
	t.Setenv("REDIS_DB", "oops")

	_, err := Load()
	assert.Error(t, err)
}
