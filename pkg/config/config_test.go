package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/startupconnect")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestParse_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Parse()

	require.NoError(t, err)
	require.Equal(t, "development", cfg.Server.Env)
	require.True(t, cfg.Server.EnableTLS)
	require.Equal(t, "8443", cfg.Server.Port)
	require.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	require.Equal(t, int32(10), cfg.Database.MaxConns)
	require.Equal(t, 5*time.Minute, cfg.Database.MaxConnIdleTime)
	require.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	require.True(t, cfg.Policy.RequireStartupOwnership)
	require.True(t, cfg.Policy.RequireNegotiationParty)
	require.Equal(t, int64(20971520), cfg.Uploads.MaxBytes)
}

func TestParse_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Parse()

	require.Error(t, err)
}

func TestParse_EmptySecretRejected(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Parse()

	require.ErrorContains(t, err, "JWT_SECRET")
}

func TestParse_EmptyDatabaseURLRejected(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_URL", "")

	_, err := Parse()

	require.ErrorContains(t, err, "DATABASE_URL")
}

func TestParse_PlainHTTPAndOrigins(t *testing.T) {
	setRequired(t)
	t.Setenv("ENABLE_TLS", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("POLICY_REQUIRE_STARTUP_OWNERSHIP", "false")

	cfg, err := Parse()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	require.False(t, cfg.Policy.RequireStartupOwnership)
}

func TestParse_ProductionForcesTLS(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "Production")
	t.Setenv("ENABLE_TLS", "false")

	cfg, err := Parse()

	require.NoError(t, err)
	require.True(t, cfg.Server.EnableTLS)
	require.EqualError(t, cfg.Server.Validate(), "TLS_CERT_PATH and TLS_KEY_PATH are required in production")
}
