package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "store", cfg.Auth.Mode)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 500*time.Millisecond, cfg.Auth.DemoDelay)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "APP_PORT=9090\nDB_DRIVER=SQLite\nAUTH_MODE=demo\nJWT_EXPIRATION=2h\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	for _, key := range []string{"APP_PORT", "DB_DRIVER", "AUTH_MODE", "JWT_EXPIRATION"} {
		// godotenv never overrides existing variables; Setenv restores them after the test
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "demo", cfg.Auth.Mode)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("JWT_EXPIRATION", "forever")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestPostgresDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5433", User: "u", Password: "p", Name: "n", SSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=require", d.PostgresDSN())
}

func TestProductionRejectsShippedSecrets(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_PASSWORD", "s3cure-admin")

	_, err := Load(missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", DefaultJWTSecret)
	_, err = Load(missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "a-long-random-production-secret")
	t.Setenv("ADMIN_PASSWORD", DefaultAdminPassword)
	_, err = Load(missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")

	t.Setenv("ADMIN_PASSWORD", "s3cure-admin")
	cfg, err := Load(missing)
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestDevelopmentAllowsShippedSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", DefaultJWTSecret)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, DefaultJWTSecret, cfg.JWT.Secret)
}
