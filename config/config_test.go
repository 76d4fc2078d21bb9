package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-logins/config"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

const sampleYAML = `
env: "prod"
debug: true
http:
  host: "127.0.0.1"
  port: "9000"
db:
  dsn: "file:test.db"
auth:
  signing_key: "super-secret"
  access_token_duration: "10m"
  refresh_token_duration: "240h"
  issuer: "logins"
  audience: ["web", "mobile"]
  cookie_secure: true
`

const minimalYAML = `
auth:
  signing_key: "min-secret"
`

func TestLoad(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yaml", sampleYAML)

		cfg, err := config.Load(path)
		require.NoError(t, err)

		assert.Equal(t, "prod", cfg.Env)
		assert.True(t, cfg.Debug)
		assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr())
		assert.Equal(t, "file:test.db", cfg.DB.DSN)
		assert.Equal(t, "super-secret", cfg.Auth.GetSigningKey())
		assert.Equal(t, 10*time.Minute, cfg.Auth.GetAccessTokenDuration())
		assert.Equal(t, 240*time.Hour, cfg.Auth.GetRefreshTokenDuration())
		assert.Equal(t, "logins", cfg.Auth.GetIssuer())
		assert.ElementsMatch(t, []string{"web", "mobile"}, cfg.Auth.GetAudience())
		assert.True(t, cfg.Auth.GetCookieSecure())
	})

	t.Run("defaults", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yaml", minimalYAML)

		cfg, err := config.Load(path)
		require.NoError(t, err)

		assert.Equal(t, "local", cfg.Env)
		assert.Equal(t, "0.0.0.0:8000", cfg.HTTP.Addr())
		assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
		assert.Equal(t, 30*time.Minute, cfg.Auth.GetAccessTokenDuration())
		assert.Equal(t, 14*24*time.Hour, cfg.Auth.GetRefreshTokenDuration())
		assert.Equal(t, "JWT", cfg.Auth.GetAuthScheme())
		assert.Equal(t, "header:Authorization", cfg.Auth.GetTokenLookup())
		assert.Equal(t, "Authorization", cfg.Auth.GetAccessCookieName())
		assert.Equal(t, "refresh", cfg.Auth.GetRefreshCookieName())
		assert.Equal(t, "Lax", cfg.Auth.GetCookieSameSite())
		assert.False(t, cfg.Auth.GetCookieSecure())
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yaml", sampleYAML)
		t.Setenv("AUTH_SIGNING_KEY", "from-env")
		t.Setenv("HTTP_PORT", "9100")

		cfg, err := config.Load(path)
		require.NoError(t, err)

		assert.Equal(t, "from-env", cfg.Auth.SigningKey)
		assert.Equal(t, "9100", cfg.HTTP.Port)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("broken yaml", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yaml", "auth:\n  signing_key: [unclosed\n")
		_, err := config.Load(path)
		assert.Error(t, err)
	})

	t.Run("missing signing key", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yaml", "env: dev\n")
		t.Setenv("AUTH_SIGNING_KEY", "")
		os.Unsetenv("AUTH_SIGNING_KEY")

		_, err := config.Load(path)
		assert.Error(t, err)
	})
}
