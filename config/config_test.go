package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "/api", cfg.App.MainRoutes)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 30*time.Minute, cfg.Scheduler.SessionIdleTimeout)
	assert.Equal(t, []string{"http://127.0.0.1:3000", "http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Mail.Enabled())
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	content := "DB_DRIVER=sqlite\nDB_NAME=unit\nJWT_SECRET=abcdefghijklmnopqrstuvwxyz\nALLOWED_ORIGINS=https://a.example, https://b.example\nSMTP_HOST=smtp.example\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	t.Cleanup(func() {
		for _, k := range []string{"DB_DRIVER", "DB_NAME", "JWT_SECRET", "ALLOWED_ORIGINS", "SMTP_HOST"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "unit", cfg.Database.Name)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Mail.Enabled())
}

func TestLoadConfig_Validation(t *testing.T) {
	t.Run("short secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "short")
		_, err := LoadConfig("")
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "0123456789abcdef0123")
		t.Setenv("DB_DRIVER", "oracle")
		_, err := LoadConfig("")
		assert.ErrorContains(t, err, "unsupported DB_DRIVER")
	})

	t.Run("missing env file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.env"))
		assert.Error(t, err)
	})
}
