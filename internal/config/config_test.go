package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"15m", 15 * time.Minute, false},
		{"7d", 7 * 24 * time.Hour, false},
		{"1h30m", 90 * time.Minute, false},
		{"xd", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Server.Address)
	assert.Equal(t, "http://localhost:5173", cfg.Server.ClientURL)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.S3.Enabled())
	assert.Len(t, cfg.Warnings(), 2)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "a-secret")
	t.Setenv("JWT_REFRESH_SECRET", "r-secret")
	t.Setenv("JWT_ACCESS_TTL", "5m")
	t.Setenv("JWT_REFRESH_TTL", "30d")
	t.Setenv("CLIENT_URL", "https://app.example.com")
	t.Setenv("COOKIE_DOMAIN", "example.com")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_ENVIRONMENT", "production")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "a-secret", cfg.JWT.AccessSecret)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, "https://app.example.com", cfg.Server.ClientURL)
	assert.Equal(t, "example.com", cfg.Cookie.Domain)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.IsProduction())
	assert.Empty(t, cfg.Warnings())
}

func TestLoadConfigFileAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "server:\n  address: \":9090\"\ndatabase:\n  driver: memory\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_NAME=from_dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DATABASE_NAME") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "from_dotenv", cfg.Database.Name)
}

func TestLoadConfigRejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("JWT_ACCESS_TTL", "0s")

	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
