package config

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"PORT", "DB_URL", "JWT_SECRET", "COOKIE_SECURE", "MEDIA_DIR",
	"S3_BUCKET", "S3_REGION", "S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY",
	"LOG_LEVEL", "SEED_TIMEZONE",
}

// clearEnv unsets every key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		// Setenv restores the previous value on cleanup.
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_URL", "postgres://localhost/talkroom")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := fromEnv(true)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "./media", cfg.MediaDir)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.False(t, cfg.S3.Enabled())
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "Asia/Tokyo", cfg.SeedLocation.String())
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_URL", "postgres://db/talkroom")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9000")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("S3_BUCKET", "icons")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SEED_TIMEZONE", "UTC")

	cfg, err := fromEnv(true)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.False(t, cfg.CookieSecure)
	assert.True(t, cfg.S3.Enabled())
	assert.Equal(t, "http://minio:9000", cfg.S3.Endpoint)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "UTC", cfg.SeedLocation.String())
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port", "PORT", "eighty"},
		{"cookie secure", "COOKIE_SECURE", "maybe"},
		{"log level", "LOG_LEVEL", "loud"},
		{"timezone", "SEED_TIMEZONE", "Mars/Olympus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DB_URL", "postgres://db/talkroom")
			t.Setenv(tt.key, tt.val)

			_, err := fromEnv(false)
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestRequired(t *testing.T) {
	clearEnv(t)

	_, err := fromEnv(true)
	assert.ErrorContains(t, err, "DB_URL, JWT_SECRET")

	t.Setenv("DB_URL", "postgres://db/talkroom")
	_, err = fromEnv(false)
	assert.NoError(t, err)
}
