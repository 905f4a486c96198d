package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "data/tracker.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, time.Hour, cfg.TokenTTL())
	assert.Equal(t, "https://date.nager.at", cfg.Holiday.BaseURL)
	assert.Equal(t, "US", cfg.Holiday.Country)
	assert.Equal(t, 5*time.Second, cfg.HolidayTimeout())
	assert.Empty(t, cfg.Storage.Bucket)
	assert.Equal(t, "event-exports", cfg.Storage.KeyPrefix)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TRACKER_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("TRACKER_DATABASE_PATH", "/tmp/x.db")
	t.Setenv("TRACKER_AUTH_JWTSECRET", "topsecret")
	t.Setenv("TRACKER_AUTH_TOKENTTLMINUTES", "15")
	t.Setenv("TRACKER_HOLIDAY_COUNTRY", "DE")
	t.Setenv("TRACKER_HOLIDAY_TIMEOUTSECONDS", "2")
	t.Setenv("TRACKER_STORAGE_BUCKET", "exports")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "/tmp/x.db", cfg.Database.Path)
	assert.Equal(t, "topsecret", cfg.Auth.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL())
	assert.Equal(t, "DE", cfg.Holiday.Country)
	assert.Equal(t, 2*time.Second, cfg.HolidayTimeout())
	assert.Equal(t, "exports", cfg.Storage.Bucket)
}

func TestLoad_RejectsNonPositiveDurations(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TRACKER_HOLIDAY_TIMEOUTSECONDS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "holiday timeout")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nTRACKER_DOTENV_A=\"quoted\"\nTRACKER_DOTENV_B=kept\n=novalue\nbroken line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("TRACKER_DOTENV_B", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("TRACKER_DOTENV_A") })

	loadDotEnv(path)

	assert.Equal(t, "quoted", os.Getenv("TRACKER_DOTENV_A"))
	assert.Equal(t, "from-env", os.Getenv("TRACKER_DOTENV_B"))
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
