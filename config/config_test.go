package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE", "EVENT_CONFIG", "WAVE_SIZE", "RATE_LIMIT_ENABLED", "TOKEN_TTL_HOURS"} {
		t.Setenv(key, "")
	}
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("ADMIN_PASSWORD", "pw")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8001", cfg.Port)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.RateLimitEnabled)
	assert.Equal(t, DefaultEventConfig(), cfg.Event)
}

func TestFromEnv_RequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")
}

func TestFromEnv_PostgresNeedsURL(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("ADMIN_PASSWORD", "pw")
	t.Setenv("STORE", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestFromEnv_EventFileAndOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wave_size: 4\ndefault_mode: random\n"), 0o600))

	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("ADMIN_PASSWORD", "pw")
	t.Setenv("EVENT_CONFIG", path)
	t.Setenv("WAVE_SIZE", "")
	t.Setenv("STORE", "")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Event.WaveSize)
	assert.Equal(t, "random", cfg.Event.DefaultMode)
	assert.Equal(t, 3, cfg.Event.PollIntervalSeconds)
	assert.False(t, cfg.RateLimitEnabled)

	t.Setenv("WAVE_SIZE", "5")
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Event.WaveSize)
}

func TestLoadEventConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wave_size: [1"), 0o600))

	_, err := LoadEventConfig(path)
	assert.Error(t, err)
}
