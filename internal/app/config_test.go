package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("STORE_CALL_TIMEOUT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.PostgresDSN)
	assert.Equal(t, 5*time.Second, cfg.StoreCallTimeout)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "  postgres://test  ")
	t.Setenv("STORE_CALL_TIMEOUT", "250ms")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "postgres://test", cfg.PostgresDSN)
	assert.Equal(t, 250*time.Millisecond, cfg.StoreCallTimeout)
}

func TestLoadConfig_RejectsBadTimeout(t *testing.T) {
	for _, raw := range []string{"nonsense", "-1s", "0s"} {
		t.Setenv("STORE_CALL_TIMEOUT", raw)
		_, err := LoadConfig()
		require.Error(t, err, "value %q", raw)
	}
}
