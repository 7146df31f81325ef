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
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultGatewayURL, cfg.GatewayURL)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.True(t, cfg.AuthEnabled)
	assert.False(t, cfg.AuthOff)
	assert.False(t, cfg.Debug)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("EDUFIN_GATEWAY_URL", "https://staging.edufin.example")
	t.Setenv("EDUFIN_TIMEOUT", "5s")
	t.Setenv("EDUFIN_AUTH_ENABLED", "false")
	t.Setenv("EDUFIN_AUTH_OFF", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://staging.edufin.example", cfg.GatewayURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.False(t, cfg.AuthEnabled)
	assert.True(t, cfg.AuthOff)
}

func TestLoad_ConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, os.MkdirAll(filepath.Join(home, ".edufin"), 0700))
	require.NoError(t, os.WriteFile(
		filepath.Join(home, ".edufin", "config.yaml"),
		[]byte("gateway_url: https://file.edufin.example\nstate_dir: /tmp/edufin-state\n"),
		0600,
	))

	t.Run("file fills what the environment left empty", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "https://file.edufin.example", cfg.GatewayURL)
		assert.Equal(t, "/tmp/edufin-state", cfg.StateDir)
	})

	t.Run("environment wins over the file", func(t *testing.T) {
		t.Setenv("EDUFIN_GATEWAY_URL", "https://env.edufin.example")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "https://env.edufin.example", cfg.GatewayURL)
		assert.Equal(t, "/tmp/edufin-state", cfg.StateDir)
	})

	t.Run("broken file is an error", func(t *testing.T) {
		require.NoError(t, os.WriteFile(
			filepath.Join(home, ".edufin", "config.yaml"),
			[]byte("gateway_url: [broken"),
			0600,
		))

		_, err := Load()
		require.Error(t, err)
	})
}
