package tokenstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	t.Run("creates directory with correct permissions", func(t *testing.T) {
		tmpDir := t.TempDir()
		stateDir := filepath.Join(tmpDir, "edufin")

		store, err := NewStore(stateDir)
		require.NoError(t, err)
		assert.NotNil(t, store)

		info, err := os.Stat(stateDir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
	})

	t.Run("creates state.json on initialization", func(t *testing.T) {
		tmpDir := t.TempDir()
		store, err := NewStore(tmpDir)
		require.NoError(t, err)

		statePath := filepath.Join(tmpDir, "state.json")
		_, err = os.Stat(statePath)
		require.NoError(t, err)

		st, err := store.loadState()
		require.NoError(t, err)
		assert.Equal(t, 1, st.Version)
		assert.Empty(t, st.Token)
		assert.False(t, st.Bypass)
	})
}

func TestStore_Token(t *testing.T) {
	t.Run("round trips a token", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.SetToken("abc123"))
		assert.Equal(t, "abc123", store.Token())
	})

	t.Run("missing token reads as empty", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "", store.Token())
	})

	t.Run("remove discards the token", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.SetToken("abc123"))
		require.NoError(t, store.RemoveToken())
		assert.Equal(t, "", store.Token())
	})

	t.Run("token survives a new store over the same directory", func(t *testing.T) {
		tmpDir := t.TempDir()

		store, err := NewStore(tmpDir)
		require.NoError(t, err)
		require.NoError(t, store.SetToken("abc123"))

		reopened, err := NewStore(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, "abc123", reopened.Token())
	})

	t.Run("state file has restrictive permissions", func(t *testing.T) {
		tmpDir := t.TempDir()
		store, err := NewStore(tmpDir)
		require.NoError(t, err)
		require.NoError(t, store.SetToken("abc123"))

		info, err := os.Stat(filepath.Join(tmpDir, "state.json"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})
}

func TestStore_Bypass(t *testing.T) {
	t.Run("unset reads as false", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		assert.False(t, store.Bypass())
	})

	t.Run("set and clear", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.SetBypass(true))
		assert.True(t, store.Bypass())

		require.NoError(t, store.ClearBypass())
		assert.False(t, store.Bypass())
	})

	t.Run("bypass and token are independent keys", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.SetToken("abc123"))
		require.NoError(t, store.SetBypass(true))
		require.NoError(t, store.RemoveToken())

		assert.True(t, store.Bypass())
		assert.Equal(t, "", store.Token())
	})
}

func TestStore_Preferences(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "", store.Preference("theme"))

	require.NoError(t, store.SetPreference("theme", "dark"))
	require.NoError(t, store.SetPreference("accent", "teal"))

	assert.Equal(t, "dark", store.Preference("theme"))
	assert.Equal(t, map[string]string{"theme": "dark", "accent": "teal"}, store.Preferences())
}

func TestStore_TokenFingerprint(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "", store.TokenFingerprint())

	require.NoError(t, store.SetToken("abc123"))
	fp := store.TokenFingerprint()
	assert.NotEmpty(t, fp)
	assert.NotContains(t, fp, "abc123")

	// Same token, same fingerprint.
	assert.Equal(t, fp, store.TokenFingerprint())
}

func TestStore_CorruptState(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "state.json"), []byte("{not json"), 0600))

	// Reads degrade to zero values.
	assert.Equal(t, "", store.Token())
	assert.False(t, store.Bypass())

	// Writes reset the file rather than failing forever.
	require.NoError(t, store.SetToken("fresh"))
	assert.Equal(t, "fresh", store.Token())
}
