package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSession_Missing(t *testing.T) {
	s, err := LoadSession(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.False(t, s.LoggedIn())
}

func TestSession_SetAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s, err := LoadSession(path)
	require.NoError(t, err)

	require.NoError(t, s.Set("alice", "tok"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := LoadSession(path)
	require.NoError(t, err)
	user, token := again.Current()
	assert.Equal(t, "alice", user)
	assert.Equal(t, "tok", token)

	require.NoError(t, again.Clear())
	again, err = LoadSession(path)
	require.NoError(t, err)
	assert.False(t, again.LoggedIn())
}

func TestLoadSession_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadSession(path)
	assert.Error(t, err)
}
