package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsMissingFile(t *testing.T) {
	s, err := loadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultServer, s.Server)
	assert.Empty(t, s.Token)
}

func TestSaveAndLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brickshot", "config.yaml")
	require.NoError(t, saveSettings(path, &Settings{Server: "https://shots.example.com", Token: "tok"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	s, err := loadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "https://shots.example.com", s.Server)
	assert.Equal(t, "tok", s.Token)
}

func TestLoadSettingsBlankServerFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("token: abc\n"), 0o600))

	s, err := loadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, defaultServer, s.Server)
	assert.Equal(t, "abc", s.Token)
}

func TestLoadSettingsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed\n"), 0o600))

	_, err := loadSettings(path)
	assert.Error(t, err)
}
