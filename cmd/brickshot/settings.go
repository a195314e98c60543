package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultServer = "http://localhost:8080"

// Settings is what the CLI remembers between runs.
type Settings struct {
	Server string `yaml:"server"`
	Token  string `yaml:"token,omitempty"`
}

func defaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "brickshot", "config.yaml"), nil
}

// loadSettings reads path; a missing file yields the defaults.
func loadSettings(path string) (*Settings, error) {
	s := &Settings{Server: defaultServer}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if s.Server == "" {
		s.Server = defaultServer
	}
	return s, nil
}

// saveSettings writes s to path with owner-only permissions, since it holds
// the session token.
func saveSettings(path string, s *Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
