package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath returns $XDG_CONFIG_HOME/wallshift/config.toml, falling
// back to ~/.config when the variable is unset.
func DefaultConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "wallshift", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "wallshift", "config.toml"), nil
}

// DefaultSocketPath returns the control socket location under
// $XDG_RUNTIME_DIR, falling back to /tmp when unset.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "wallshift.sock")
	}
	return filepath.Join(os.TempDir(), "wallshift.sock")
}

// DefaultLockPath returns the single-instance lock file location, kept next
// to the socket in the runtime directory.
func DefaultLockPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "wallshiftd.lock")
	}
	return filepath.Join(os.TempDir(), "wallshiftd.lock")
}

// DefaultStatePath returns $XDG_STATE_HOME/wallshift/state.json, falling back
// to ~/.local/state when the variable is unset.
func DefaultStatePath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "wallshift", "state.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "wallshift-state.json")
	}
	return filepath.Join(home, ".local", "state", "wallshift", "state.json")
}
