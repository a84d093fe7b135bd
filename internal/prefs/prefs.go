// Package prefs persists small client preferences between runs.
// Preferences are stored in ~/.config/naotimes/prefs.toml.
package prefs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
)

// Prefs holds the persisted preferences.
type Prefs struct {
	DarkMode bool     `toml:"dark_mode"`
	Identity Identity `toml:"identity"`
}

// Identity is the last account the client authenticated as.
type Identity struct {
	ID        string `toml:"id"`
	Username  string `toml:"username"`
	Privilege string `toml:"privilege"`
}

const defaultPrefsPath = "~/.config/naotimes/prefs.toml"

// Default returns the preferences of a fresh install.
func Default() Prefs {
	return Prefs{DarkMode: true}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Known reports whether an identity has been stored.
func (i Identity) Known() bool {
	return strings.TrimSpace(i.ID) != ""
}

// IdentityFrom converts a server identity for storage.
func IdentityFrom(id naotimes.Identity) Identity {
	return Identity{ID: id.ID, Username: id.Username, Privilege: id.Privilege}
}

// Load reads preferences from the given path. Any problem reading the file
// yields the defaults.
func Load(path string) Prefs {
	prefs := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs
	}

	file, err := os.Open(resolved)
	if err != nil {
		return prefs
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs
	}

	// Keys absent from the file keep their defaults.
	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Default()
	}
	prefs.Identity.ID = strings.TrimSpace(prefs.Identity.ID)
	return prefs
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o600); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// Update loads the prefs at path, applies fn and saves the result.
func Update(path string, fn func(*Prefs)) error {
	p := Load(path)
	fn(&p)
	return Save(path, p)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
