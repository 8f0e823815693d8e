package tui

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
)

// Prefs holds user preferences for the TUI that persist across sessions.
type Prefs struct {
	// HideSecrets masks string literals in hardcoded-secret contexts.
	HideSecrets bool `json:"hide_secrets"`
}

// DefaultPrefs returns the default preferences.
func DefaultPrefs() Prefs {
	return Prefs{HideSecrets: true}
}

func prefsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".droidaudit", "tui_prefs.json"), nil
}

// LoadPrefs loads user preferences from disk, returning defaults if not found.
func LoadPrefs() Prefs {
	prefs := DefaultPrefs()
	path, err := prefsPath()
	if err != nil {
		return prefs
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return prefs
	}
	_ = json.Unmarshal(data, &prefs) //nolint:errcheck // fall back to defaults
	return prefs
}

// SavePrefs persists user preferences to disk.
func SavePrefs(prefs Prefs) error {
	path, err := prefsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// redactSecret keeps the first six characters of s. Short values are
// fully hidden.
func redactSecret(s string) string {
	if len(s) <= 6 {
		return "..."
	}
	return s[:6] + "..."
}

var quoted = regexp.MustCompile(`"([^"\\]{4,})"`)

// redactLiterals masks every quoted string literal in a line of code.
func redactLiterals(line string) string {
	return quoted.ReplaceAllStringFunc(line, func(q string) string {
		return `"` + redactSecret(q[1:len(q)-1]) + `"`
	})
}
