package tui

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRedactSecret(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"long secret shows first 6 chars", "AIzaSyA1234567890abcdef", "AIzaSy..."},
		{"exactly 7 chars shows first 6", "1234567", "123456..."},
		{"6 chars or less fully redacted", "123456", "..."},
		{"empty string", "", "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redactSecret(tt.input); got != tt.expect {
				t.Errorf("redactSecret(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestRedactLiterals(t *testing.T) {
	in := `String key = "sk_live_abcdef123456"; String k2 = "abc";`
	want := `String key = "sk_liv..."; String k2 = "abc";`
	if got := redactLiterals(in); got != want {
		t.Errorf("redactLiterals = %q, want %q", got, want)
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if p := LoadPrefs(); !p.HideSecrets {
		t.Fatal("secrets should be hidden by default")
	}
	if err := SavePrefs(Prefs{HideSecrets: false}); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(filepath.Join(home, ".droidaudit", "tui_prefs.json"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("prefs mode = %v, want 0600", info.Mode().Perm())
	}
	if p := LoadPrefs(); p.HideSecrets {
		t.Error("saved preference not loaded")
	}
}
