package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIgnoreMatch(t *testing.T) {
	dir := t.TempDir()
	ig := filepath.Join(dir, FileName)
	content := "generated/\n*.orig.java\n# comment\n\nsources/com/acme/Legacy.java\nsources/**/BuildConfig.java\n"
	if err := os.WriteFile(ig, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(ig)
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string]bool{
		"sources/generated/R.java":              true,
		"generated/Stub.kt":                     true,
		"sources/com/acme/Main.orig.java":       true,
		"sources/com/acme/Legacy.java":          true,
		"sources/com/acme/app/BuildConfig.java": true,
		"sources/com/acme/Main.java":            false,
		"resources/res/layout/login.xml":        false,
	}
	for p, want := range cases {
		if got := m.Match(p); got != want {
			t.Fatalf("Match(%q)=%v want %v", p, got, want)
		}
	}
}

func TestZeroMatcherIgnoresNothing(t *testing.T) {
	var m Matcher
	if m.Match("sources/a/B.java") {
		t.Fatal("zero matcher should not ignore")
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestAppend_IdempotentAndCreates(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, FileName)
	if err := Append(dir, "generated/"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "generated/\n" {
		t.Fatalf("unexpected content: %q", string(b))
	}
	if err := Append(dir, "generated/"); err != nil {
		t.Fatalf("Append second: %v", err)
	}
	if err := os.WriteFile(p, []byte("generated/\nlegacy/"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Append(dir, "R.java"); err != nil {
		t.Fatalf("Append third: %v", err)
	}
	b, _ = os.ReadFile(p)
	if string(b) != "generated/\nlegacy/\nR.java\n" {
		t.Fatalf("unexpected content: %q", string(b))
	}
}

func TestGeneratedPatternsMatch(t *testing.T) {
	var m Matcher
	for _, p := range GeneratedPatterns() {
		m.Add(p)
	}
	for _, rel := range []string{"sources/com/acme/R.java", "sources/com/acme/R$string.java", "sources/com/acme/BuildConfig.java"} {
		if !m.Match(rel) {
			t.Errorf("expected %s to be ignored", rel)
		}
	}
	if m.Match("sources/com/acme/Router.java") {
		t.Error("Router.java must not match")
	}
}
