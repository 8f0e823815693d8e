package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/droidaudit/droidaudit/internal/detectors"
	"github.com/droidaudit/droidaudit/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanOne(t *testing.T, root string, id types.Category) []types.Finding {
	t.Helper()
	p, err := NewProvider(Config{Root: root, MaxBytes: DefaultMaxBytes})
	require.NoError(t, err)
	cat, ok := detectors.Default().Lookup(id)
	require.True(t, ok, "category %s", id)
	fs, err := ScanCategory(context.Background(), p, cat, DefaultContextWidth)
	require.NoError(t, err)
	return fs
}

func TestScanCategory_CipherEscalation(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"sources/com/acme/Ecb.java": "class Ecb {\n  Cipher c = Cipher.getInstance(\"AES/ECB/PKCS5Padding\");\n}\n",
		"sources/com/acme/Cbc.java": "class Cbc {\n  Cipher c = Cipher.getInstance(\"AES/CBC/PKCS5Padding\");\n}\n",
	})
	var modes []types.Finding
	for _, f := range scanOne(t, dir, types.CatCryptography) {
		if f.Description == "Potentially insecure cipher mode (not using CBC/GCM)" {
			modes = append(modes, f)
		}
	}
	require.Len(t, modes, 1)
	assert.Equal(t, "sources/com/acme/Ecb.java", modes[0].Location)
	assert.Equal(t, 2, modes[0].Line)
	assert.Equal(t, types.SevHigh, modes[0].Severity)
	assert.Contains(t, modes[0].Context, "AES/ECB")
}

func TestScanCategory_EmulatorBudget(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{}
	body := strings.Repeat("if (isEmulator()) { exit(); }\n", 10)
	for i := 0; i < 25; i++ {
		files[fmt.Sprintf("sources/com/acme/E%02d.java", i)] = body
	}
	writeTree(t, dir, files)

	run := func() []types.Finding { return scanOne(t, dir, types.CatEmulatorDetect) }
	fs := run()
	perFile := map[string]int{}
	for _, f := range fs {
		perFile[f.Location]++
	}
	assert.Len(t, perFile, detectors.EmulatorMaxFilesWithMatches)
	for path, n := range perFile {
		assert.LessOrEqual(t, n, detectors.EmulatorMaxMatchesPerFile, path)
	}
	assert.Len(t, fs, detectors.EmulatorMaxFilesWithMatches*detectors.EmulatorMaxMatchesPerFile)
	// E20..E24 sort after the first twenty files and are never reached
	assert.NotContains(t, perFile, "sources/com/acme/E24.java")
	assert.Equal(t, fs, run(), "bounded output is deterministic")
}

func TestScanCategory_GateAndFileChecks(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"sources/a/Web.java":   "WebView w; w.getSettings().setJavaScriptEnabled(true);",
		"sources/a/Plain.java": "settings.setJavaScriptEnabled(true);",
	})
	fs := scanOne(t, dir, types.CatWebView)
	require.NotEmpty(t, fs)
	for _, f := range fs {
		assert.Equal(t, "sources/a/Web.java", f.Location)
	}
}

func TestScanCategory_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"sources/A.java": "Log.d(TAG, password);"})
	p, err := NewProvider(Config{Root: dir})
	require.NoError(t, err)
	cat, _ := detectors.Default().Lookup(types.CatLogging)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ScanCategory(ctx, p, cat, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWindow(t *testing.T) {
	content := "0123456789MATCH0123456789"
	assert.Equal(t, "56789MATCH01234", Window(content, 10, 15, 5))
	assert.Equal(t, content, Window(content, 10, 15, 100))
	assert.Equal(t, "MATCH", Window("  \n MATCH \n ", 4, 9, 3))

	// never splits a multi-byte rune
	s := "ééMATCH"
	w := Window(s, 4, 9, 1)
	assert.Equal(t, "éMATCH", w)
}

func TestLineAt(t *testing.T) {
	s := "a\nb\nc"
	assert.Equal(t, 1, LineAt(s, 0))
	assert.Equal(t, 2, LineAt(s, 2))
	assert.Equal(t, 3, LineAt(s, 4))
	assert.Equal(t, 3, LineAt(s, 99))
}
