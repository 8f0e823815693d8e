package decompile

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeBinary(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "jadx")
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"), 0o755))
	return p
}

func fakeAPK(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "app.release.apk")
	require.NoError(t, os.WriteFile(p, []byte("PK"), 0o644))
	return p
}

func TestDecompile_RunsJadxAndChecksLayout(t *testing.T) {
	apk := fakeAPK(t)
	out := filepath.Join(t.TempDir(), "out")
	var gotName string
	var gotArgs []string
	j := &Jadx{
		Path: fakeBinary(t),
		Run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			gotName, gotArgs = name, args
			return nil, os.MkdirAll(filepath.Join(out, "sources", "com"), 0o755)
		},
	}
	require.NoError(t, j.Decompile(context.Background(), apk, out))
	assert.Equal(t, j.Path, gotName)
	absOut, _ := filepath.Abs(out)
	assert.Equal(t, []string{"-j", "4", "--show-bad-code", "--deobf", "-d", absOut, apk}, gotArgs)
}

func TestDecompile_Errors(t *testing.T) {
	apk := fakeAPK(t)

	t.Run("missing apk", func(t *testing.T) {
		j := &Jadx{Path: fakeBinary(t)}
		err := j.Decompile(context.Background(), filepath.Join(t.TempDir(), "none.apk"), t.TempDir())
		assert.ErrorIs(t, err, ErrAPKNotFound)
	})

	t.Run("missing binary", func(t *testing.T) {
		j := &Jadx{Path: filepath.Join(t.TempDir(), "nope")}
		err := j.Decompile(context.Background(), apk, t.TempDir())
		assert.ErrorIs(t, err, ErrDecompilerNotFound)
		assert.Contains(t, err.Error(), "JADX not found")
	})

	t.Run("run failure keeps stderr", func(t *testing.T) {
		j := &Jadx{
			Path: fakeBinary(t),
			Run: func(context.Context, string, ...string) ([]byte, error) {
				return []byte("ERROR - bad dex\n"), errors.New("boom")
			},
		}
		err := j.Decompile(context.Background(), apk, t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad dex")
	})

	t.Run("no sources produced", func(t *testing.T) {
		j := &Jadx{
			Path: fakeBinary(t),
			Run:  func(context.Context, string, ...string) ([]byte, error) { return nil, nil },
		}
		err := j.Decompile(context.Background(), apk, t.TempDir())
		assert.ErrorIs(t, err, ErrIncompleteOutput)
	})
}

func TestWrapRunError_ExitCode(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	stderr, runErr := execRunner(context.Background(), sh, "-c", "echo oops >&2; exit 3")
	require.Error(t, runErr)
	err = wrapRunError(runErr, stderr)
	assert.EqualError(t, err, "jadx failed (exit code 3): oops")
}

func TestArgs_Threads(t *testing.T) {
	j := &Jadx{Threads: 8}
	assert.Equal(t, []string{"-j", "8", "--show-bad-code", "--deobf", "-d", "o", "a.apk"}, j.Args("a.apk", "o"))
}

func TestIsAPKAndOutputName(t *testing.T) {
	apk := fakeAPK(t)
	assert.True(t, IsAPK(apk))
	assert.False(t, IsAPK(filepath.Dir(apk)))
	assert.False(t, IsAPK(filepath.Join(filepath.Dir(apk), "missing.apk")))
	assert.Equal(t, "decompiled_app", OutputName(apk))
	assert.Equal(t, "decompiled_base", OutputName("/x/base.apk"))
}
