// Package decompile turns an APK into the sources/resources tree the
// analysis engine reads, by running the jadx decompiler.
package decompile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	dalog "github.com/droidaudit/droidaudit/internal/log"
	"github.com/hashicorp/go-hclog"
)

var (
	// ErrDecompilerNotFound is returned when no jadx binary can be located.
	ErrDecompilerNotFound = errors.New("JADX not found")
	// ErrAPKNotFound is returned when the input is not a regular file.
	ErrAPKNotFound = errors.New("APK file not found")
	// ErrIncompleteOutput is returned when the decompiler produced no
	// sources tree.
	ErrIncompleteOutput = errors.New("decompiled output has no sources directory")
)

// Binary is the executable looked up on $PATH.
const Binary = "jadx"

// DefaultThreads is passed to jadx -j.
const DefaultThreads = 4

// Decompiler produces <out>/sources and <out>/resources from an APK.
type Decompiler interface {
	Decompile(ctx context.Context, apk, out string) error
}

// Runner executes a command and returns its standard error.
type Runner func(ctx context.Context, name string, args ...string) (stderr []byte, err error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.Bytes(), err
}

// Jadx runs the jadx command line decompiler.
type Jadx struct {
	// Path is an explicit binary path; empty searches $PATH.
	Path    string
	Threads int
	Logger  hclog.Logger
	Run     Runner
}

// Find locates the jadx binary: the explicit path if set, otherwise $PATH.
func (j *Jadx) Find() (string, error) {
	if j.Path != "" {
		if st, err := os.Stat(j.Path); err == nil && !st.IsDir() {
			return j.Path, nil
		}
		return "", fmt.Errorf("%w at %s", ErrDecompilerNotFound, j.Path)
	}
	path, err := exec.LookPath(Binary)
	if err != nil {
		return "", fmt.Errorf("%w in PATH; install it (e.g. apt-get install jadx) or pass --jadx", ErrDecompilerNotFound)
	}
	return path, nil
}

// Args returns the jadx arguments for one run.
func (j *Jadx) Args(apk, out string) []string {
	threads := j.Threads
	if threads <= 0 {
		threads = DefaultThreads
	}
	return []string{"-j", strconv.Itoa(threads), "--show-bad-code", "--deobf", "-d", out, apk}
}

// Decompile runs jadx on apk into out, creating out when needed, and
// checks that a sources tree was produced.
func (j *Jadx) Decompile(ctx context.Context, apk, out string) error {
	log := dalog.OrNull(j.Logger)
	apk, err := filepath.Abs(apk)
	if err != nil {
		return err
	}
	if st, err := os.Stat(apk); err != nil || !st.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrAPKNotFound, apk)
	}
	bin, err := j.Find()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	out, err = filepath.Abs(out)
	if err != nil {
		return err
	}

	run := j.Run
	if run == nil {
		run = execRunner
	}
	args := j.Args(apk, out)
	log.Info("decompiling", "apk", apk, "out", out)
	log.Debug("running decompiler", "cmd", bin+" "+strings.Join(args, " "))
	stderr, err := run(ctx, bin, args...)
	if err != nil {
		return wrapRunError(err, stderr)
	}
	return CheckLayout(out)
}

func wrapRunError(err error, stderr []byte) error {
	msg := strings.TrimSpace(string(stderr))
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if msg == "" {
			return fmt.Errorf("jadx failed (exit code %d)", exitErr.ExitCode())
		}
		return fmt.Errorf("jadx failed (exit code %d): %s", exitErr.ExitCode(), msg)
	}
	if msg != "" {
		return fmt.Errorf("jadx execution failed: %w: %s", err, msg)
	}
	return fmt.Errorf("jadx execution failed: %w", err)
}

// CheckLayout verifies that dir looks like decompiler output.
func CheckLayout(dir string) error {
	st, err := os.Stat(filepath.Join(dir, "sources"))
	if err != nil || !st.IsDir() {
		return fmt.Errorf("%w: %s", ErrIncompleteOutput, dir)
	}
	return nil
}

// IsAPK reports whether path names an existing .apk file.
func IsAPK(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".apk") {
		return false
	}
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}

// OutputName is the default output directory for apk: "decompiled_" plus
// the file name up to its first dot.
func OutputName(apk string) string {
	name := filepath.Base(apk)
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return "decompiled_" + name
}
