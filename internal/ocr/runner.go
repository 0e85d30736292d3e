package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// maxErrStderr caps the stderr carried in a CommandError.
const maxErrStderr = 512

// CommandError is a failed tesseract or pdftoppm run.
type CommandError struct {
	Tool   string // base name of the binary
	Err    error
	Stderr string // trimmed and clipped to maxErrStderr bytes
}

func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Tool, e.Err, e.Stderr)
}

func (e *CommandError) Unwrap() error { return e.Err }

// run executes bin through the extractor's runner and returns its stdout.
// Failures come back as *CommandError; a cancelled context stays matchable
// with errors.Is.
func (e *Extractor) run(ctx context.Context, bin string, args ...string) ([]byte, error) {
	out, errb, err := e.runner.Run(ctx, bin, args...)
	if err == nil {
		return out, nil
	}
	if cerr := ctx.Err(); cerr != nil && !errors.Is(err, cerr) {
		err = fmt.Errorf("%w (%w)", cerr, err)
	}
	return nil, &CommandError{
		Tool:   filepath.Base(bin),
		Err:    err,
		Stderr: clip(strings.TrimSpace(string(errb)), maxErrStderr),
	}
}

// execRunner runs real binaries and logs every invocation.
type execRunner struct {
	logger *slog.Logger
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	var out, errb bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout, cmd.Stderr = &out, &errb
	err := cmd.Run()

	log := r.logger.With(
		"cmd", filepath.Base(name),
		"args", strings.Join(args, " "),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if err != nil {
		log.Error("exec.failed", "error", err, "stderr", clip(errb.String(), 8<<10))
	} else {
		log.Debug("exec.ok", "stdout_bytes", out.Len(), "stderr_bytes", errb.Len())
	}
	return out.Bytes(), errb.Bytes(), err
}

// clip cuts s to at most max bytes without splitting a rune.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "...(truncated)"
}
