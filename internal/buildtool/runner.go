package buildtool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"git.home.luguber.info/inful/buildnative/internal/logfields"
)

// waitDelay is how long Run waits for output to drain after the tool is killed.
const waitDelay = 5 * time.Second

// ErrToolNotFound is returned when the build tool cannot be located on PATH.
var ErrToolNotFound = errors.New("build tool not found")

// Result describes a finished build-tool process.
type Result struct {
	ExitCode int
	Duration time.Duration
}

// Succeeded reports whether the tool exited with status 0.
func (r Result) Succeeded() bool { return r.ExitCode == 0 }

// Runner abstracts how the build tool is executed so tests can capture
// invocations without spawning processes.
type Runner interface {
	// Resolve locates tool and returns its path, or an error wrapping ErrToolNotFound.
	Resolve(tool string) (string, error)
	// Run executes inv and blocks until it exits.
	Run(ctx context.Context, inv Invocation) (Result, error)
}

// ExecRunner runs the build tool as a child process. Output is streamed to
// Stdout/Stderr as it is produced.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	// Env, when non-nil, replaces the inherited environment.
	Env []string
}

// NewExecRunner returns a runner wired to the process's own stdout and stderr.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecRunner) Resolve(tool string) (string, error) {
	path, err := exec.LookPath(tool)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrToolNotFound, err)
	}
	return path, nil
}

func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	path, err := r.Resolve(inv.Tool)
	if err != nil {
		return Result{ExitCode: -1}, err
	}

	cmd := exec.CommandContext(ctx, path, inv.Args...)
	cmd.Dir = inv.Dir
	killProcessGroup(cmd)
	// Bound the wait for output pipes held open by orphaned descendants.
	cmd.WaitDelay = waitDelay
	if r.Env != nil {
		cmd.Env = r.Env
	}
	var stderrTail bytes.Buffer
	cmd.Stdout = writerOrDiscard(r.Stdout)
	cmd.Stderr = io.MultiWriter(writerOrDiscard(r.Stderr), &tailWriter{buf: &stderrTail, max: 4096})

	slog.Debug("Invoking build tool",
		logfields.Tool(path),
		logfields.Args(inv.Args),
		logfields.Dir(inv.Dir))

	start := time.Now()
	err = cmd.Run()
	res := Result{Duration: time.Since(start)}

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		return res, fmt.Errorf("build interrupted: %w", ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		if tail := stderrTail.String(); tail != "" {
			slog.Debug("Build tool stderr tail", "output", tail)
		}
		return res, nil
	}
	if err != nil {
		res.ExitCode = -1
		return res, fmt.Errorf("run %s in %s: %w", inv.Tool, inv.Dir, err)
	}
	return res, nil
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// tailWriter keeps the last max bytes written to it.
type tailWriter struct {
	buf *bytes.Buffer
	max int
}

func (t *tailWriter) Write(p []byte) (int, error) {
	n := len(p)
	if len(p) >= t.max {
		t.buf.Reset()
		t.buf.Write(p[len(p)-t.max:])
		return n, nil
	}
	if over := t.buf.Len() + len(p) - t.max; over > 0 {
		t.buf.Next(over)
	}
	t.buf.Write(p)
	return n, nil
}
