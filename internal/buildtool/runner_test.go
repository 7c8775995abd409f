package buildtool

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunnerSuccess(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	var stdout bytes.Buffer
	r := &ExecRunner{Stdout: &stdout}

	res, err := r.Run(context.Background(), Invocation{
		Tool: "sh",
		Args: []string{"-c", "pwd; echo built > out.txt"},
		Dir:  dir,
	})
	require.NoError(t, err)
	assert.True(t, res.Succeeded())

	// The tool runs inside Dir.
	realDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, realDir, strings.TrimSpace(stdout.String()))
	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "built\n", string(data))
}

func TestExecRunnerNonZeroExitIsNotAnError(t *testing.T) {
	requireShell(t)
	var stderr bytes.Buffer
	r := &ExecRunner{Stderr: &stderr}

	res, err := r.Run(context.Background(), Invocation{
		Tool: "sh",
		Args: []string{"-c", "echo compile error >&2; exit 3"},
		Dir:  t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.Succeeded())
	assert.Contains(t, stderr.String(), "compile error")
}

func TestExecRunnerToolNotFound(t *testing.T) {
	r := NewExecRunner()
	_, err := r.Run(context.Background(), Invocation{Tool: "buildnative-no-such-tool", Dir: t.TempDir()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrToolNotFound))

	_, err = r.Resolve("buildnative-no-such-tool")
	assert.True(t, errors.Is(err, ErrToolNotFound))
}

func TestExecRunnerMissingDir(t *testing.T) {
	requireShell(t)
	r := &ExecRunner{}
	res, err := r.Run(context.Background(), Invocation{
		Tool: "sh",
		Args: []string{"-c", "true"},
		Dir:  filepath.Join(t.TempDir(), "missing"),
	})
	require.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}

func TestExecRunnerCanceled(t *testing.T) {
	requireShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&ExecRunner{}).Run(ctx, Invocation{Tool: "sh", Args: []string{"-c", "sleep 5"}, Dir: t.TempDir()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFakeRunnerRecords(t *testing.T) {
	f := &FakeRunner{ExitCode: 2}
	inv := Invocation{Tool: "cmake", Args: []string{"--build", "."}, Dir: "/b"}

	res, err := f.Run(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ExitCode)
	assert.Equal(t, []Invocation{inv}, f.Invocations())

	f.Missing = true
	_, err = f.Run(context.Background(), inv)
	assert.True(t, errors.Is(err, ErrToolNotFound))
	assert.Len(t, f.Invocations(), 1)
}

func TestTailWriterKeepsLastBytes(t *testing.T) {
	var buf bytes.Buffer
	w := &tailWriter{buf: &buf, max: 8}
	_, _ = w.Write([]byte("abcdef"))
	_, _ = w.Write([]byte("ghij"))
	assert.Equal(t, "cdefghij", buf.String())
	_, _ = w.Write([]byte("0123456789"))
	assert.Equal(t, "23456789", buf.String())
}
