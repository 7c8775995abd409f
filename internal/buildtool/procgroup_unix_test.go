//go:build unix

package buildtool

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerCancelStopsDescendants(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	started := filepath.Join(dir, "started")
	marker := filepath.Join(dir, "late-object.o")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			if _, err := os.Stat(started); err == nil {
				break
			}
			time.Sleep(10 * time.Millisecond)
		}
		cancel()
	}()

	// The background subshell stands in for a compiler spawned by make.
	_, err := (&ExecRunner{}).Run(ctx, Invocation{
		Tool: "sh",
		Args: []string{"-c", "(sleep 1; touch late-object.o) & touch started; wait"},
		Dir:  dir,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	time.Sleep(1500 * time.Millisecond)
	assert.NoFileExists(t, marker, "descendant process survived cancellation")
}
