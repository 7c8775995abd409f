package revision

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Engine", "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Engine", "src", "Camera.cpp"), []byte("// camera\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("Engine/src/Camera.cpp")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir, hash.String()
}

func TestDetectFromSubdirectory(t *testing.T) {
	dir, commit := initRepo(t)

	info, err := Detect(filepath.Join(dir, "Engine", "src"))
	require.NoError(t, err)
	assert.Equal(t, commit, info.Commit)
	assert.False(t, info.Dirty)
	assert.Equal(t, commit[:12], info.Short())
	assert.NotEmpty(t, info.Branch)
}

func TestDetectDirtyTree(t *testing.T) {
	dir, _ := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Engine", "src", "Camera.cpp"), []byte("// changed\n"), 0o644))

	info, err := Detect(dir)
	require.NoError(t, err)
	assert.True(t, info.Dirty)
	assert.Contains(t, info.Short(), "+dirty")
}

func TestDetectOutsideRepository(t *testing.T) {
	info, err := Detect(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Unknown, info.Short())
}
