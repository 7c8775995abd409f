package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCopyIntoByteIdentical(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "build", "libPlumbusEngine.so")
	dest := filepath.Join(root, "net5.0")
	writeFile(t, src, "\x7fELF engine bytes")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	res, err := FileCopier{}.CopyInto(src, dest)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dest, "libPlumbusEngine.so"), res.Destination)
	assert.Equal(t, int64(len("\x7fELF engine bytes")), res.Bytes)
	assert.Len(t, res.SHA256, 64)

	got, err := os.ReadFile(res.Destination)
	require.NoError(t, err)
	assert.Equal(t, "\x7fELF engine bytes", string(got))
}

func TestCopyIntoOverwrites(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "lib.so")
	dest := filepath.Join(root, "out")
	writeFile(t, src, "new")
	writeFile(t, filepath.Join(dest, "lib.so"), "old contents that are longer")

	first, err := FileCopier{Sync: true}.CopyInto(src, dest)
	require.NoError(t, err)
	second, err := FileCopier{Sync: true}.CopyInto(src, dest)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	got, err := os.ReadFile(filepath.Join(dest, "lib.so"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestCopyIntoSourceMissing(t *testing.T) {
	root := t.TempDir()
	_, err := FileCopier{}.CopyInto(filepath.Join(root, "absent.so"), root)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceMissing))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCopyIntoSourceIsDirectory(t *testing.T) {
	root := t.TempDir()
	_, err := FileCopier{}.CopyInto(root, root)
	assert.True(t, errors.Is(err, ErrSourceMissing))
}

func TestCopyIntoDestinationMissingIsNotCreated(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "lib.so")
	writeFile(t, src, "x")
	dest := filepath.Join(root, "bin", "x64", "Debug", "net5.0")

	_, err := FileCopier{}.CopyInto(src, dest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDestinationMissing))

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "destination directory must not be created")
}

func TestCopyIntoDestinationIsFile(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "lib.so")
	writeFile(t, src, "x")
	notDir := filepath.Join(root, "file")
	writeFile(t, notDir, "y")

	_, err := FileCopier{}.CopyInto(src, notDir)
	assert.True(t, errors.Is(err, ErrDestinationMissing))
}

func TestCopyIntoFollowsRelativeSymlink(t *testing.T) {
	root := t.TempDir()
	build := filepath.Join(root, "build")
	writeFile(t, filepath.Join(build, "libPlumbusEngine.so.1"), "\x7fELF versioned")
	src := filepath.Join(build, "libPlumbusEngine.so")
	require.NoError(t, os.Symlink("libPlumbusEngine.so.1", src))
	dest := filepath.Join(root, "net5.0")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	for range 2 {
		res, err := FileCopier{}.CopyInto(src, dest)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dest, "libPlumbusEngine.so"), res.Destination)

		info, err := os.Lstat(res.Destination)
		require.NoError(t, err)
		assert.True(t, info.Mode().IsRegular(), "destination must be a regular file, got %s", info.Mode())

		got, err := os.ReadFile(res.Destination)
		require.NoError(t, err)
		assert.Equal(t, "\x7fELF versioned", string(got))
	}
}

func TestCopyIntoReplacesSymlinkAtDestination(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "lib.so")
	writeFile(t, src, "fresh")
	dest := filepath.Join(root, "out")
	target := filepath.Join(root, "elsewhere.so")
	writeFile(t, target, "untouched")
	require.NoError(t, os.MkdirAll(dest, 0o755))
	require.NoError(t, os.Symlink(target, filepath.Join(dest, "lib.so")))

	_, err := FileCopier{}.CopyInto(src, dest)
	require.NoError(t, err)

	info, err := os.Lstat(filepath.Join(dest, "lib.so"))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "untouched", string(got))
}

func TestCopyIntoDanglingSymlinkIsSourceMissing(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "lib.so")
	require.NoError(t, os.Symlink("lib.so.1", src))

	_, err := FileCopier{}.CopyInto(src, root)
	assert.True(t, errors.Is(err, ErrSourceMissing))
}
