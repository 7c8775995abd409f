// Package artifact copies the built shared library into the host project's
// output directory.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"
)

var (
	// ErrSourceMissing is returned when the artifact does not exist or is not a regular file.
	ErrSourceMissing = errors.New("source artifact not found")
	// ErrDestinationMissing is returned when the destination directory does not exist.
	ErrDestinationMissing = errors.New("destination directory not found")
)

// CopyResult describes the file written by CopyInto.
type CopyResult struct {
	Destination string
	Bytes       int64
	SHA256      string
}

// Copier copies a single file into an existing directory.
type Copier interface {
	CopyInto(src, destDir string) (CopyResult, error)
}

// FileCopier is the filesystem Copier. It never creates directories and
// overwrites an existing file of the same name.
type FileCopier struct {
	// Sync flushes the written file to stable storage before returning.
	Sync bool
}

func (c FileCopier) CopyInto(src, destDir string) (CopyResult, error) {
	// Versioned libraries are usually a symlink chain; copy the file it names.
	resolved, err := filepath.EvalSymlinks(src)
	if err != nil {
		return CopyResult{}, fmt.Errorf("%w: %s: %w", ErrSourceMissing, src, err)
	}
	srcInfo, err := os.Stat(resolved)
	if err != nil {
		return CopyResult{}, fmt.Errorf("%w: %s: %w", ErrSourceMissing, src, err)
	}
	if !srcInfo.Mode().IsRegular() {
		return CopyResult{}, fmt.Errorf("%w: %s is not a regular file", ErrSourceMissing, src)
	}

	dirInfo, err := os.Stat(destDir)
	if err != nil {
		return CopyResult{}, fmt.Errorf("%w: %s: %w", ErrDestinationMissing, destDir, err)
	}
	if !dirInfo.IsDir() {
		return CopyResult{}, fmt.Errorf("%w: %s is not a directory", ErrDestinationMissing, destDir)
	}

	dest := filepath.Join(destDir, filepath.Base(src))
	// A link left at dest would be written through; replace it with a plain file.
	if info, err := os.Lstat(dest); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if err := os.Remove(dest); err != nil {
			return CopyResult{}, fmt.Errorf("remove stale link %s: %w", dest, err)
		}
	}

	opts := copy.Options{
		Sync:      c.Sync,
		OnSymlink: func(string) copy.SymlinkAction { return copy.Deep },
	}
	if err := copy.Copy(resolved, dest, opts); err != nil {
		return CopyResult{}, fmt.Errorf("copy %s to %s: %w", resolved, dest, err)
	}

	sum, n, err := digest(dest)
	if err != nil {
		return CopyResult{}, err
	}
	return CopyResult{Destination: dest, Bytes: n, SHA256: sum}, nil
}

func digest(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open copied artifact: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("hash copied artifact: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
