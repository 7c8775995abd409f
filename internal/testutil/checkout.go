// Package testutil builds throwaway engine checkouts for launcher tests and
// asserts on what a run left behind.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/buildnative/internal/layout"
)

// Checkout is a temporary tree shaped like a configured engine checkout:
//
//	<tmp>/bin/Debug/Engine                    build_dir
//	<tmp>/bin/Debug/PlumbusTester/            artifact directory
//	<tmp>/EngineDotnet/bin/x64/Debug/net5.0   dest_dir
//
// The layout root is <tmp>/EngineDotnet.
type Checkout struct {
	t      *testing.T
	Layout layout.Layout
}

// NewCheckout creates every directory of the default layout. The artifact
// itself is not created.
func NewCheckout(t *testing.T) *Checkout {
	t.Helper()
	root := filepath.Join(t.TempDir(), "EngineDotnet")
	l, err := layout.Derive(root, layout.DefaultSpec())
	if err != nil {
		t.Fatalf("Failed to derive layout: %v", err)
	}
	for _, dir := range []string{l.BuildDir, filepath.Dir(l.SourceArtifact), l.DestDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	return &Checkout{t: t, Layout: l}
}

// WriteArtifact places content at the source artifact path, as a build would.
func (c *Checkout) WriteArtifact(content []byte) *Checkout {
	c.t.Helper()
	if err := os.WriteFile(c.Layout.SourceArtifact, content, 0o644); err != nil {
		c.t.Fatalf("Failed to write artifact: %v", err)
	}
	return c
}

// RemoveBuildDir deletes build_dir.
func (c *Checkout) RemoveBuildDir() *Checkout {
	c.t.Helper()
	return c.remove(c.Layout.BuildDir)
}

// RemoveDestDir deletes dest_dir.
func (c *Checkout) RemoveDestDir() *Checkout {
	c.t.Helper()
	return c.remove(c.Layout.DestDir)
}

func (c *Checkout) remove(path string) *Checkout {
	c.t.Helper()
	if err := os.RemoveAll(path); err != nil {
		c.t.Fatalf("Failed to remove %s: %v", path, err)
	}
	return c
}

// AssertCopied validates that the destination file holds exactly content.
func (c *Checkout) AssertCopied(content []byte) *Checkout {
	c.t.Helper()
	got, err := os.ReadFile(c.Layout.DestFile())
	if err != nil {
		c.t.Errorf("Expected copied artifact at %s: %v", c.Layout.DestFile(), err)
		return c
	}
	if !bytes.Equal(got, content) {
		c.t.Errorf("Copied artifact differs from source: got %d bytes, want %d", len(got), len(content))
	}
	return c
}

// AssertNotCopied validates that no file exists at the destination.
func (c *Checkout) AssertNotCopied() *Checkout {
	c.t.Helper()
	if _, err := os.Stat(c.Layout.DestFile()); err == nil {
		c.t.Errorf("Expected no artifact at %s", c.Layout.DestFile())
	}
	return c
}

// AssertDestDirAbsent validates that dest_dir was not created.
func (c *Checkout) AssertDestDirAbsent() *Checkout {
	c.t.Helper()
	if _, err := os.Stat(c.Layout.DestDir); err == nil {
		c.t.Errorf("Expected %s not to exist", c.Layout.DestDir)
	}
	return c
}
