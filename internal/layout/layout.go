// Package layout derives the launcher's filesystem paths from a single root
// directory. Paths are computed once and never change during a run.
package layout

import (
	"fmt"
	"os"
	"path/filepath"
)

// Default templates, relative to the root directory.
const (
	DefaultBuildDir       = "../bin/Debug/Engine"
	DefaultSourceArtifact = "../bin/Debug/PlumbusTester/libPlumbusEngine.so"
	DefaultDestDir        = "bin/x64/Debug/net5.0/"
)

// Spec holds the three path templates. Relative templates are resolved
// against the root; absolute ones are used as-is.
type Spec struct {
	BuildDir       string `yaml:"build_dir"`
	SourceArtifact string `yaml:"source_artifact"`
	DestDir        string `yaml:"dest_dir"`
}

// DefaultSpec returns the templates of the engine/host project pair.
func DefaultSpec() Spec {
	return Spec{
		BuildDir:       DefaultBuildDir,
		SourceArtifact: DefaultSourceArtifact,
		DestDir:        DefaultDestDir,
	}
}

// WithDefaults fills empty templates from DefaultSpec.
func (s Spec) WithDefaults() Spec {
	d := DefaultSpec()
	if s.BuildDir == "" {
		s.BuildDir = d.BuildDir
	}
	if s.SourceArtifact == "" {
		s.SourceArtifact = d.SourceArtifact
	}
	if s.DestDir == "" {
		s.DestDir = d.DestDir
	}
	return s
}

// Layout is the set of absolute paths one launcher run operates on.
type Layout struct {
	Root           string
	BuildDir       string
	SourceArtifact string
	DestDir        string
}

// Derive computes the layout for root. Empty templates fall back to the
// defaults. root must be absolute.
func Derive(root string, spec Spec) (Layout, error) {
	if !filepath.IsAbs(root) {
		return Layout{}, fmt.Errorf("layout root must be absolute: %q", root)
	}
	spec = spec.WithDefaults()
	root = filepath.Clean(root)
	return Layout{
		Root:           root,
		BuildDir:       resolve(root, spec.BuildDir),
		SourceArtifact: resolve(root, spec.SourceArtifact),
		DestDir:        resolve(root, spec.DestDir),
	}, nil
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// DestFile is where the artifact lands: DestDir joined with the artifact's base name.
func (l Layout) DestFile() string {
	return filepath.Join(l.DestDir, filepath.Base(l.SourceArtifact))
}

// ResolveRoot returns the root directory. A non-empty override wins and is
// made absolute; otherwise it is the directory of the running executable with
// symlinks resolved.
func ResolveRoot(override string) (string, error) {
	if override != "" {
		abs, err := filepath.Abs(override)
		if err != nil {
			return "", fmt.Errorf("resolve root %q: %w", override, err)
		}
		return abs, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	return filepath.Dir(resolved), nil
}
