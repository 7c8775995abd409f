// Package revision reports the git commit checked out in the source tree the
// launcher builds, so each run can be tied to the code it compiled.
package revision

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

// Unknown is returned when the tree is not inside a git repository.
const Unknown = ""

// Info describes the checked-out revision.
type Info struct {
	Commit string
	Branch string
	Dirty  bool
}

// Short returns the abbreviated commit hash with a "+dirty" suffix for modified trees.
func (i Info) Short() string {
	if i.Commit == "" {
		return Unknown
	}
	c := i.Commit
	if len(c) > 12 {
		c = c[:12]
	}
	if i.Dirty {
		c += "+dirty"
	}
	return c
}

// Detect opens the repository containing dir (searching parent directories)
// and returns its HEAD. A dir outside any repository yields a zero Info and
// no error.
func Detect(dir string) (Info, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return Info{}, nil
	}
	if err != nil {
		return Info{}, fmt.Errorf("open repository at %s: %w", dir, err)
	}

	head, err := repo.Head()
	if err != nil {
		// Fresh repository without commits.
		return Info{}, nil
	}

	info := Info{Commit: head.Hash().String()}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}

	wt, err := repo.Worktree()
	if err != nil {
		return info, nil
	}
	status, err := wt.Status()
	if err != nil {
		return info, fmt.Errorf("worktree status: %w", err)
	}
	info.Dirty = !status.IsClean()
	return info, nil
}
