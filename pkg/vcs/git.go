package vcs

import (
	"bytes"
	"os/exec"
)

// Git records versions with git.
type Git struct {
	runner
}

var _ Tool = (*Git)(nil)

// NewGit returns a Git tool running in dir.
func NewGit(dir string) *Git {
	return &Git{runner{bin: "git", dir: dir, lookPath: exec.LookPath}}
}

// Name returns the executable name.
func (g *Git) Name() string {
	return g.bin
}

// IsPresent reports whether the executable is in PATH.
func (g *Git) IsPresent() bool {
	return g.present()
}

// IsRepositoryClean treats any porcelain status line, untracked files
// included, as a dirty tree.
func (g *Git) IsRepositoryClean() (bool, error) {
	out, err := g.output("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return len(bytes.TrimSpace(out)) == 0, nil
}

// Commit stages paths and commits them with message.
func (g *Git) Commit(message string, paths ...string) error {
	if len(paths) > 0 {
		if _, err := g.output(append([]string{"add", "--"}, paths...)...); err != nil {
			return err
		}
	}
	_, err := g.output("commit", "-m", message)
	return err
}

// Tag creates a lightweight tag on HEAD.
func (g *Git) Tag(name string) error {
	_, err := g.output("tag", name)
	return err
}
