package vcs

import (
	"bytes"
	"os/exec"
)

// Mercurial records versions with hg.
type Mercurial struct {
	runner
}

var _ Tool = (*Mercurial)(nil)

// NewMercurial returns a Mercurial tool running in dir.
func NewMercurial(dir string) *Mercurial {
	return &Mercurial{runner{bin: "hg", dir: dir, lookPath: exec.LookPath}}
}

// Name returns the executable name.
func (m *Mercurial) Name() string {
	return m.bin
}

// IsPresent reports whether the executable is in PATH.
func (m *Mercurial) IsPresent() bool {
	return m.present()
}

// IsRepositoryClean treats any status line, unknown files included, as a
// dirty tree.
func (m *Mercurial) IsRepositoryClean() (bool, error) {
	out, err := m.output("status")
	if err != nil {
		return false, err
	}
	return len(bytes.TrimSpace(out)) == 0, nil
}

// Commit uses --addremove so untracked paths are added in the same step.
func (m *Mercurial) Commit(message string, paths ...string) error {
	args := append([]string{"commit", "--addremove", "-m", message}, paths...)
	_, err := m.output(args...)
	return err
}

// Tag creates a tag; mercurial records it in a separate commit.
func (m *Mercurial) Tag(name string) error {
	_, err := m.output("tag", name)
	return err
}
