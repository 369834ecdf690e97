// Package vcs records version bumps in a version-control system by shelling
// out to its command-line tool.
package vcs

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrCommandFailed is returned when the VCS executable exits with an error.
var ErrCommandFailed = errors.New("vcs command failed")

// Tool is the set of VCS operations needed to record a version bump.
type Tool interface {
	// Name is the executable name, used in user facing messages.
	Name() string
	// IsPresent reports whether the executable can be found in PATH.
	IsPresent() bool
	// IsRepositoryClean reports whether the working tree has no uncommitted changes.
	IsRepositoryClean() (bool, error)
	// Commit stages paths and commits them with message.
	Commit(message string, paths ...string) error
	// Tag tags the current revision.
	Tag(name string) error
}

// Names lists the supported tool names.
var Names = []string{"git", "hg"}

// New returns the tool registered under name, running commands in dir (the
// working directory when dir is empty).
func New(name, dir string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "git":
		return NewGit(dir), nil
	case "hg", "mercurial":
		return NewMercurial(dir), nil
	default:
		return nil, errors.Newf("unsupported vcs tool %q, expected one of %v", name, Names)
	}
}

type runner struct {
	bin      string
	dir      string
	lookPath func(string) (string, error)
}

func (r runner) present() bool {
	_, err := r.lookPath(r.bin)
	return err == nil
}

func (r runner) output(args ...string) ([]byte, error) {
	cmd := exec.Command(r.bin, args...)
	cmd.Dir = r.dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return out, errors.Mark(
			errors.Newf("%s %s failed: %v, detail: %s", r.bin, args[0], err, strings.TrimSpace(stderr.String())),
			ErrCommandFailed,
		)
	}
	return out, nil
}
