package csproj

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// ProjectExtensions are the file extensions recognised as project files.
var ProjectExtensions = []string{".csproj", ".fsproj", ".vbproj"}

// Detector locates and reads a project file.
type Detector struct {
	resolved string
}

// NewDetector returns a Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// FindAndLoad reads the project file at path. When path is a directory (or
// empty, meaning the working directory) it must contain exactly one project
// file.
func (d *Detector) FindAndLoad(path string) (string, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", path)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Mark(errors.Newf("%s does not exist", abs), ErrManifestNotFound)
		}
		return "", errors.Wrapf(err, "inspecting %s", abs)
	}
	if info.IsDir() {
		abs, err = findProjectFile(abs)
		if err != nil {
			return "", err
		}
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", errors.Wrapf(err, "reading project file %s", abs)
	}
	d.resolved = abs
	return string(data), nil
}

// ResolvedFile is the absolute path of the last project file read.
func (d *Detector) ResolvedFile() string {
	return d.resolved
}

func findProjectFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.Wrapf(err, "listing %s", dir)
	}
	candidates := lo.Filter(entries, func(e os.DirEntry, _ int) bool {
		return !e.IsDir() && lo.Contains(ProjectExtensions, filepath.Ext(e.Name()))
	})
	names := lo.Map(candidates, func(e os.DirEntry, _ int) string {
		return e.Name()
	})
	sort.Strings(names)

	switch len(names) {
	case 0:
		return "", errors.Mark(errors.Newf("unable to find a project file in %s", dir), ErrManifestNotFound)
	case 1:
		return filepath.Join(dir, names[0]), nil
	default:
		return "", errors.Newf("found multiple project files in %s: %v; specify one with --project-file", dir, names)
	}
}
