// Package bumpfile keeps secondary files (package.json, Cargo.toml, READMEs,
// Directory.Build.props, ...) in step with a project's version by rewriting the
// primary version string they declare.
package bumpfile

import (
	"bytes"
	"os"
	"regexp"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

const versionExpr = `v?\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?`

// Pattern finds a version declaration. The expression's second capture group
// is the version, optionally prefixed with "v".
type Pattern struct {
	Name string
	re   *regexp.Regexp
}

func newPattern(name, expr string) Pattern {
	return Pattern{Name: name, re: regexp.MustCompile(expr)}
}

// MainPatterns match declarations that are likely to be the primary version of
// a file rather than a dependency or a mention in prose.
var MainPatterns = []Pattern{
	newPattern("root JSON version field", `(?m)^([ ]{0,2}|\t?)"version"\s*:\s*"(`+versionExpr+`)"`),
	newPattern("root TOML version field", `(?m)^(\s*)version\s*=\s*"(`+versionExpr+`)"`),
	newPattern("VERSION assignment", `(?im)^(\s*)VERSION\s*[:=]\s*["']?(`+versionExpr+`)`),
	newPattern("XML version element", `(<)Version>(`+versionExpr+`)</Version>`),
}

// anyVersion is the fallback when no main pattern matches.
var anyVersion = newPattern("first semantic version", `(^|[^0-9A-Za-z.])(`+versionExpr+`)`)

// Match is a version found in a file.
type Match struct {
	// Line is 1-based.
	Line int
	// Start and End delimit the version text, including any "v", in the file.
	Start   int
	End     int
	Version string
	// Prefixed is true when the version was written with a leading "v".
	Prefixed bool
	Pattern  string
}

// FindMain returns the primary version declared in the file at path, falling
// back to the first semantic version it contains. It returns nil when the file
// has no version.
func FindMain(path string) (*Match, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading file %s", path)
	}
	return findMain(data), nil
}

func findMain(data []byte) *Match {
	matches := lo.FilterMap(MainPatterns, func(p Pattern, _ int) (Match, bool) {
		loc := p.re.FindSubmatchIndex(data)
		if loc == nil {
			return Match{}, false
		}
		return newMatch(data, loc, p.Name), true
	})
	if len(matches) == 0 {
		matches = FindAll(data)
	}
	if len(matches) == 0 {
		return nil
	}
	first := matches[0]
	for _, m := range matches[1:] {
		if m.Start < first.Start {
			first = m
		}
	}
	return &first
}

// FindAll returns every semantic version in data, in order.
func FindAll(data []byte) []Match {
	return lo.Map(anyVersion.re.FindAllSubmatchIndex(data, -1), func(loc []int, _ int) Match {
		return newMatch(data, loc, anyVersion.Name)
	})
}

// Replace rewrites every occurrence of oldVersion in the file at path with
// newVersion, keeping a leading "v" where the original had one. It returns the
// number of replacements.
func Replace(path, oldVersion, newVersion string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrapf(err, "reading file %s", path)
	}

	targets := lo.Filter(FindAll(data), func(m Match, _ int) bool {
		return m.Version == oldVersion
	})
	if len(targets) == 0 {
		return 0, nil
	}

	if err := overwrite(path, splice(data, newVersion, targets...)); err != nil {
		return 0, err
	}
	return len(targets), nil
}

// Bump replaces the main version of the file at path, as found by FindMain,
// with newVersion. Other occurrences, such as a dependency pinned to the same
// version, are left alone. It reports false when the file contains no version.
func Bump(path, newVersion string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Wrapf(err, "reading file %s", path)
	}
	m := findMain(data)
	if m == nil {
		return false, nil
	}
	if err := overwrite(path, splice(data, newVersion, *m)); err != nil {
		return false, err
	}
	return true, nil
}

// splice writes newVersion over each match, in order, keeping a leading "v".
func splice(data []byte, newVersion string, matches ...Match) []byte {
	var out bytes.Buffer
	last := 0
	for _, m := range matches {
		out.Write(data[last:m.Start])
		if m.Prefixed {
			out.WriteByte('v')
		}
		out.WriteString(newVersion)
		last = m.End
	}
	out.Write(data[last:])
	return out.Bytes()
}

// overwrite keeps the mode of an existing file.
func overwrite(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return errors.Wrapf(err, "writing file %s", path)
	}
	return nil
}

func newMatch(data []byte, loc []int, pattern string) Match {
	start, end := loc[4], loc[5]
	text := string(data[start:end])
	prefixed := text[0] == 'v'
	if prefixed {
		text = text[1:]
	}
	return Match{
		Line:     bytes.Count(data[:start], []byte("\n")) + 1,
		Start:    start,
		End:      end,
		Version:  text,
		Prefixed: prefixed,
		Pattern:  pattern,
	}
}
