// Package semver parses, renders and bumps semantic versions of the form
// MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD].
package semver

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	modsemver "golang.org/x/mod/semver"
)

// ErrMalformedVersion is returned when a string is not a semantic version.
var ErrMalformedVersion = errors.New("malformed version")

// Version is a parsed semantic version. Values are never modified in place;
// Bump returns a new Version.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
	// PreRelease is nil when the version has no pre-release segment.
	PreRelease *PreRelease
	// Build is opaque metadata rendered after "+".
	Build string
}

// PreRelease is the "-label.number" segment of a version.
type PreRelease struct {
	Label  string
	Number uint64
	// Numbered is false for segments without a trailing counter, e.g. "beta".
	Numbered bool
}

func (p PreRelease) String() string {
	switch {
	case p.Label == "":
		return strconv.FormatUint(p.Number, 10)
	case !p.Numbered:
		return p.Label
	default:
		return p.Label + "." + strconv.FormatUint(p.Number, 10)
	}
}

// Parse parses s into a Version. Build metadata is split off at the first "+",
// the pre-release at the first "-" of what remains.
func Parse(s string) (Version, error) {
	rest, build, hasBuild := strings.Cut(s, "+")
	if hasBuild && build == "" {
		return Version{}, malformed(s, "empty build metadata")
	}
	core, pre, hasPre := strings.Cut(rest, "-")
	if hasPre && pre == "" {
		return Version{}, malformed(s, "empty pre-release")
	}

	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version{}, malformed(s, "expected MAJOR.MINOR.PATCH")
	}
	var nums [3]uint64
	for i, part := range parts {
		n, ok := parseNumeric(part)
		if !ok {
			return Version{}, malformed(s, "non-numeric component "+strconv.Quote(part))
		}
		nums[i] = n
	}

	v := Version{Major: nums[0], Minor: nums[1], Patch: nums[2], Build: build}
	if hasPre {
		v.PreRelease = parsePreRelease(pre)
	}
	return v, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseExplicit parses a user supplied version. A leading "v" is accepted and
// the input must be valid semver as understood by the Go toolchain.
func ParseExplicit(s string) (Version, error) {
	canonical := strings.TrimSpace(s)
	if !strings.HasPrefix(canonical, "v") {
		canonical = "v" + canonical
	}
	if !modsemver.IsValid(canonical) {
		return Version{}, malformed(s, "not valid semver")
	}
	return Parse(strings.TrimPrefix(canonical, "v"))
}

// String renders the version. Parse(s).String() == s for every accepted s.
func (v Version) String() string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(v.Major, 10))
	b.WriteByte('.')
	b.WriteString(strconv.FormatUint(v.Minor, 10))
	b.WriteByte('.')
	b.WriteString(strconv.FormatUint(v.Patch, 10))
	if v.PreRelease != nil {
		b.WriteByte('-')
		b.WriteString(v.PreRelease.String())
	}
	if v.Build != "" {
		b.WriteByte('+')
		b.WriteString(v.Build)
	}
	return b.String()
}

// Compare orders v and o by semver precedence, ignoring build metadata.
// The result is -1, 0 or +1.
func (v Version) Compare(o Version) int {
	return modsemver.Compare("v"+v.String(), "v"+o.String())
}

func parsePreRelease(s string) *PreRelease {
	if n, ok := parseNumeric(s); ok {
		return &PreRelease{Number: n, Numbered: true}
	}
	if i := strings.LastIndexByte(s, '.'); i > 0 {
		if n, ok := parseNumeric(s[i+1:]); ok {
			return &PreRelease{Label: s[:i], Number: n, Numbered: true}
		}
	}
	return &PreRelease{Label: s}
}

// parseNumeric accepts non-negative integers without leading zeros.
func parseNumeric(s string) (uint64, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func malformed(s, reason string) error {
	return errors.Mark(errors.Newf("malformed version %q: %s", s, reason), ErrMalformedVersion)
}
