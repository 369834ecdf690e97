package semver

import (
	"math"
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultPreReleasePrefix labels pre-release segments created by a bump when
// no prefix is supplied.
const DefaultPreReleasePrefix = "next"

// BumpKind selects how a version is incremented.
type BumpKind int

const (
	BumpNone BumpKind = iota
	BumpMajor
	BumpMinor
	BumpPatch
	BumpPreMajor
	BumpPreMinor
	BumpPrePatch
	BumpPreRelease
	// BumpSpecific applies an explicit version instead of incrementing.
	BumpSpecific
)

var bumpKindNames = [...]string{
	BumpNone:       "none",
	BumpMajor:      "major",
	BumpMinor:      "minor",
	BumpPatch:      "patch",
	BumpPreMajor:   "premajor",
	BumpPreMinor:   "preminor",
	BumpPrePatch:   "prepatch",
	BumpPreRelease: "prerelease",
	BumpSpecific:   "specific",
}

func (k BumpKind) String() string {
	if k < 0 || int(k) >= len(bumpKindNames) {
		return "unknown"
	}
	return bumpKindNames[k]
}

// BumpKinds lists the increment kinds accepted on the command line.
func BumpKinds() []BumpKind {
	return []BumpKind{BumpMajor, BumpMinor, BumpPatch, BumpPreMajor, BumpPreMinor, BumpPrePatch, BumpPreRelease, BumpNone}
}

// ParseBumpKind maps a case-insensitive name such as "premajor" to its BumpKind.
func ParseBumpKind(s string) (BumpKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range bumpKindNames {
		if n == name {
			return BumpKind(k), nil
		}
	}
	return BumpNone, errors.Newf("unknown bump argument: %s", s)
}

// BumpOptions customise the pre-release label and build metadata of a bump.
type BumpOptions struct {
	// PreReleasePrefix defaults to DefaultPreReleasePrefix.
	PreReleasePrefix string
	// BuildMeta replaces the build metadata of the result when set.
	BuildMeta string
}

// Bump returns the version that follows v for the given kind.
//
// Stable bumps clear the pre-release segment. Pre bumps perform the stable bump
// and attach "<prefix>.0". BumpPreRelease keeps MAJOR.MINOR.PATCH and advances
// the pre-release counter, starting "<prefix>.0" when there is none. Build
// metadata is cleared unless opts.BuildMeta is set; BumpNone keeps it.
func (v Version) Bump(kind BumpKind, opts BumpOptions) (Version, error) {
	prefix := opts.PreReleasePrefix
	if prefix == "" {
		prefix = DefaultPreReleasePrefix
	}
	start := &PreRelease{Label: prefix, Numbered: true}

	if kind == BumpNone {
		next := v
		if opts.BuildMeta != "" {
			next.Build = opts.BuildMeta
		}
		return next, nil
	}

	var next Version
	var err error
	switch kind {
	case BumpMajor, BumpPreMajor:
		next.Major, err = increment(v.Major, "major")
	case BumpMinor, BumpPreMinor:
		next.Major = v.Major
		next.Minor, err = increment(v.Minor, "minor")
	case BumpPatch, BumpPrePatch:
		next.Major, next.Minor = v.Major, v.Minor
		next.Patch, err = increment(v.Patch, "patch")
	case BumpPreRelease:
		next = Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch, PreRelease: start}
		if cur := v.PreRelease; cur != nil {
			n := uint64(0)
			if cur.Numbered {
				n, err = increment(cur.Number, "pre-release")
			}
			next.PreRelease = &PreRelease{Label: cur.Label, Number: n, Numbered: true}
		}
	default:
		return Version{}, errors.Newf("unsupported bump kind: %s", kind)
	}
	if err != nil {
		return Version{}, err
	}
	switch kind {
	case BumpPreMajor, BumpPreMinor, BumpPrePatch:
		next.PreRelease = start
	}
	next.Build = opts.BuildMeta
	return next, nil
}

// Bump parses current and returns the bumped version string.
func Bump(current string, kind BumpKind, opts BumpOptions) (string, error) {
	v, err := Parse(current)
	if err != nil {
		return "", err
	}
	next, err := v.Bump(kind, opts)
	if err != nil {
		return "", err
	}
	return next.String(), nil
}

// increment adds one to a version component, refusing to wrap around.
func increment(n uint64, component string) (uint64, error) {
	if n == math.MaxUint64 {
		return 0, errors.Mark(errors.Newf("%s component %d cannot be incremented", component, n), ErrMalformedVersion)
	}
	return n + 1, nil
}
