package semver

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBump(t *testing.T) {
	tests := []struct {
		version  string
		kind     BumpKind
		opts     BumpOptions
		expected string
	}{
		{"1.2.1", BumpNone, BumpOptions{}, "1.2.1"},
		{"1.2.1-beta.3+sha", BumpNone, BumpOptions{}, "1.2.1-beta.3+sha"},
		{"1.2.1+sha", BumpNone, BumpOptions{BuildMeta: "master"}, "1.2.1+master"},
		{"1.2.1", BumpMajor, BumpOptions{}, "2.0.0"},
		{"1.2.1-beta.3", BumpMajor, BumpOptions{}, "2.0.0"},
		{"1.2.3", BumpMinor, BumpOptions{}, "1.3.0"},
		{"1.2.3", BumpPatch, BumpOptions{}, "1.2.4"},
		{"1.2.3+old", BumpPatch, BumpOptions{}, "1.2.4"},
		{"1.2.3+old", BumpPatch, BumpOptions{BuildMeta: "new"}, "1.2.4+new"},
		{"1.2.1", BumpPreMajor, BumpOptions{}, "2.0.0-next.0"},
		{"1.2.1", BumpPreMajor, BumpOptions{PreReleasePrefix: "beta"}, "2.0.0-beta.0"},
		{"1.2.1", BumpPreMajor, BumpOptions{BuildMeta: "master"}, "2.0.0-next.0+master"},
		{"1.2.3", BumpPreMinor, BumpOptions{}, "1.3.0-next.0"},
		{"1.2.3", BumpPrePatch, BumpOptions{}, "1.2.4-next.0"},
		{"1.2.3", BumpPreRelease, BumpOptions{}, "1.2.3-next.0"},
		{"1.2.3", BumpPreRelease, BumpOptions{PreReleasePrefix: "rc"}, "1.2.3-rc.0"},
		{"1.2.3-next.0", BumpPreRelease, BumpOptions{}, "1.2.3-next.1"},
		{"1.2.3-beta.9", BumpPreRelease, BumpOptions{PreReleasePrefix: "rc"}, "1.2.3-beta.10"},
		{"1.2.3-0", BumpPreRelease, BumpOptions{}, "1.2.3-1"},
		{"2.0.1-DEVELOPMENT", BumpPreRelease, BumpOptions{}, "2.0.1-DEVELOPMENT.0"},
		{"1.2.3-beta.1+sha", BumpPreRelease, BumpOptions{BuildMeta: "ci"}, "1.2.3-beta.2+ci"},
	}
	for _, tc := range tests {
		t.Run(tc.version+"/"+tc.kind.String(), func(t *testing.T) {
			res, err := Bump(tc.version, tc.kind, tc.opts)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, res)
		})
	}
}

func TestBumpDoesNotModifyReceiver(t *testing.T) {
	v := MustParse("1.2.3-beta.1")
	_, err := v.Bump(BumpPreRelease, BumpOptions{})
	require.NoError(t, err)
	assert.Equal(t, "1.2.3-beta.1", v.String())
}

func TestBumpErrors(t *testing.T) {
	_, err := Bump("1.2", BumpMajor, BumpOptions{})
	assert.True(t, errors.Is(err, ErrMalformedVersion))

	_, err = Bump("1.2.3", BumpSpecific, BumpOptions{})
	assert.Error(t, err)

	_, err = Bump("1.2.3", BumpKind(42), BumpOptions{})
	assert.Error(t, err)
}

func TestBumpRefusesToWrap(t *testing.T) {
	const maxUint = "18446744073709551615"
	tests := []struct {
		current string
		kind    BumpKind
	}{
		{maxUint + ".0.0", BumpMajor},
		{maxUint + ".0.0", BumpPreMajor},
		{"1." + maxUint + ".0", BumpMinor},
		{"1.2." + maxUint, BumpPatch},
		{"1.2." + maxUint, BumpPrePatch},
		{"1.2.3-beta." + maxUint, BumpPreRelease},
	}
	for _, tt := range tests {
		t.Run(tt.current+" "+tt.kind.String(), func(t *testing.T) {
			_, err := Bump(tt.current, tt.kind, BumpOptions{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedVersion))
		})
	}

	// components that are not bumped may hold the maximum
	got, err := Bump(maxUint+".0.0", BumpMinor, BumpOptions{})
	require.NoError(t, err)
	assert.Equal(t, maxUint+".1.0", got)
}

func TestParseBumpKind(t *testing.T) {
	for _, kind := range append(BumpKinds(), BumpSpecific) {
		got, err := ParseBumpKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}

	got, err := ParseBumpKind(" PreMajor ")
	require.NoError(t, err)
	assert.Equal(t, BumpPreMajor, got)

	_, err = ParseBumpKind("from-git")
	assert.EqualError(t, err, "unknown bump argument: from-git")
	assert.Equal(t, "unknown", BumpKind(-1).String())
}
