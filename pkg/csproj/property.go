// Package csproj reads and patches the version properties of MSBuild project
// files (*.csproj, *.fsproj, *.vbproj).
//
// A project file is expected to have a <Project> root element holding one or
// more <PropertyGroup> elements. Properties are looked up by element name and
// the first match across all property groups wins.
package csproj

import (
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrManifestNotFound is returned when no project file can be located.
	ErrManifestNotFound = errors.New("project file not found")
	// ErrMalformedManifest is returned for documents that are not well formed
	// or lack a <Project> root element.
	ErrMalformedManifest = errors.New("malformed project file")
	// ErrWriteFailure is returned when the patched document cannot be written.
	ErrWriteFailure = errors.New("failed to write project file")
)

// Property is the element name of an MSBuild property.
type Property string

const (
	Title          Property = "Title"
	PackageID      Property = "PackageId"
	Version        Property = "Version"
	PackageVersion Property = "PackageVersion"
	VersionPrefix  Property = "VersionPrefix"
	VersionSuffix  Property = "VersionSuffix"
)

// AllProperties are the properties extracted when Load is called without an
// explicit list.
var AllProperties = []Property{Title, Version, PackageID, PackageVersion, VersionPrefix, VersionSuffix}

// ParseProperty maps a case-insensitive property name to a Property.
func ParseProperty(s string) (Property, error) {
	for _, p := range AllProperties {
		if strings.EqualFold(string(p), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", errors.Newf("unknown project file property: %s", s)
}

// Fields holds the raw version related values of a project file. Missing
// elements are empty strings.
type Fields struct {
	// PackageName is <Title>, falling back to <PackageId>.
	PackageName    string
	Version        string
	PackageVersion string
	VersionPrefix  string
	VersionSuffix  string
}
