package csproj

import "strings"

// sourceRule picks the authoritative version property for a desired property.
type sourceRule struct {
	desired Property
	applies func(Fields) bool
	source  Property
}

// sourceRules are evaluated in order; the first applicable rule wins and
// anything unmatched resolves to PackageVersion.
var sourceRules = []sourceRule{
	{desired: Version, applies: func(f Fields) bool { return !isBlank(f.Version) }, source: Version},
	{desired: Version, applies: func(f Fields) bool { return isBlank(f.Version) }, source: VersionPrefix},
}

// ResolveVersionSource returns the property holding the current version.
//
// Desiring Version yields Version when that field is set and the
// VersionPrefix/VersionSuffix composite when it is blank. Every other desired
// property yields PackageVersion.
func ResolveVersionSource(f Fields, desired Property) Property {
	for _, rule := range sourceRules {
		if rule.desired == desired && rule.applies(f) {
			return rule.source
		}
	}
	return PackageVersion
}

// HumanReadableVersion renders the value of source. The composite source is
// rendered "prefix-suffix", which is "-" when both are blank.
func HumanReadableVersion(f Fields, source Property) string {
	switch source {
	case Version:
		return f.Version
	case VersionPrefix:
		return f.VersionPrefix + "-" + f.VersionSuffix
	default:
		return f.PackageVersion
	}
}

// Resolve returns the version source for desired together with its rendered value.
func Resolve(f Fields, desired Property) (Property, string) {
	source := ResolveVersionSource(f, desired)
	return source, HumanReadableVersion(f, source)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
