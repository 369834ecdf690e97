// Package main implements the csversion CLI tool.
//
// The csversion tool bumps the semantic version stored in a .NET project file
// (.csproj, .fsproj or .vbproj). It reads the current version from <Version>,
// falling back to <VersionPrefix> and <VersionSuffix> when <Version> is empty,
// computes the next version, writes it back, commits the project file and tags
// the commit. Commit message and tag default to "v<new version>".
//
// Command Usage:
//
//	csversion [flags] <version-bump>
//
// Version bumps:
//
//	major, minor, patch            Increment the named component.
//	premajor, preminor, prepatch   Increment the component and start a pre-release.
//	prerelease                     Increment the pre-release counter.
//	none                           Keep the version, useful with --build-meta.
//	specific                       Use the version given with --new-version.
//
// Flags:
//
//	-f, --project-file:          Project file, or a directory holding exactly one.
//	                             (Defaults to the working directory)
//	-p, --project-file-property: Version or PackageVersion. (Defaults to Version)
//	-o, --output-format:         text, json, bare or table.
//	-d, --dry-run:               Compute the new version without writing anything.
//	-s, --skip-vcs:              Do not check, commit or tag in version control.
//	    --prefix:                Pre-release label for pre* bumps. (Defaults to "next")
//	-b, --build-meta:            Build metadata appended after "+".
//	-m, --message:               Commit message template.
//	-t, --tag:                   Tag name template.
//	    --new-version:           Explicit version, implies the specific bump.
//	    --bump-file:             Additional file whose main version is replaced.
//	                             This flag may be used multiple times.
//	    --file:                  Additional file staged with the commit.
//	                             This flag may be used multiple times.
//	    --vcs:                   git or hg. (Defaults to git)
//	-i, --interactive:           Choose the version bump from a menu.
//	-v, --verbose:               Log every step to stderr.
//	    --version:               Displays the version of the csversion CLI tool and exits.
//
// Templates may reference $oldVer, $newVer and $projName.
//
// Defaults for most flags can be kept in a .csversion.yaml file next to the
// project file or in the home directory:
//
//	vcs: git
//	preReleasePrefix: beta
//	commitMessage: "release $projName v$newVer"
//	tag: "$projName-v$newVer"
//	outputFormat: text
//	bumpFiles:
//	  - package.json
//
// Examples:
//
//	# Bump the patch version (e.g. 1.2.3 → 1.2.4)
//	csversion patch
//
//	# Start a beta of the next major version (e.g. 1.2.3 → 2.0.0-beta.0)
//	csversion --prefix beta premajor
//
//	# Bump a prerelease version (e.g. 2.0.0-beta.0 → 2.0.0-beta.1)
//	csversion prerelease
//
//	# Set an explicit version directly
//	csversion --new-version 2.1.0-rc.1
//
//	# Preview the bump as JSON without touching files or the repository
//	csversion --dry-run -o json minor
//
//	# Bump PackageVersion of a project in a subdirectory
//	csversion -f src/Library -p PackageVersion patch
//
//	# Bump package.json alongside and include CHANGELOG.md in the commit
//	csversion --bump-file package.json --file CHANGELOG.md minor
//
// For the library API see the documentation of the "pkg" package.
package main
