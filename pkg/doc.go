// Package csversion bumps the semantic version recorded in a .NET project file
// (.csproj, .fsproj or .vbproj) and records the change in version control.
//
// It provides functionalities for:
//   - Locating a project file and reading its Version, PackageVersion or
//     VersionPrefix/VersionSuffix properties.
//   - Bumping versions with the keywords major, minor, patch, premajor,
//     preminor, prepatch, prerelease and none, or setting an explicit version.
//   - Writing the new version back to the project file without reformatting it,
//     and keeping secondary files such as package.json in step.
//   - Committing and tagging the change with git or mercurial, using templates
//     such as "v$newVer" for the commit message and tag.
//
// The library backs the csversion command-line tool and can be used directly.
//
// Usage Example:
//
//	import (
//	    "log"
//
//	    csversion "github.com/bcomnes/csversion/pkg"
//	    "github.com/bcomnes/csversion/pkg/semver"
//	)
//
//	func main() {
//	    meta, err := csversion.Run(csversion.Options{
//	        VersionBump: semver.BumpPatch,
//	        ProjectFile: "./src/MyLib/MyLib.csproj",
//	        DoVcs:       true,
//	    })
//	    if err != nil {
//	        log.Fatalf("version bump failed: %v", err)
//	    }
//	    log.Printf("bumped %s to %s", meta.OldVersion, meta.NewVersion)
//	}
//
// Bumper.Execute accepts custom collaborators, a zap logger and an output
// writer for callers that need more control than Run and DryRun.
package csversion
