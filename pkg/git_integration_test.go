package csversion

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bcomnes/csversion/pkg/csproj"
	"github.com/bcomnes/csversion/pkg/semver"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const compositeProject = `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <Title>unit-test</Title>
    <VersionPrefix>2.0.1</VersionPrefix>
    <VersionSuffix>DEVELOPMENT</VersionSuffix>
  </PropertyGroup>
</Project>
`

// newGitProject initializes a repository holding one committed project file
// and moves the test into it.
func newGitProject(t *testing.T, project string) (dir, projectFile string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not available on system")
	}

	dir = t.TempDir()
	git(t, dir, "init")
	git(t, dir, "config", "user.email", "test@example.com")
	git(t, dir, "config", "user.name", "Test User")
	git(t, dir, "config", "commit.gpgsign", "false")
	git(t, dir, "config", "tag.gpgsign", "false")

	projectFile = filepath.Join(dir, "UnitTest.csproj")
	require.NoError(t, os.WriteFile(projectFile, []byte(project), 0o644))
	git(t, dir, "add", ".")
	git(t, dir, "commit", "-m", "initial commit")

	testChdir(t, dir)
	return dir, projectFile
}

func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return strings.TrimSpace(string(out))
}

func TestRunGitIntegration(t *testing.T) {
	dir, projectFile := newGitProject(t, exampleProject)

	meta, err := Run(Options{
		VersionBump:   semver.BumpMinor,
		DoVcs:         true,
		CommitMessage: "release v$newVer",
	})
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", meta.OldVersion)
	assert.Equal(t, "1.3.0", meta.NewVersion)
	assert.Equal(t, projectFile, meta.ProjectFile)

	content, err := os.ReadFile(projectFile)
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(exampleProject, "1.2.3", "1.3.0", 1), string(content))

	assert.Equal(t, "release v1.3.0", git(t, dir, "log", "-1", "--format=%s"))
	assert.Contains(t, strings.Split(git(t, dir, "tag"), "\n"), "v1.3.0")
	assert.Empty(t, git(t, dir, "status", "--porcelain"))
}

func TestRunCompositeVersionIntegration(t *testing.T) {
	dir, projectFile := newGitProject(t, compositeProject)

	meta, err := Run(Options{VersionBump: semver.BumpPreRelease, DoVcs: true})
	require.NoError(t, err)
	assert.Equal(t, "2.0.1-DEVELOPMENT", meta.OldVersion)
	assert.Equal(t, "2.0.1-DEVELOPMENT.0", meta.NewVersion)
	assert.Equal(t, csproj.VersionPrefix, meta.VersionSource)
	assert.Equal(t, "unit-test", meta.ProjectName)

	content, err := os.ReadFile(projectFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "<VersionPrefix>2.0.1</VersionPrefix>")
	assert.Contains(t, string(content), "<VersionSuffix>DEVELOPMENT.0</VersionSuffix>")
	assert.Equal(t, "v2.0.1-DEVELOPMENT.0", git(t, dir, "describe", "--tags"))
}

func TestRunRejectsDirtyWorkingDir(t *testing.T) {
	dir, projectFile := newGitProject(t, exampleProject)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("unsaved changes\n"), 0o644))

	_, err := Run(Options{VersionBump: semver.BumpPatch, DoVcs: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRepositoryDirty))

	content, err := os.ReadFile(projectFile)
	require.NoError(t, err)
	assert.Equal(t, exampleProject, string(content))

	// without version control the dirty tree does not matter
	meta, err := Run(Options{VersionBump: semver.BumpPatch})
	require.NoError(t, err)
	assert.Equal(t, "1.2.4", meta.NewVersion)
	assert.Empty(t, git(t, dir, "tag"))
}

func TestDryRunGitIntegration(t *testing.T) {
	dir, projectFile := newGitProject(t, exampleProject)
	pkgJSON := filepath.Join(dir, "package.json")
	require.NoError(t, os.WriteFile(pkgJSON, []byte(`{"version": "1.2.3"}`), 0o644))
	git(t, dir, "add", ".")
	git(t, dir, "commit", "-m", "add package.json")

	meta, err := DryRun(Options{VersionBump: semver.BumpMajor, DoVcs: true, BumpFiles: []string{pkgJSON}})
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", meta.NewVersion)
	assert.Equal(t, []string{projectFile, pkgJSON}, meta.UpdatedFiles)

	content, err := os.ReadFile(projectFile)
	require.NoError(t, err)
	assert.Equal(t, exampleProject, string(content))
	assert.Empty(t, git(t, dir, "tag"))
	assert.Empty(t, git(t, dir, "status", "--porcelain"))
}

func TestRunBumpFilesIntegration(t *testing.T) {
	dir, projectFile := newGitProject(t, exampleProject)
	cargo := filepath.Join(dir, "Cargo.toml")
	require.NoError(t, os.WriteFile(cargo, []byte("[package]\nname = \"native\"\nversion = \"1.2.3\"\n"), 0o644))
	git(t, dir, "add", ".")
	git(t, dir, "commit", "-m", "add Cargo.toml")

	meta, err := Run(Options{VersionBump: semver.BumpPatch, DoVcs: true, BumpFiles: []string{cargo}})
	require.NoError(t, err)
	assert.Equal(t, []string{projectFile, cargo}, meta.UpdatedFiles)

	content, err := os.ReadFile(cargo)
	require.NoError(t, err)
	assert.Equal(t, "[package]\nname = \"native\"\nversion = \"1.2.4\"\n", string(content))

	changed := git(t, dir, "show", "--name-only", "--format=", "HEAD")
	assert.ElementsMatch(t, []string{"Cargo.toml", "UnitTest.csproj"}, strings.Split(changed, "\n"))
	assert.Empty(t, git(t, dir, "status", "--porcelain"))
}

// testChdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
