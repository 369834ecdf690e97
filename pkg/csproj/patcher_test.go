package csproj

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patch(t *testing.T, doc string, value string, prop Property) string {
	t.Helper()
	p := NewPatcher()
	p.Load(doc)
	require.NoError(t, p.PatchField(value, prop))
	return string(p.Bytes())
}

func TestPatchFieldReplacesOnlyTheElementText(t *testing.T) {
	got := patch(t, sdkProject, "2.0.0", Version)
	want := strings.Replace(sdkProject, "<Version>1.2.1</Version>", "<Version>2.0.0</Version>", 1)
	assert.Equal(t, want, got)
}

func TestPatchFieldInSecondGroup(t *testing.T) {
	got := patch(t, sdkProject, "1.0.1", PackageVersion)
	want := strings.Replace(sdkProject, "<PackageVersion> 1.0.0 </PackageVersion>", "<PackageVersion>1.0.1</PackageVersion>", 1)
	assert.Equal(t, want, got)
}

func TestPatchFieldSelfClosing(t *testing.T) {
	got := patch(t, `<Project><PropertyGroup><VersionSuffix Condition="x" /></PropertyGroup></Project>`, "", VersionSuffix)
	assert.Equal(t, `<Project><PropertyGroup><VersionSuffix Condition="x" ></VersionSuffix></PropertyGroup></Project>`, got)

	got = patch(t, `<Project><PropertyGroup><Version/></PropertyGroup></Project>`, "1.0.0", Version)
	assert.Equal(t, `<Project><PropertyGroup><Version>1.0.0</Version></PropertyGroup></Project>`, got)
}

func TestPatchFieldAppendsMissingElement(t *testing.T) {
	doc := "<Project>\n  <PropertyGroup>\n    <TargetFramework>net8.0</TargetFramework>\n  </PropertyGroup>\n</Project>\n"
	got := patch(t, doc, "0.1.0", Version)
	assert.Equal(t, "<Project>\n  <PropertyGroup>\n    <TargetFramework>net8.0</TargetFramework>\n    <Version>0.1.0</Version>\n  </PropertyGroup>\n</Project>\n", got)

	inline := `<Project><PropertyGroup><A>1</A></PropertyGroup></Project>`
	assert.Equal(t, `<Project><PropertyGroup><A>1</A><Version>0.1.0</Version></PropertyGroup></Project>`, patch(t, inline, "0.1.0", Version))
}

func TestPatchFieldKeepsCRLF(t *testing.T) {
	doc := "<Project>\r\n\t<PropertyGroup>\r\n\t</PropertyGroup>\r\n</Project>"
	got := patch(t, doc, "1.0.0", Version)
	assert.Equal(t, "<Project>\r\n\t<PropertyGroup>\r\n\t\t<Version>1.0.0</Version>\r\n\t</PropertyGroup>\r\n</Project>", got)
}

func TestPatchFieldEscapesValue(t *testing.T) {
	got := patch(t, `<Project><PropertyGroup><Version>1</Version></PropertyGroup></Project>`, "1.0.0+a<b", Version)
	assert.Equal(t, `<Project><PropertyGroup><Version>1.0.0+a&lt;b</Version></PropertyGroup></Project>`, got)
}

func TestPatchFieldWithBOM(t *testing.T) {
	doc := "\uFEFF<Project><PropertyGroup><Version>1.0.0</Version></PropertyGroup></Project>"
	got := patch(t, doc, "1.1.0", Version)
	assert.Equal(t, "\uFEFF<Project><PropertyGroup><Version>1.1.0</Version></PropertyGroup></Project>", got)
}

func TestPatchFieldTwice(t *testing.T) {
	p := NewPatcher()
	p.Load(sdkProject)
	require.NoError(t, p.PatchField("3.0.0", VersionPrefix))
	require.NoError(t, p.PatchField("rc.1", VersionSuffix))

	parser := NewParser()
	require.NoError(t, parser.Load(string(p.Bytes())))
	assert.Equal(t, "3.0.0", parser.Fields().VersionPrefix)
	assert.Equal(t, "rc.1", parser.Fields().VersionSuffix)
	assert.Equal(t, "1.2.1", parser.Fields().Version)
}

func TestPatchFieldErrors(t *testing.T) {
	assert.Error(t, NewPatcher().PatchField("1.0.0", Version), "patching before Load")

	p := NewPatcher()
	p.Load(`<Project></Project>`)
	err := p.PatchField("1.0.0", Version)
	assert.True(t, errors.Is(err, ErrMalformedManifest), "got %v", err)

	p.Load(`<Solution><PropertyGroup/></Solution>`)
	err = p.PatchField("1.0.0", Version)
	assert.True(t, errors.Is(err, ErrMalformedManifest), "got %v", err)
}

func TestFlush(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.csproj")
	require.NoError(t, os.WriteFile(path, []byte(sdkProject), 0o600))

	p := NewPatcher()
	p.Load(sdkProject)
	require.NoError(t, p.PatchField("2.0.0", Version))
	require.NoError(t, p.Flush(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<Version>2.0.0</Version>")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFlushWriteFailure(t *testing.T) {
	p := NewPatcher()
	p.Load(sdkProject)
	err := p.Flush(filepath.Join(t.TempDir(), "missing", "app.csproj"))
	assert.True(t, errors.Is(err, ErrWriteFailure), "got %v", err)

	assert.Error(t, NewPatcher().Flush(filepath.Join(t.TempDir(), "x.csproj")))
}
