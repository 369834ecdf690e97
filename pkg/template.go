package csversion

import "strings"

// DefaultTemplate is used for both the commit message and the tag name when
// none is configured.
const DefaultTemplate = "v$newVer"

// TemplateVars are the values substituted by RenderTemplate.
type TemplateVars struct {
	OldVersion  string
	NewVersion  string
	ProjectName string
}

// RenderTemplate replaces $oldVer, $newVer and $projName in tmpl. Unknown
// $tokens are kept as written and substituted values are not scanned again.
func RenderTemplate(tmpl string, vars TemplateVars) string {
	return strings.NewReplacer(
		"$oldVer", vars.OldVersion,
		"$newVer", vars.NewVersion,
		"$projName", vars.ProjectName,
	).Replace(tmpl)
}

func renderOrDefault(tmpl string, vars TemplateVars) string {
	if tmpl == "" {
		tmpl = DefaultTemplate
	}
	return RenderTemplate(tmpl, vars)
}
