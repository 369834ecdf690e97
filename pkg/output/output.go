// Package output renders the result of a version bump for humans and scripts.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
)

// Format selects how a Report is written.
type Format string

const (
	Text  Format = "text"
	JSON  Format = "json"
	Bare  Format = "bare"
	Table Format = "table"
)

// Formats lists every supported format.
var Formats = []Format{Text, JSON, Bare, Table}

var _ pflag.Value = (*Format)(nil)

// ParseFormat parses a format name case-insensitively. The empty string is Text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return Text, nil
	}
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !lo.Contains(Formats, f) {
		return "", errors.Newf("unknown output format %q, expected one of %v", s, Formats)
	}
	return f, nil
}

func (f *Format) String() string {
	if *f == "" {
		return string(Text)
	}
	return string(*f)
}

func (f *Format) Set(s string) error {
	parsed, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (f *Format) Type() string {
	return "format"
}

// Report describes one bump.
type Report struct {
	ProjectName  string
	ProjectFile  string
	OldVersion   string
	NewVersion   string
	DryRun       bool
	UpdatedFiles []string
}

type product struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type jsonReport struct {
	Product      product  `json:"product"`
	OldVersion   string   `json:"oldVersion"`
	NewVersion   string   `json:"newVersion"`
	ProjectFile  string   `json:"projectFile"`
	DryRun       bool     `json:"dryRun"`
	UpdatedFiles []string `json:"updatedFiles"`
}

var (
	colorName    = color.New(color.FgCyan, color.Bold)
	colorOld     = color.New(color.FgYellow)
	colorNew     = color.New(color.FgGreen)
	colorDryRun  = color.New(color.FgMagenta)
	colorComment = color.New(color.Faint)
)

// Write renders r to w in the given format.
func Write(w io.Writer, format Format, r Report) error {
	switch format {
	case Text, "":
		return writeText(w, r)
	case JSON:
		return writeJSON(w, r)
	case Bare:
		_, err := fmt.Fprintln(w, r.NewVersion)
		return err
	case Table:
		writeTable(w, r)
		return nil
	default:
		return errors.Newf("unknown output format %q", string(format))
	}
}

func writeText(w io.Writer, r Report) error {
	name := r.ProjectName
	if name == "" {
		name = r.ProjectFile
	}
	line := fmt.Sprintf("%s: %s -> %s", colorName.Sprint(name), colorOld.Sprint(r.OldVersion), colorNew.Sprint(r.NewVersion))
	if r.DryRun {
		line += colorDryRun.Sprint(" (dry run)")
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	verb := "updated"
	if r.DryRun {
		verb = "would update"
	}
	for _, f := range r.UpdatedFiles {
		if _, err := fmt.Fprintln(w, colorComment.Sprintf("  %s %s", verb, f)); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, r Report) error {
	files := r.UpdatedFiles
	if files == nil {
		files = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		Product:      product{Name: r.ProjectName, Version: r.NewVersion},
		OldVersion:   r.OldVersion,
		NewVersion:   r.NewVersion,
		ProjectFile:  r.ProjectFile,
		DryRun:       r.DryRun,
		UpdatedFiles: files,
	})
}

func writeTable(w io.Writer, r Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(r.ProjectName)
	t.AppendHeader(table.Row{"File", "Old Version", "New Version", "Dry Run"})
	t.AppendRow(table.Row{r.ProjectFile, r.OldVersion, r.NewVersion, r.DryRun})
	for _, f := range r.UpdatedFiles {
		if f == r.ProjectFile {
			continue
		}
		t.AppendRow(table.Row{f, "", r.NewVersion, r.DryRun})
	}
	t.Render()
}
