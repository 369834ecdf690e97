package csproj

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Patcher stages edits to a project file in memory and writes them with Flush.
// Only the text of the patched element changes; all other bytes, including
// whitespace and comments, are preserved.
type Patcher struct {
	doc    []byte
	loaded bool
}

// NewPatcher returns a Patcher with no document.
func NewPatcher() *Patcher {
	return &Patcher{}
}

// Load stages doc as the document to patch, discarding earlier edits.
func (p *Patcher) Load(doc string) {
	p.doc = []byte(doc)
	p.loaded = true
}

// Bytes returns the staged document.
func (p *Patcher) Bytes() []byte {
	return p.doc
}

// PatchField sets the first prop element found in any property group to value.
// A missing element is appended to the first property group.
func (p *Patcher) PatchField(value string, prop Property) error {
	if !p.loaded {
		return errors.New("no project file loaded")
	}
	loc, err := p.locate(prop)
	if err != nil {
		return err
	}

	var escaped bytes.Buffer
	if err := xml.EscapeText(&escaped, []byte(value)); err != nil {
		return errors.Wrap(err, "escaping value")
	}
	name := string(prop)

	var out bytes.Buffer
	switch {
	case loc.found && loc.selfClosing:
		// <Version/> becomes <Version>value</Version>
		out.Write(p.doc[:loc.contentStart-2])
		out.WriteString(">")
		out.Write(escaped.Bytes())
		out.WriteString("</" + name + ">")
		out.Write(p.doc[loc.contentStart:])
	case loc.found:
		out.Write(p.doc[:loc.contentStart])
		out.Write(escaped.Bytes())
		out.Write(p.doc[loc.contentEnd:])
	case loc.groupEnd >= 0:
		element := "<" + name + ">" + escaped.String() + "</" + name + ">"
		indent, ownLine := lineIndent(p.doc, loc.groupEnd)
		if ownLine {
			at := loc.groupEnd - len(indent)
			out.Write(p.doc[:at])
			out.WriteString(indent + childIndent(indent) + element + newline(p.doc))
			out.Write(p.doc[at:])
		} else {
			out.Write(p.doc[:loc.groupEnd])
			out.WriteString(element)
			out.Write(p.doc[loc.groupEnd:])
		}
	default:
		return errors.Mark(errors.Newf("cannot set %s: no <PropertyGroup> in project file", name), ErrMalformedManifest)
	}
	p.doc = out.Bytes()
	return nil
}

// Flush writes the staged document to path, keeping the file mode of an
// existing file.
func (p *Patcher) Flush(path string) error {
	if !p.loaded {
		return errors.New("no project file loaded")
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, p.doc, mode); err != nil {
		return errors.Mark(errors.Wrapf(err, "writing %s", path), ErrWriteFailure)
	}
	return nil
}

type location struct {
	found        bool
	selfClosing  bool
	contentStart int // just after the start tag
	contentEnd   int // at the '<' of the end tag
	groupEnd     int // at the '<' of the first </PropertyGroup>, -1 if none
}

func (p *Patcher) locate(prop Property) (location, error) {
	base := 0
	if bytes.HasPrefix(p.doc, utf8BOM) {
		base = len(utf8BOM)
	}
	dec := xml.NewDecoder(bytes.NewReader(p.doc[base:]))

	loc := location{groupEnd: -1}
	depth := 0
	inGroup, inTarget := false, false
	for {
		offset := base + int(dec.InputOffset())
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return loc, errors.Mark(errors.Wrap(err, "the provided project file is not well formed"), ErrMalformedManifest)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch {
			case depth == 1 && t.Name.Local != "Project":
				return loc, errors.Mark(errors.New("the provided project file seems malformed - no <Project> in the root"), ErrMalformedManifest)
			case depth == 2 && t.Name.Local == "PropertyGroup":
				inGroup = true
			case depth == 3 && inGroup && !loc.found && t.Name.Local == string(prop):
				inTarget = true
				loc.found = true
				loc.contentStart = base + int(dec.InputOffset())
				loc.selfClosing = bytes.HasSuffix(p.doc[:loc.contentStart], []byte("/>"))
			}
		case xml.EndElement:
			switch {
			case depth == 3 && inTarget:
				loc.contentEnd = offset
				if loc.selfClosing {
					loc.contentEnd = loc.contentStart
				}
				inTarget = false
			case depth == 2 && inGroup:
				if loc.groupEnd < 0 {
					loc.groupEnd = offset
				}
				inGroup = false
			}
			depth--
		}
	}
	return loc, nil
}

// lineIndent returns the whitespace between the start of the line and pos, and
// whether only whitespace precedes pos on that line.
func lineIndent(doc []byte, pos int) (string, bool) {
	start := pos
	for start > 0 && (doc[start-1] == ' ' || doc[start-1] == '\t') {
		start--
	}
	if start > 0 && doc[start-1] != '\n' {
		return "", false
	}
	return string(doc[start:pos]), true
}

func newline(doc []byte) string {
	if bytes.Contains(doc, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}

func childIndent(indent string) string {
	if strings.ContainsRune(indent, '\t') {
		return "\t"
	}
	return "  "
}
