package csproj

import (
	"encoding/xml"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

type projectDocument struct {
	XMLName        xml.Name
	PropertyGroups []propertyGroup `xml:"PropertyGroup"`
}

type propertyGroup struct {
	Properties []propertyElement `xml:",any"`
}

type propertyElement struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// Parser extracts version properties from a project file. The document is
// parsed once; later calls to Load reuse the parsed property groups.
type Parser struct {
	loaded bool
	groups []propertyGroup
	fields Fields
}

// NewParser returns an empty Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Load parses doc and extracts props, or every known property when props is
// empty. The document is validated even when no property is requested.
func (p *Parser) Load(doc string, props ...Property) error {
	if err := p.loadPropertyGroups(doc); err != nil {
		return err
	}
	if len(props) == 0 {
		props = AllProperties
	}
	for _, prop := range props {
		p.load(prop)
	}
	return nil
}

// Fields returns the values extracted so far.
func (p *Parser) Fields() Fields {
	return p.fields
}

func (p *Parser) load(prop Property) {
	value, _ := p.lookup(prop)
	switch prop {
	case Title:
		if value == "" {
			value, _ = p.lookup(PackageID)
		}
		p.fields.PackageName = value
	case PackageID:
		if p.fields.PackageName == "" {
			p.fields.PackageName = value
		}
	case Version:
		p.fields.Version = value
	case PackageVersion:
		p.fields.PackageVersion = value
	case VersionPrefix:
		p.fields.VersionPrefix = value
	case VersionSuffix:
		p.fields.VersionSuffix = value
	}
}

func (p *Parser) lookup(prop Property) (string, bool) {
	for _, group := range p.groups {
		el, ok := lo.Find(group.Properties, func(el propertyElement) bool {
			return el.XMLName.Local == string(prop)
		})
		if ok {
			return strings.TrimSpace(el.Value), true
		}
	}
	return "", false
}

func (p *Parser) loadPropertyGroups(doc string) error {
	if p.loaded {
		return nil
	}
	var project projectDocument
	if err := xml.Unmarshal([]byte(strings.TrimPrefix(doc, "\uFEFF")), &project); err != nil {
		return errors.Mark(errors.Wrap(err, "the provided project file is not well formed"), ErrMalformedManifest)
	}
	if project.XMLName.Local != "Project" {
		return errors.Mark(
			errors.Newf("the provided project file seems malformed - no <Project> in the root (found <%s>)", project.XMLName.Local),
			ErrMalformedManifest,
		)
	}
	p.groups = project.PropertyGroups
	p.loaded = true
	return nil
}
