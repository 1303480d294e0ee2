package config

import (
	"bytes"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/wiigelec/skw/book"
	"github.com/wiigelec/skw/executer"
	"github.com/wiigelec/skw/resolver"
	"github.com/wiigelec/skw/scripter"
)

// CustomRecord is one entry of a profile's "custom" table: a package with
// no corresponding book entry, declared inline per SPEC_FULL.md §4.1's
// "Custom package injection".
type CustomRecord struct {
	ChapterID         string              `yaml:"chapter_id"`
	SectionID         string              `yaml:"section_id"`
	Name              string              `yaml:"name"`
	Version           string              `yaml:"version"`
	BuildOrder        string              `yaml:"build_order,omitempty"`
	BuildInstructions []string            `yaml:"build_instructions"`
	Dependencies      map[string][]string `yaml:"dependencies,omitempty"`
	Package           *bool               `yaml:"package,omitempty"`
	ExecMode          string              `yaml:"exec_mode,omitempty"`
}

// ToRecord converts a CustomRecord into the same *book.Record shape the
// Book Parser produces, so the Resolver, Scripter, and Executer need not
// know a record came from the custom table rather than the book.
func (c CustomRecord) ToRecord() *book.Record {
	fields := book.NewOrderedMap()
	fields.Set("chapter_id", book.ScalarValue(c.ChapterID))
	fields.Set("section_id", book.ScalarValue(c.SectionID))
	fields.Set("name", book.ScalarValue(c.Name))
	fields.Set("version", book.ScalarValue(c.Version))
	fields.Set("build_instructions", book.ListValue(c.BuildInstructions))

	return &book.Record{
		ChapterID:         c.ChapterID,
		SectionID:         c.SectionID,
		Name:              c.Name,
		Version:           c.Version,
		BuildOrder:        c.BuildOrder,
		BuildInstructions: c.BuildInstructions,
		Dependencies:      c.Dependencies,
		Package:           c.Package,
		ExecMode:          c.ExecMode,
		Fields:            fields,
	}
}

// Profile is the decoded shape of a single profile's configuration file:
// the dependency classes and aliases the Resolver consults, the custom
// package table, and the Scripter/Executer settings that drive the rest of
// the pipeline.
type Profile struct {
	Book string `yaml:"book"`
	Name string `yaml:"-"`

	Paths Paths `yaml:"paths"`

	DepClasses resolver.DepClasses     `yaml:"dep_classes"`
	Aliases    map[string]string       `yaml:"aliases"`
	Custom     map[string]CustomRecord `yaml:"custom"`

	Scripter scripter.Config `yaml:"scripter"`
	Executer executer.Config `yaml:"executer"`
}

// Load reads and decodes a profile YAML file at path, rejecting unknown
// fields, expands every
// "${var}" path/repo string it contains, and stamps the profile/book names
// the Executer needs onto its embedded executer.Config.
func Load(path, profileName string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", path, err)
	}

	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}

	p.Name = profileName
	p.Executer.Book = p.Book
	p.Executer.Profile = profileName

	expandAll(&p)
	return &p, nil
}

// CustomRecords converts the profile's custom table into the fallback map
// LocateRecord consults, keyed by the custom table's own keys.
func (p *Profile) CustomRecords() map[string]*book.Record {
	out := make(map[string]*book.Record, len(p.Custom))
	for key, c := range p.Custom {
		out[key] = c.ToRecord()
	}
	return out
}
