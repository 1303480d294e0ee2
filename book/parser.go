package book

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Key identifies a record by its slugged (chapter, section) pair.
type Key struct {
	Chapter string
	Section string
}

// Parser turns an XML book plus a mapping spec into package records.
type Parser struct {
	spec *MappingSpec
	doc  *xmlquery.Node
}

// NewParser parses bookXML against spec. A malformed document is a fatal
// configuration error.
func NewParser(spec *MappingSpec, bookXML []byte) (*Parser, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(bookXML))
	if err != nil {
		return nil, fmt.Errorf("parsing book XML: %w", err)
	}
	return &Parser{spec: spec, doc: doc}, nil
}

// Result is the output of a full parse: the ordered list of records (in
// document order, for deterministic file naming) and the keyed lookup map
// the Resolver, Scripter, and Executer consult.
type Result struct {
	Ordered []*Record
	ByKey   map[Key]*Record
	Fields  map[Key]*OrderedMap // raw ordered field set per record, for serialization
}

// Parse runs the single top-level iteration: the mapping spec's first
// declared section is matched against the whole document, and every matched
// node yields one record, built recursively through that section's childN
// embeds. Every other section is only ever visited as an embed target.
func (p *Parser) Parse() (*Result, error) {
	if len(p.spec.Sections) == 0 {
		return nil, fmt.Errorf("mapping spec declares no sections")
	}
	top := p.spec.Sections[0]

	nodes, err := xmlquery.QueryAll(p.doc, top.XPath)
	if err != nil {
		return nil, fmt.Errorf("top section %q: invalid xpath %q: %w", top.Name, top.XPath, err)
	}

	res := &Result{ByKey: make(map[Key]*Record), Fields: make(map[Key]*OrderedMap)}
	for i, node := range nodes {
		index := i + 1
		fields, err := p.buildSection(top.Name, node, nil, index)
		if err != nil {
			return nil, fmt.Errorf("top section item %d: %w", index, err)
		}

		record, err := toRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("top section item %d: %w", index, err)
		}

		key := Key{Chapter: Slug(record.ChapterID), Section: Slug(record.SectionID)}
		if _, exists := res.ByKey[key]; exists {
			return nil, fmt.Errorf("ambiguous top-level match: duplicate record key (%s, %s)", key.Chapter, key.Section)
		}

		res.ByKey[key] = record
		res.Fields[key] = fields
		res.Ordered = append(res.Ordered, record)
	}

	return res, nil
}

// FileName returns the sanitized file name for a serialized record, derived
// from the first two fields resolved for it (by declaration order), per the
// "file-named from the first two resolved fields" output rule.
func FileName(fields *OrderedMap) string {
	keys := fields.Keys()
	first, second := "unknown", "unknown"
	if len(keys) > 0 {
		if v := fields.GetString(keys[0]); v != "" {
			first = v
		}
	}
	if len(keys) > 1 {
		if v := fields.GetString(keys[1]); v != "" {
			second = v
		}
	}
	return fmt.Sprintf("%s-%s.yaml", Slug(first), Slug(second))
}

// buildSection evaluates every key of the named section relative to node,
// in declared order, substituting {k}/{xpath_index} placeholders as it goes
// so later keys can reference earlier ones within the same section.
func (p *Parser) buildSection(name string, node *xmlquery.Node, parent *OrderedMap, index int) (*OrderedMap, error) {
	section, ok := p.spec.Section(name)
	if !ok {
		return nil, fmt.Errorf("unknown section %q referenced", name)
	}

	fields := NewOrderedMap()
	for _, key := range section.Keys {
		if key.IsChild {
			for _, childName := range key.ChildSections {
				val, err := p.embedChild(childName, node, fields, index)
				if err != nil {
					return nil, fmt.Errorf("key %s: %w", key.Name, err)
				}
				fields.Set(childName, val)
			}
			continue
		}

		declared := p.spec.ResolveXPath(name, key.Name, key.XPath)
		resolved := substitutePlaceholders(declared, fields, parent, index)
		val, err := evalXPath(node, resolved)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key.Name, err)
		}
		fields.Set(key.Name, val)
	}

	if err := applyNameVersionSplit(section, node, fields, parent, index); err != nil {
		return nil, fmt.Errorf("section %q: %w", name, err)
	}

	return fields, nil
}

// embedChild evaluates childName's base xpath relative to node and builds
// one nested ordered map per matched node, returning the embed as a list of
// maps regardless of match count (0, 1, or many) so downstream code always
// sees a list shape for embedded sections such as "sources" or "patches".
// index is the top-level node's index, passed down unchanged so
// {xpath_index} means the same thing at every nesting depth.
func (p *Parser) embedChild(childName string, node *xmlquery.Node, parentFields *OrderedMap, index int) (Value, error) {
	child, ok := p.spec.Section(childName)
	if !ok {
		return Value{}, fmt.Errorf("unknown child section %q", childName)
	}

	nodes, err := xmlquery.QueryAll(node, child.XPath)
	if err != nil {
		return Value{}, fmt.Errorf("child section %q: invalid xpath %q: %w", childName, child.XPath, err)
	}

	var maps []*OrderedMap
	for i, n := range nodes {
		fields, err := p.buildSection(childName, n, parentFields, index)
		if err != nil {
			return Value{}, fmt.Errorf("child section %q item %d: %w", childName, i+1, err)
		}
		maps = append(maps, fields)
	}
	return ListMapValue(maps), nil
}

// applyNameVersionSplit implements the "name_version" post-processing rule:
// if the section yielded a name_version key, split it at the last "-" into
// (name, version), then re-evaluate any key whose declared XPath referenced
// {name} or {version} now that they are known.
func applyNameVersionSplit(section *SectionSpec, node *xmlquery.Node, fields *OrderedMap, parent *OrderedMap, index int) error {
	nv, ok := fields.Get("name_version")
	if !ok || nv.IsList || nv.IsListMap {
		return nil
	}
	name, version := splitNameVersion(nv.Scalar)
	fields.Set("name", ScalarValue(name))
	fields.Set("version", ScalarValue(version))

	for _, key := range section.Keys {
		if key.IsChild {
			continue
		}
		if !strings.Contains(key.XPath, "{name}") && !strings.Contains(key.XPath, "{version}") {
			continue
		}
		resolved := substitutePlaceholders(key.XPath, fields, parent, index)
		val, err := evalXPath(node, resolved)
		if err != nil {
			return fmt.Errorf("key %q (post name_version): %w", key.Name, err)
		}
		fields.Set(key.Name, val)
	}
	return nil
}

// splitNameVersion splits s at its last "-" into (name, version). If there
// is no "-", the whole string is the name and version is empty.
func splitNameVersion(s string) (string, string) {
	i := strings.LastIndex(s, "-")
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}

// toRecord extracts the well-known fields a Record exposes by contract from
// the raw ordered field set, leaving the full set available via Fields for
// serialization and template expansion.
func toRecord(fields *OrderedMap) (*Record, error) {
	r := &Record{
		ChapterID:  fields.GetString("chapter_id"),
		SectionID:  fields.GetString("section_id"),
		Name:       fields.GetString("name"),
		Version:    fields.GetString("version"),
		BuildOrder: fields.GetString("build_order"),
		Fields:     fields,
	}
	r.BuildInstructions = fields.GetList("build_instructions")

	if deps, ok := fields.Get("dependencies"); ok && deps.IsListMap {
		r.Dependencies = make(map[string][]string)
		for _, dm := range deps.ListMaps {
			for _, class := range dm.Keys() {
				r.Dependencies[class] = append(r.Dependencies[class], dm.GetList(class)...)
			}
		}
	}

	if pkgVal, ok := fields.Get("package"); ok && !pkgVal.IsList && !pkgVal.IsListMap {
		b := pkgVal.Scalar == "true" || pkgVal.Scalar == "1"
		if pkgVal.Scalar != "" {
			r.Package = &b
		}
	}
	r.ExecMode = fields.GetString("exec_mode")

	if r.SectionID == "" && r.ChapterID == "" {
		return nil, fmt.Errorf("record has neither chapter_id nor section_id")
	}
	return r, nil
}
