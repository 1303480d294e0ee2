package book

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// SectionKey is one entry of a section's ordered key table: either a scalar
// key (an XPath expression relative to the section's node) or a childN key
// (an ordered list of other section names to embed).
type SectionKey struct {
	Name          string
	IsChild       bool
	ChildSections []string // ordered, only set when IsChild
	XPath         string   // only set when !IsChild
}

// SectionSpec is one section of the mapping spec: its base XPath and its
// ordered table of keys (scalar extractions interleaved with childN embeds).
type SectionSpec struct {
	Name  string
	XPath string
	Keys  []SectionKey
}

// MappingSpec is the full ordered mapping specification: the declared
// sections (in document order) plus an optional global/per-section xpath
// override table. Only the first declared section is ever iterated at the
// top level (one record per matched node); every other section is visited
// solely as a childN embed target.
type MappingSpec struct {
	Sections    []*SectionSpec
	bySection   map[string]*SectionSpec
	Overrides   map[string]string // global overrides: key or dotted.path -> xpath ("" forces empty)
	SectOverride map[string]map[string]string // per-section overrides, same shape
}

// Section looks up a section spec by name.
func (m *MappingSpec) Section(name string) (*SectionSpec, bool) {
	s, ok := m.bySection[name]
	return s, ok
}

// ResolveXPath returns the XPath expression to use for key within section,
// applying the "most specific wins" override priority: per-section override
// beats global override beats the key's own declared XPath. A present but
// blank override forces the field empty (an empty XPath expression, which
// evaluates to "").
func (m *MappingSpec) ResolveXPath(section, key, declared string) string {
	if per, ok := m.SectOverride[section]; ok {
		if v, ok := per[key]; ok {
			return v
		}
	}
	if v, ok := m.Overrides[section+"."+key]; ok {
		return v
	}
	if v, ok := m.Overrides[key]; ok {
		return v
	}
	return declared
}

// LoadMappingSpec reads and parses a mapping spec file from path.
func LoadMappingSpec(path string) (*MappingSpec, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mapping spec %s: %w", path, err)
	}
	spec, err := ParseMappingSpec(content)
	if err != nil {
		return nil, fmt.Errorf("parsing mapping spec %s: %w", path, err)
	}
	return spec, nil
}

// ParseMappingSpec parses a mapping spec document, preserving declaration
// order of both sections and each section's keys.
func ParseMappingSpec(content []byte) (*MappingSpec, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty mapping spec")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("mapping spec root must be a mapping")
	}

	spec := &MappingSpec{
		bySection:    make(map[string]*SectionSpec),
		Overrides:    make(map[string]string),
		SectOverride: make(map[string]map[string]string),
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		val := root.Content[i+1]

		if name == "xpaths" {
			spec.Overrides = flattenOverrides(val)
			continue
		}

		section, overrides, err := parseSection(name, val)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", name, err)
		}
		spec.Sections = append(spec.Sections, section)
		spec.bySection[name] = section
		if len(overrides) > 0 {
			spec.SectOverride[name] = overrides
		}
	}

	return spec, nil
}

func parseSection(name string, val *yaml.Node) (*SectionSpec, map[string]string, error) {
	if val.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("must be a mapping")
	}
	s := &SectionSpec{Name: name}
	var overrides map[string]string

	for i := 0; i+1 < len(val.Content); i += 2 {
		key := val.Content[i].Value
		kv := val.Content[i+1]

		switch {
		case key == "xpath":
			s.XPath = kv.Value
		case strings.HasPrefix(key, "child"):
			var children []string
			if kv.Kind == yaml.SequenceNode {
				for _, c := range kv.Content {
					children = append(children, c.Value)
				}
			} else {
				children = append(children, kv.Value)
			}
			s.Keys = append(s.Keys, SectionKey{Name: key, IsChild: true, ChildSections: children})
		case key == "xpaths":
			overrides = flattenOverrides(kv)
		default:
			s.Keys = append(s.Keys, SectionKey{Name: key, XPath: kv.Value})
		}
	}
	return s, overrides, nil
}

func flattenOverrides(val *yaml.Node) map[string]string {
	out := make(map[string]string)
	flattenOverridesInto(out, "", val)
	return out
}

// flattenOverridesInto walks a possibly nested override table and records
// dotted-path keys, e.g. "source.url" for a nested "source: {url: ...}"
// override entry.
func flattenOverridesInto(out map[string]string, prefix string, val *yaml.Node) {
	if val == nil {
		return
	}
	if val.Kind == yaml.ScalarNode {
		out[prefix] = val.Value
		return
	}
	if val.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(val.Content); i += 2 {
		k := val.Content[i].Value
		v := val.Content[i+1]
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if v.Kind == yaml.MappingNode {
			flattenOverridesInto(out, path, v)
		} else {
			out[path] = v.Value
		}
	}
}
