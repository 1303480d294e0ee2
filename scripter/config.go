package scripter

// Filter is an include/exclude allow-list pair for one identity dimension
// (chapter, section, or package name). An empty Include means "no
// restriction"; a non-empty Exclude always wins over Include.
type Filter struct {
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

func (f Filter) allows(ident string) bool {
	if ident == "" {
		return true
	}
	if len(f.Include) > 0 && !contains(f.Include, ident) {
		return false
	}
	if contains(f.Exclude, ident) {
		return false
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Scoped holds the per-identity overrides (chapter_id, section_id, or
// package name as the map key) that a record can pick up on top of the
// global defaults: its own template and its own ordered regex rules.
type Scoped struct {
	Template string   `yaml:"template,omitempty"`
	Regex    []string `yaml:"regex,omitempty"`
}

// Config is the decoded shape of a profile's scripter.yaml.
type Config struct {
	DefaultTemplate string   `yaml:"default_template"`
	Target          string   `yaml:"target"`
	IncludeClasses  []string `yaml:"include_classes"`
	AliasFile       string   `yaml:"alias_file"`

	GlobalRegex []string `yaml:"global_regex,omitempty"`

	ChapterFilters Filter `yaml:"chapter_filters"`
	SectionFilters Filter `yaml:"section_filters"`
	PackageFilters Filter `yaml:"package_filters"`

	Chapters map[string]Scoped `yaml:"chapters,omitempty"`
	Sections map[string]Scoped `yaml:"sections,omitempty"`
	Packages map[string]Scoped `yaml:"packages,omitempty"`
}

func (c *Config) scopedFor(chapterID, sectionID, name string) []Scoped {
	var out []Scoped
	if s, ok := c.Chapters[chapterID]; ok && chapterID != "" {
		out = append(out, s)
	}
	if s, ok := c.Sections[sectionID]; ok && sectionID != "" {
		out = append(out, s)
	}
	if s, ok := c.Packages[name]; ok && name != "" {
		out = append(out, s)
	}
	return out
}
