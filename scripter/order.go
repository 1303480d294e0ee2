package scripter

import (
	"sort"
	"strings"

	"github.com/wiigelec/skw/book"
	"github.com/wiigelec/skw/resolver"
)

// AliasTable maps an alias name to the canonical record name it stands in
// for, as loaded from a profile's alias file.
type AliasTable map[string]string

// selectable reports whether rec passes the configured chapter/section/
// package include-exclude filters.
func selectable(cfg *Config, rec *book.Record) bool {
	return cfg.ChapterFilters.allows(rec.ChapterID) &&
		cfg.SectionFilters.allows(rec.SectionID) &&
		cfg.PackageFilters.allows(rec.Name)
}

// usesLinearMode reports whether every record in records carries a non-empty
// build_order, the condition that selects linear over dependency mode.
func usesLinearMode(records []*book.Record) bool {
	for _, r := range records {
		if strings.TrimSpace(r.BuildOrder) == "" {
			return false
		}
	}
	return len(records) > 0
}

// linearOrder sorts records by (build_order, chapter_id, section_id, name).
func linearOrder(records []*book.Record) []*book.Record {
	out := append([]*book.Record(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.BuildOrder != b.BuildOrder {
			return a.BuildOrder < b.BuildOrder
		}
		if a.ChapterID != b.ChapterID {
			return a.ChapterID < b.ChapterID
		}
		if a.SectionID != b.SectionID {
			return a.SectionID < b.SectionID
		}
		return a.Name < b.Name
	})
	return out
}

// canonicalizer resolves a raw dependency name to the record name space:
// an exact record-name match wins, then an alias-table match, then a
// prefix match against known record names, else the name is returned
// unchanged (the resolver will warn it as unknown).
func canonicalizer(records []*book.Record, aliases AliasTable) func(string) string {
	recordNames := make(map[string]bool, len(records))
	for _, r := range records {
		if r.Name != "" {
			recordNames[strings.ToLower(r.Name)] = true
		}
	}
	aliasLower := make(map[string]string, len(aliases))
	for alias, canonical := range aliases {
		aliasLower[strings.ToLower(alias)] = strings.ToLower(canonical)
	}

	return func(dep string) string {
		d := strings.ToLower(dep)
		if recordNames[d] {
			return d
		}
		if c, ok := aliasLower[d]; ok {
			return c
		}
		for n := range recordNames {
			if strings.HasPrefix(d, n) {
				return n
			}
		}
		return d
	}
}

// dependencyOrder resolves a build order by name via the resolver package,
// then matches resolved names back to records, tolerating alias and
// name-prefix matches the way the checkout this package descends from does.
// depClasses carries the profile's per-node class allow-lists (§4.2); a node
// with no entry of its own, and the "default" key itself when the caller
// left it unset, fall back to cfg.IncludeClasses.
func dependencyOrder(cfg *Config, records []*book.Record, aliases AliasTable, depClasses resolver.DepClasses, warn func(string)) ([]*book.Record, error) {
	byName := make(map[string]*book.Record, len(records))
	for _, r := range records {
		if r.Name != "" {
			byName[strings.ToLower(r.Name)] = r
		}
	}

	reverseAlias := make(map[string]string)
	for aliasKey, canonical := range aliases {
		reverseAlias[strings.ToLower(canonical)] = strings.ToLower(aliasKey)
	}
	for canonical, alias := range reverseAlias {
		if rec, ok := byName[canonical]; ok {
			if _, taken := byName[alias]; !taken {
				byName[alias] = rec
			}
			continue
		}
		for name, rec := range byName {
			if strings.HasPrefix(canonical, name) {
				if _, taken := byName[alias]; !taken {
					byName[alias] = rec
				}
				break
			}
		}
	}

	canon := canonicalizer(records, aliases)

	nodes := make([]resolver.Node, 0, len(records))
	for _, r := range records {
		if r.Name == "" {
			continue
		}
		deps := make(map[string][]string, len(r.Dependencies))
		for class, names := range r.Dependencies {
			translated := make([]string, len(names))
			for i, dep := range names {
				translated[i] = canon(dep)
			}
			deps[class] = translated
		}
		nodes = append(nodes, resolver.Node{Name: strings.ToLower(r.Name), Dependencies: deps})
	}

	classes := make(resolver.DepClasses, len(depClasses)+1)
	for node, allowed := range depClasses {
		classes[node] = allowed
	}
	if _, ok := classes["default"]; !ok {
		classes["default"] = cfg.IncludeClasses
	}

	res := resolver.New(nodes, classes)
	names, err := res.Resolve([]string{strings.ToLower(cfg.Target)})
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings() {
		if warn != nil {
			warn(w)
		}
	}

	out := make([]*book.Record, 0, len(names))
	for _, name := range names {
		if rec, ok := byName[strings.ToLower(name)]; ok {
			out = append(out, rec)
			continue
		}
		if warn != nil {
			warn("package '" + name + "' not found among parsed records")
		}
	}
	return out, nil
}
