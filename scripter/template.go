package scripter

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/wiigelec/skw/book"
)

// placeholderPattern matches {{dotted.key}} tokens; the captured group is
// split on "." and walked against the record's field map.
var placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// SelectTemplate picks the template content for rec: package name match,
// then section-id match, then chapter-id match, then the configured
// default. A configured-but-missing override template falls back to the
// default with a warning rather than failing the whole run.
func SelectTemplate(cfg *Config, templatesDir string, rec *book.Record) (content string, warning string, err error) {
	file := cfg.DefaultTemplate
	if s, ok := cfg.Chapters[rec.ChapterID]; ok && s.Template != "" {
		file = s.Template
	}
	if s, ok := cfg.Sections[rec.SectionID]; ok && s.Template != "" {
		file = s.Template
	}
	if s, ok := cfg.Packages[rec.Name]; ok && s.Template != "" {
		file = s.Template
	}

	path := filepath.Join(templatesDir, file)
	raw, readErr := os.ReadFile(path)
	if readErr == nil {
		return string(raw), "", nil
	}
	if file == cfg.DefaultTemplate {
		return "", "", fmt.Errorf("default template not found: %s", path)
	}

	defaultPath := filepath.Join(templatesDir, cfg.DefaultTemplate)
	raw, readErr = os.ReadFile(defaultPath)
	if readErr != nil {
		return "", "", fmt.Errorf("template %q not found and default template %q also missing: %w", path, defaultPath, readErr)
	}
	return string(raw), fmt.Sprintf("template %s not found, falling back to default", path), nil
}

// ExpandTemplate substitutes every {{dotted.key}} placeholder in content
// against rec.Fields. Lists join with single spaces, except the exact key
// "build_instructions" which joins with newlines; an unresolvable path
// expands to the empty string.
func ExpandTemplate(rec *book.Record, content string) string {
	return placeholderPattern.ReplaceAllStringFunc(content, func(match string) string {
		key := strings.TrimSuffix(strings.TrimPrefix(match, "{{"), "}}")
		v, ok := lookupPath(rec.Fields, strings.Split(key, "."))
		if !ok {
			return ""
		}
		return renderValue(key, v)
	})
}

func lookupPath(fields *book.OrderedMap, parts []string) (book.Value, bool) {
	if len(parts) == 0 {
		return book.Value{}, false
	}
	v, ok := fields.Get(parts[0])
	if !ok {
		return book.Value{}, false
	}
	return descend(v, parts[1:])
}

func descend(v book.Value, parts []string) (book.Value, bool) {
	if len(parts) == 0 {
		return v, true
	}
	if !v.IsListMap {
		return book.Value{}, false
	}
	idx, err := strconv.Atoi(parts[0])
	if err != nil || idx < 0 || idx >= len(v.ListMaps) {
		return book.Value{}, false
	}
	rest := parts[1:]
	if len(rest) == 0 {
		return book.Value{}, false
	}
	next, ok := v.ListMaps[idx].Get(rest[0])
	if !ok {
		return book.Value{}, false
	}
	return descend(next, rest[1:])
}

func renderValue(fullKey string, v book.Value) string {
	if v.IsListMap {
		return ""
	}
	if v.IsList {
		if fullKey == "build_instructions" {
			return strings.Join(v.List, "\n")
		}
		return strings.Join(v.List, " ")
	}
	return v.Scalar
}
