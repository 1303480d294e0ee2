package scripter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wiigelec/skw/book"
	"github.com/wiigelec/skw/resolver"
)

// Script is one written script file: its path, the record it was generated
// for, and its 1-based position in the final build order.
type Script struct {
	Path   string
	Record *book.Record
	Order  int
}

// Generate empties outputDir, selects and orders the records that pass the
// configured filters, renders each through its template, and writes the
// resulting scripts at mode 0755. It returns the scripts written (in build
// order) plus every non-fatal warning collected along the way.
func Generate(cfg *Config, templatesDir, outputDir string, records []*book.Record, aliases AliasTable, depClasses resolver.DepClasses) ([]Script, []string, error) {
	var warnings []string
	warn := func(s string) { warnings = append(warnings, s) }

	if err := resetDir(outputDir); err != nil {
		return nil, warnings, fmt.Errorf("preparing script directory: %w", err)
	}

	selected := make([]*book.Record, 0, len(records))
	for _, r := range records {
		if selectable(cfg, r) {
			selected = append(selected, r)
		}
	}

	var ordered []*book.Record
	if usesLinearMode(selected) {
		warn(fmt.Sprintf("linear mode active - %d entries ordered by build_order", len(selected)))
		ordered = linearOrder(selected)
	} else {
		warn("no build_order fields detected - switching to dependency mode")
		var err error
		ordered, err = dependencyOrder(cfg, selected, aliases, depClasses, warn)
		if err != nil {
			return nil, warnings, fmt.Errorf("dependency-mode ordering: %w", err)
		}
	}

	scripts := make([]Script, 0, len(ordered))
	for i, rec := range ordered {
		content, tmplWarn, err := SelectTemplate(cfg, templatesDir, rec)
		if err != nil {
			return nil, warnings, fmt.Errorf("record %s/%s: %w", rec.ChapterID, rec.SectionID, err)
		}
		if tmplWarn != "" {
			warn(tmplWarn)
		}

		content = ExpandTemplate(rec, content)
		content = ApplyRegex(cfg, rec, content, warn)

		order := i + 1
		fileName := fmt.Sprintf("%04d_%s.sh", order, rec.ScriptSlug())
		path := filepath.Join(outputDir, fileName)
		if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
			return nil, warnings, fmt.Errorf("writing %s: %w", path, err)
		}
		scripts = append(scripts, Script{Path: path, Record: rec, Order: order})
	}

	return scripts, warnings, nil
}

func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}
