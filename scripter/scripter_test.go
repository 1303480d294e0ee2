package scripter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wiigelec/skw/book"
)

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing template %s: %v", name, err)
	}
}

func TestGenerateLinearModeWritesExecutableScripts(t *testing.T) {
	templatesDir := t.TempDir()
	outputDir := t.TempDir()
	writeTemplate(t, templatesDir, "default.sh", "#!/bin/bash\nbuild {{name}}-{{version}}\n")

	fieldsFor := func(name, version string) *book.OrderedMap {
		m := book.NewOrderedMap()
		m.Set("name", book.ScalarValue(name))
		m.Set("version", book.ScalarValue(version))
		return m
	}
	records := []*book.Record{
		{ChapterID: "toolchain", SectionID: "binutils-pass1", Name: "binutils", Version: "2.40", BuildOrder: "0001", Fields: fieldsFor("binutils", "2.40")},
		{ChapterID: "toolchain", SectionID: "gcc-pass1", Name: "gcc", Version: "12.2.0", BuildOrder: "0002", Fields: fieldsFor("gcc", "12.2.0")},
	}
	cfg := &Config{DefaultTemplate: "default.sh"}

	scripts, _, err := Generate(cfg, templatesDir, outputDir, records, nil, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(scripts) != 2 {
		t.Fatalf("got %d scripts, want 2", len(scripts))
	}
	if !strings.HasSuffix(scripts[0].Path, "0001_toolchain_binutils-pass1.sh") {
		t.Errorf("first script path = %s", scripts[0].Path)
	}
	if !strings.HasSuffix(scripts[1].Path, "0002_toolchain_gcc-pass1.sh") {
		t.Errorf("second script path = %s", scripts[1].Path)
	}

	info, err := os.Stat(scripts[0].Path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}

	content, err := os.ReadFile(scripts[0].Path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(content), "build binutils-2.40") {
		t.Errorf("content = %q", content)
	}
}

func TestGenerateEmptiesOutputDirFirst(t *testing.T) {
	templatesDir := t.TempDir()
	outputDir := t.TempDir()
	writeTemplate(t, templatesDir, "default.sh", "noop\n")
	stale := filepath.Join(outputDir, "0001_stale_stale.sh")
	if err := os.WriteFile(stale, []byte("old"), 0o755); err != nil {
		t.Fatalf("seed stale file: %v", err)
	}

	records := []*book.Record{
		{ChapterID: "c", SectionID: "s", Name: "s", Version: "1", BuildOrder: "0001", Fields: book.NewOrderedMap()},
	}
	cfg := &Config{DefaultTemplate: "default.sh"}

	if _, _, err := Generate(cfg, templatesDir, outputDir, records, nil, nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("expected stale script to be removed, stat err = %v", err)
	}
}

func TestGenerateFiltersOutExcludedRecords(t *testing.T) {
	templatesDir := t.TempDir()
	outputDir := t.TempDir()
	writeTemplate(t, templatesDir, "default.sh", "noop\n")

	records := []*book.Record{
		{ChapterID: "c", SectionID: "keep", Name: "keep", Version: "1", BuildOrder: "0001", Fields: book.NewOrderedMap()},
		{ChapterID: "c", SectionID: "drop", Name: "drop", Version: "1", BuildOrder: "0002", Fields: book.NewOrderedMap()},
	}
	cfg := &Config{DefaultTemplate: "default.sh", PackageFilters: Filter{Exclude: []string{"drop"}}}

	scripts, _, err := Generate(cfg, templatesDir, outputDir, records, nil, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(scripts) != 1 || scripts[0].Record.Name != "keep" {
		t.Fatalf("unexpected scripts: %+v", scripts)
	}
}

// Scenario A (linear mode): script filenames are keyed on chapter/section,
// not on package name/version.
func TestGenerateNamesScriptsByChapterAndSection(t *testing.T) {
	templatesDir := t.TempDir()
	outputDir := t.TempDir()
	writeTemplate(t, templatesDir, "default.sh", "noop\n")

	records := []*book.Record{
		{ChapterID: "c1", SectionID: "s1", Name: "foo", Version: "1.0", BuildOrder: "0001", Fields: book.NewOrderedMap()},
		{ChapterID: "c1", SectionID: "s2", Name: "bar", Version: "2.0", BuildOrder: "0002", Fields: book.NewOrderedMap()},
	}
	cfg := &Config{DefaultTemplate: "default.sh"}

	scripts, _, err := Generate(cfg, templatesDir, outputDir, records, nil, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(scripts) != 2 {
		t.Fatalf("got %d scripts, want 2", len(scripts))
	}
	if !strings.HasSuffix(scripts[0].Path, "0001_c1_s1.sh") {
		t.Errorf("first script path = %s, want suffix 0001_c1_s1.sh", scripts[0].Path)
	}
	if !strings.HasSuffix(scripts[1].Path, "0002_c1_s2.sh") {
		t.Errorf("second script path = %s, want suffix 0002_c1_s2.sh", scripts[1].Path)
	}
}
