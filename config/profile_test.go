package config

import (
	"os"
	"path/filepath"
	"testing"
)

const testProfileYAML = `
book: lfs
paths:
  build_dir: /srv/build
  package_dir: ${build_dir}/packages
  profiles_dir: /srv/profiles
dep_classes:
  default: [required]
aliases:
  glib-2.82.5: glib
custom:
  extra_section:
    chapter_id: extra
    section_id: section
    name: glue-script
    version: "1.0"
    build_instructions:
      - "echo hello"
scripter:
  default_template: default.tmpl
  target: c
  include_classes: [required]
executer:
  package_name_template: "${name}-${version}"
  package_format: tar.xz
  scripts_dir: ${build_dir}/scripts
  package_dir: ${package_dir}
  download_repos:
    - ${build_dir}/cache
  upload_repo: ${build_dir}/packages
`

func writeTestProfile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	if err := os.WriteFile(path, []byte(testProfileYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDecodesAndExpandsProfile(t *testing.T) {
	p, err := Load(writeTestProfile(t), "default")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if p.Book != "lfs" {
		t.Errorf("Book = %q, want %q", p.Book, "lfs")
	}
	if p.Name != "default" {
		t.Errorf("Name = %q, want %q", p.Name, "default")
	}
	if p.Paths.PackageDir != "/srv/build/packages" {
		t.Errorf("Paths.PackageDir = %q, want %q", p.Paths.PackageDir, "/srv/build/packages")
	}
	if p.Executer.ScriptsDir != "/srv/build/scripts" {
		t.Errorf("Executer.ScriptsDir = %q, want %q", p.Executer.ScriptsDir, "/srv/build/scripts")
	}
	if p.Executer.PackageDir != "/srv/build/packages" {
		t.Errorf("Executer.PackageDir = %q, want %q", p.Executer.PackageDir, "/srv/build/packages")
	}
	if p.Executer.Book != "lfs" || p.Executer.Profile != "default" {
		t.Errorf("Executer.Book/Profile = %q/%q, want lfs/default", p.Executer.Book, p.Executer.Profile)
	}
	if got := p.Aliases["glib-2.82.5"]; got != "glib" {
		t.Errorf("Aliases[glib-2.82.5] = %q, want %q", got, "glib")
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	if err := os.WriteFile(path, []byte("book: lfs\nbogus_field: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, "default"); err == nil {
		t.Error("expected an error for an unknown top-level field")
	}
}

func TestProfileCustomRecordsConvertsToBookRecords(t *testing.T) {
	p, err := Load(writeTestProfile(t), "default")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	records := p.CustomRecords()
	rec, ok := records["extra_section"]
	if !ok {
		t.Fatal("expected a custom record keyed \"extra_section\"")
	}
	if rec.Name != "glue-script" || rec.ChapterID != "extra" {
		t.Errorf("converted record = %+v, want name=glue-script chapter_id=extra", rec)
	}
	if len(rec.BuildInstructions) != 1 || rec.BuildInstructions[0] != "echo hello" {
		t.Errorf("BuildInstructions = %v", rec.BuildInstructions)
	}
	if rec.Fields == nil {
		t.Fatal("expected Fields to be populated, so template expansion doesn't nil-dereference a custom record")
	}
	if got := rec.Fields.GetString("name"); got != "glue-script" {
		t.Errorf("Fields[name] = %q, want %q", got, "glue-script")
	}
}
