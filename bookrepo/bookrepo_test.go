package bookrepo

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDecodesBookConfig(t *testing.T) {
	profilesDir := t.TempDir()
	bookDir := filepath.Join(profilesDir, "lfs")
	if err := os.MkdirAll(bookDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "repo_path: https://example.com/lfs.git\nversion: v12.0\nrev: abc123\nmake_command: \"make -C ${book_dir} build\"\noutput_file: lfs.xml\n"
	if err := os.WriteFile(filepath.Join(bookDir, "book.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(profilesDir, "lfs")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RepoPath != "https://example.com/lfs.git" || cfg.Version != "v12.0" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadFailsWhenBookConfigMissing(t *testing.T) {
	if _, err := Load(t.TempDir(), "ghost"); err == nil {
		t.Error("expected an error for a missing book.yaml")
	}
}

// Install shells out to git and make; without a real remote or git repo
// present it necessarily fails at the clone/pull step, but that failure
// must still surface as a wrapped error rather than a panic or silent
// success, which is what this test actually checks.
func TestInstallFailsWithoutARealRepo(t *testing.T) {
	profilesDir := t.TempDir()
	bookDir := filepath.Join(profilesDir, "lfs")
	if err := os.MkdirAll(bookDir, 0o755); err != nil {
		t.Fatal(err)
	}
	buildDir := t.TempDir()
	content := "repo_path: /nonexistent/lfs.git\nversion: HEAD\nrev: abc123\nmake_command: \"true\"\noutput_file: lfs.xml\n"
	if err := os.WriteFile(filepath.Join(bookDir, "book.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err := Install(context.Background(), buildDir, profilesDir, "lfs", &out)
	if err == nil {
		t.Error("expected an error cloning a nonexistent repo")
	}
}
