package executer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wiigelec/skw/book"
)

func TestResolveExtractTargetChrootModeUsesChrootDir(t *testing.T) {
	cfg := &Config{ChrootDir: "/mnt/lfs", DefaultExtractDir: "/"}
	rec := &book.Record{Name: "foo"}
	if got := ResolveExtractTarget(cfg, rec, ModeChroot); got != "/mnt/lfs" {
		t.Errorf("target = %q, want %q", got, "/mnt/lfs")
	}
}

func TestResolveExtractTargetHostModeUsesPackageOverride(t *testing.T) {
	cfg := &Config{
		DefaultExtractDir: "/",
		ExtractTargets:    ExtractTargets{Packages: map[string]string{"foo": "/opt/foo"}},
	}
	rec := &book.Record{Name: "foo"}
	if got := ResolveExtractTarget(cfg, rec, ModeHost); got != "/opt/foo" {
		t.Errorf("target = %q, want %q", got, "/opt/foo")
	}
}

func TestConfirmRootInstallSkipsWhenTargetNotRoot(t *testing.T) {
	cfg := &Config{RequireConfirmRoot: true}
	err := ConfirmRootInstall("/opt/foo", cfg, func() (string, error) {
		t.Fatal("confirm should not be invoked for a non-root target")
		return "", nil
	})
	if err != nil {
		t.Fatalf("ConfirmRootInstall: %v", err)
	}
}

func TestConfirmRootInstallSkipsWhenAutoConfirmed(t *testing.T) {
	cfg := &Config{RequireConfirmRoot: true, AutoConfirm: true}
	err := ConfirmRootInstall("/", cfg, func() (string, error) {
		t.Fatal("confirm should not be invoked when auto-confirmed")
		return "", nil
	})
	if err != nil {
		t.Fatalf("ConfirmRootInstall: %v", err)
	}
}

func TestConfirmRootInstallAbortsOnDecline(t *testing.T) {
	cfg := &Config{RequireConfirmRoot: true}
	err := ConfirmRootInstall("/", cfg, func() (string, error) { return "n", nil })
	if err == nil {
		t.Error("expected an abort error on decline")
	}
}

func TestConfirmRootInstallProceedsOnYes(t *testing.T) {
	cfg := &Config{RequireConfirmRoot: true}
	err := ConfirmRootInstall("/", cfg, func() (string, error) { return "yes", nil })
	if err != nil {
		t.Fatalf("ConfirmRootInstall: %v", err)
	}
}

func TestUploadPackageRejectsHTTP(t *testing.T) {
	cfg := &Config{UploadRepo: "http://example.com/repo"}
	err := UploadPackage(cfg, "/tmp/foo-1.0.tar")
	if err == nil {
		t.Error("expected an error for an HTTP upload_repo")
	}
}

func TestUploadPackageCopiesLocally(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	archive := filepath.Join(srcDir, "foo-1.0.tar")
	if err := os.WriteFile(archive, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(archive+".meta.json", []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{UploadRepo: dstDir}
	if err := UploadPackage(cfg, archive); err != nil {
		t.Fatalf("UploadPackage: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dstDir, "foo-1.0.tar")); err != nil {
		t.Errorf("archive not copied: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dstDir, "foo-1.0.tar.meta.json")); err != nil {
		t.Errorf("sidecar not copied: %v", err)
	}
}

func TestIsSCPTarget(t *testing.T) {
	cases := map[string]bool{
		"user@host:/srv/repo":   true,
		"host:repo":             true,
		"/srv/local/repo":       false,
		"relative/path":         false,
		`C:\Users\me\repo`:      false,
	}
	for target, want := range cases {
		if got := isSCPTarget(target); got != want {
			t.Errorf("isSCPTarget(%q) = %v, want %v", target, got, want)
		}
	}
}

func TestUploadPackageRejectsUnresolvedVariable(t *testing.T) {
	cfg := &Config{UploadRepo: "${upload_repo}"}
	if err := UploadPackage(cfg, "/tmp/foo-1.0.tar"); err == nil {
		t.Fatal("expected an error for an unresolved ${...} token in upload_repo")
	}
}
