package executer

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/wiigelec/skw/book"
)

// ResolveExtractTarget picks the extraction root for rec: the chroot
// directory in chroot mode, or a per-package/section/chapter override
// falling back to the configured default in host mode.
func ResolveExtractTarget(cfg *Config, rec *book.Record, execMode string) string {
	if execMode == ModeChroot {
		return cfg.ChrootDir
	}
	return cfg.ExtractTargets.resolve(rec.Name, rec.SectionID, rec.ChapterID, cfg.DefaultExtractDir)
}

// ConfirmRootInstall runs the interactive "installing into /" prompt when
// the resolved target is literally "/" and confirmation is required. confirm
// reads a single line of user input; it is injected so tests can simulate it.
func ConfirmRootInstall(target string, cfg *Config, confirm func() (string, error)) error {
	if target != "/" || !cfg.RequireConfirmRoot || cfg.AutoConfirm {
		return nil
	}
	answer, err := confirm()
	if err != nil {
		return fmt.Errorf("reading confirmation: %w", err)
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer != "y" && answer != "yes" {
		return fmt.Errorf("aborted: installation into / not confirmed")
	}
	return nil
}

// UploadPackage publishes archivePath (plus its ".meta.json" sidecar) to
// cfg.UploadRepo: an scp target ("host:path") is scp'd, a plain path is
// copied locally (skipped when source and destination are the same file).
// An http:// upload target is rejected outright.
func UploadPackage(cfg *Config, archivePath string) error {
	repo := cfg.UploadRepo
	if strings.HasPrefix(repo, "http://") || strings.HasPrefix(repo, "https://") {
		return fmt.Errorf("upload_repo cannot be an HTTP URL: %s", repo)
	}
	if strings.Contains(repo, "${") {
		return fmt.Errorf("unresolved variable in upload_repo: %s", repo)
	}

	metaPath := archivePath + ".meta.json"
	if isSCPTarget(repo) {
		if err := exec.Command("scp", archivePath, repo).Run(); err != nil {
			return fmt.Errorf("scp archive: %w", err)
		}
		if err := exec.Command("scp", metaPath, repo).Run(); err != nil {
			return fmt.Errorf("scp sidecar metadata: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(repo, 0o755); err != nil {
		return fmt.Errorf("creating upload directory: %w", err)
	}
	if err := copyIfDifferent(archivePath, filepath.Join(repo, filepath.Base(archivePath))); err != nil {
		return fmt.Errorf("copying archive: %w", err)
	}
	if err := copyIfDifferent(metaPath, filepath.Join(repo, filepath.Base(metaPath))); err != nil {
		return fmt.Errorf("copying sidecar metadata: %w", err)
	}
	return nil
}

// isSCPTarget reports whether repo looks like "host:path" rather than a
// bare filesystem path. A single letter followed by ":" and a path
// separator is a Windows-style drive letter such as "C:\", not a host; a
// prefix containing a path separator before the colon is never a host.
func isSCPTarget(repo string) bool {
	i := strings.Index(repo, ":")
	if i <= 0 {
		return false
	}
	if i == 1 && len(repo) > 2 && (repo[2] == '\\' || repo[2] == '/') {
		return false
	}
	return !strings.ContainsAny(repo[:i], `/\`)
}

func copyIfDifferent(src, dst string) error {
	srcAbs, err := filepath.Abs(src)
	if err == nil {
		if dstAbs, err2 := filepath.Abs(dst); err2 == nil && srcAbs == dstAbs {
			return nil
		}
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}
