package executer

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/wiigelec/skw/book"
)

// Metadata is the record embedded at "_metadata/{name}--{version}.json"
// inside every built archive, per § EXTERNAL INTERFACES.
type Metadata struct {
	PackageName    string   `json:"package_name"`
	PackageVersion string   `json:"package_version"`
	Book           string   `json:"book"`
	Profile        string   `json:"profile"`
	ChapterID      string   `json:"chapter_id"`
	SectionID      string   `json:"section_id"`
	ExecMode       string   `json:"exec_mode"`
	BuildDate      string   `json:"build_date"`
	Hostname       string   `json:"hostname"`
	Files          []string `json:"files"`
}

// Sidecar mirrors Metadata and adds the sha256 used for cache integrity
// verification; it lives alongside the archive as "<archive>.meta.json".
type Sidecar struct {
	Metadata
	SHA256 string `json:"sha256"`
}

func buildMetadata(rec *book.Record, cfg *Config, execMode, hostname string, files []string, now time.Time) Metadata {
	return Metadata{
		PackageName:    rec.Name,
		PackageVersion: rec.Version,
		Book:           cfg.Book,
		Profile:        cfg.Profile,
		ChapterID:      rec.ChapterID,
		SectionID:      rec.SectionID,
		ExecMode:       execMode,
		BuildDate:      now.UTC().Format("2006-01-02T15:04:05") + "Z",
		Hostname:       hostname,
		Files:          files,
	}
}

// listFiles returns every non-directory entry under root (regular files and
// symlinks alike), relative to root.
func listFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	return files, err
}

// CreateArchive writes destdir's contents (rooted at "/") as pkgPath, a
// tar/tar.gz/tar.xz stream chosen by cfg.PackageFormat, after first writing
// the embedded metadata file into destdir. It returns the sidecar metadata
// (including the archive's sha256) so the caller can write and optionally
// sign the ".meta.json" sidecar.
func CreateArchive(cfg *Config, destdir, pkgPath string, rec *book.Record, execMode string, now time.Time) (Sidecar, error) {
	hostname, _ := os.Hostname()
	files, err := listFiles(destdir)
	if err != nil {
		return Sidecar{}, fmt.Errorf("listing destdir contents: %w", err)
	}

	meta := buildMetadata(rec, cfg, execMode, hostname, files, now)
	metaDir := filepath.Join(destdir, "_metadata")
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		return Sidecar{}, fmt.Errorf("creating _metadata dir: %w", err)
	}
	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return Sidecar{}, fmt.Errorf("marshaling metadata: %w", err)
	}
	metaPath := filepath.Join(metaDir, fmt.Sprintf("%s--%s.json", rec.Name, rec.Version))
	if err := os.WriteFile(metaPath, metaBytes, 0o644); err != nil {
		return Sidecar{}, fmt.Errorf("writing embedded metadata: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(pkgPath), 0o755); err != nil {
		return Sidecar{}, fmt.Errorf("creating package directory: %w", err)
	}
	if err := writeTar(destdir, pkgPath, cfg.PackageFormat); err != nil {
		return Sidecar{}, fmt.Errorf("writing archive: %w", err)
	}

	sum, err := sha256File(pkgPath)
	if err != nil {
		return Sidecar{}, fmt.Errorf("hashing archive: %w", err)
	}

	// listFiles was taken before the embedded metadata file existed; the
	// archive itself (and thus its file list) includes "_metadata/...".
	files = append(files, filepath.Join("_metadata", filepath.Base(metaPath)))
	meta.Files = files

	return Sidecar{Metadata: meta, SHA256: sum}, nil
}

func writeTar(srcRoot, outPath, format string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.WriteCloser = nopCloser{f}
	switch format {
	case "tar":
		// plain
	case "tar.gz":
		w = gzip.NewWriter(f)
	case "tar.xz":
		xw, err := xz.NewWriter(f)
		if err != nil {
			return err
		}
		w = xw
	default:
		return fmt.Errorf("unknown package format %q", format)
	}

	tw := tar.NewWriter(w)
	if err := addTree(tw, srcRoot); err != nil {
		tw.Close()
		w.Close()
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return w.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// addTree writes every entry under root into tw, rooted at "/" (arcname
// semantics: the archive's top level is root's contents, not root itself).
func addTree(tw *tar.Writer, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		var link string
		if info.Mode()&os.ModeSymlink != 0 {
			link, err = os.Readlink(path)
			if err != nil {
				return err
			}
		}

		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		hdr.Name = "/" + filepath.ToSlash(rel)
		if info.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			src, err := os.Open(path)
			if err != nil {
				return err
			}
			defer src.Close()
			if _, err := io.Copy(tw, src); err != nil {
				return err
			}
		}
		return nil
	})
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func stripLeadingSlash(name string) string {
	return strings.TrimPrefix(name, "/")
}
