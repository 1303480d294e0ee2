package executer

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// SafeExtract walks archive's members and, for every non-symlink,
// non-hardlink entry, verifies the resolved extraction path stays under
// target before delegating the actual extraction to the system tar binary
// (which natively preserves symlink/hardlink semantics this package does
// not attempt to reimplement).
func SafeExtract(archivePath, target string) error {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolving target: %w", err)
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	r, err := decompressor(f, archivePath)
	if err != nil {
		return fmt.Errorf("opening archive stream: %w", err)
	}
	tr := tar.NewReader(r)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}
		if hdr.Typeflag == tar.TypeSymlink || hdr.Typeflag == tar.TypeLink {
			continue
		}
		rel := stripLeadingSlash(hdr.Name)
		memberPath, err := filepath.Abs(filepath.Join(absTarget, rel))
		if err != nil {
			return fmt.Errorf("resolving member path: %w", err)
		}
		if memberPath != absTarget && !strings.HasPrefix(memberPath, absTarget+string(os.PathSeparator)) {
			return fmt.Errorf("SECURITY ERROR: illegal path in archive %s -> %s", archivePath, hdr.Name)
		}
	}

	return extractWithSystemTar(archivePath, target)
}

// archiveHasMetadataMember reports whether archivePath's tar stream contains
// a "_metadata/..." member, per the embedded metadata file § EXTERNAL
// INTERFACES requires every built archive to carry.
func archiveHasMetadataMember(archivePath string) (bool, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return false, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	r, err := decompressor(f, archivePath)
	if err != nil {
		return false, fmt.Errorf("opening archive stream: %w", err)
	}
	tr := tar.NewReader(r)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return false, fmt.Errorf("reading archive: %w", err)
		}
		if strings.HasPrefix(stripLeadingSlash(hdr.Name), "_metadata/") {
			return true, nil
		}
	}
	return false, nil
}

func decompressor(f *os.File, path string) (io.Reader, error) {
	switch {
	case strings.HasSuffix(path, ".tar.gz") || strings.HasSuffix(path, ".tgz"):
		return gzip.NewReader(f)
	case strings.HasSuffix(path, ".tar.xz"):
		return xz.NewReader(f)
	default:
		return f, nil
	}
}

func extractWithSystemTar(archivePath, target string) error {
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("creating extraction target: %w", err)
	}
	cmd := exec.Command("tar",
		"--extract",
		"--file", archivePath,
		"--directory", target,
		"--preserve-permissions",
		"--keep-directory-symlink",
		"--delay-directory-restore",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("tar extract failed: %w: %s", err, out)
	}
	return nil
}
