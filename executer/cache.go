package executer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CacheHit identifies where a cached archive was found: a local path repo,
// or an HTTP repo base URL.
type CacheHit struct {
	Repo    string
	IsHTTP  bool
}

// ProbeCache iterates repos in order, looking for pkgFile. A local repo
// hits when the archive file exists; an HTTP repo hits when a HEAD on the
// archive URL returns 200. The first hit wins.
func ProbeCache(ctx context.Context, repos []string, pkgFile string) (CacheHit, bool) {
	client := &http.Client{Timeout: 5 * time.Second}
	for _, repo := range repos {
		if strings.HasPrefix(repo, "http://") || strings.HasPrefix(repo, "https://") {
			url := strings.TrimRight(repo, "/") + "/" + pkgFile
			req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
			if err != nil {
				continue
			}
			resp, err := client.Do(req)
			if err != nil {
				continue
			}
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return CacheHit{Repo: repo, IsHTTP: true}, true
			}
			continue
		}
		if _, err := os.Stat(filepath.Join(repo, pkgFile)); err == nil {
			return CacheHit{Repo: repo}, true
		}
	}
	return CacheHit{}, false
}

// FetchCached resolves a cache hit to a local archive path plus its
// decoded sidecar metadata, downloading both the archive and the sidecar
// when the hit is an HTTP repo.
func FetchCached(ctx context.Context, hit CacheHit, pkgFile, downloadsDir string) (archivePath string, sidecar Sidecar, warning string, err error) {
	metaName := pkgFile + ".meta.json"

	if !hit.IsHTTP {
		archivePath = filepath.Join(hit.Repo, pkgFile)
		metaPath := filepath.Join(hit.Repo, metaName)
		sidecar, warning, err = readSidecar(metaPath)
		return archivePath, sidecar, warning, err
	}

	if err := os.MkdirAll(downloadsDir, 0o755); err != nil {
		return "", Sidecar{}, "", fmt.Errorf("creating downloads dir: %w", err)
	}
	archivePath = filepath.Join(downloadsDir, pkgFile)
	if err := downloadFile(ctx, strings.TrimRight(hit.Repo, "/")+"/"+pkgFile, archivePath); err != nil {
		return "", Sidecar{}, "", fmt.Errorf("downloading archive: %w", err)
	}

	metaPath := filepath.Join(downloadsDir, metaName)
	if err := downloadFile(ctx, strings.TrimRight(hit.Repo, "/")+"/"+metaName, metaPath); err != nil {
		return archivePath, Sidecar{}, fmt.Sprintf("sidecar metadata %s not found: %v", metaName, err), nil
	}
	sidecar, warning, err = readSidecar(metaPath)
	return archivePath, sidecar, warning, err
}

func readSidecar(path string) (Sidecar, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Sidecar{}, fmt.Sprintf("sidecar metadata %s missing", path), nil
	}
	var sc Sidecar
	if err := json.Unmarshal(raw, &sc); err != nil {
		return Sidecar{}, "", fmt.Errorf("decoding sidecar %s: %w", path, err)
	}
	return sc, "", nil
}

func downloadFile(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, resp.Body)
	return err
}
