package executer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wiigelec/skw/book"
)

// Executer runs one generated script per record, in filename order,
// producing or installing a package archive for each.
type Executer struct {
	Config  *Config
	Records map[string]*book.Record // identity index, see BuildIdentityIndex
	Custom  map[string]*book.Record
	Log     *logrus.Entry

	// Confirm reads a single line of interactive confirmation when a
	// host-mode install targets "/". Defaults to reading stdin.
	Confirm func() (string, error)
}

// New builds an Executer from cfg, the full record set (indexed by
// BuildIdentityIndex), and the custom-table fallback, defaulting Confirm to
// a plain stdin read and Log to a bare logrus logger.
func New(cfg *Config, records []*book.Record, custom map[string]*book.Record) *Executer {
	return &Executer{
		Config:  cfg,
		Records: BuildIdentityIndex(records),
		Custom:  custom,
		Log:     logrus.NewEntry(logrus.New()),
		Confirm: readStdinConfirm,
	}
}

func readStdinConfirm() (string, error) {
	var line string
	_, err := fmt.Scanln(&line)
	return line, err
}

// RunAll executes every "*.sh" script under cfg.ScriptsDir, in lexical
// (= build) order, per SPEC §4.4's per-script loop.
func (e *Executer) RunAll(ctx context.Context) error {
	entries, err := os.ReadDir(e.Config.ScriptsDir)
	if err != nil {
		return fmt.Errorf("reading scripts directory: %w", err)
	}
	var scripts []string
	for _, ent := range entries {
		if !ent.IsDir() && strings.HasSuffix(ent.Name(), ".sh") {
			scripts = append(scripts, ent.Name())
		}
	}
	sort.Strings(scripts)

	for _, name := range scripts {
		if err := e.RunOne(ctx, name); err != nil {
			return fmt.Errorf("script %s: %w", name, err)
		}
	}
	return nil
}

// RunOne executes a single script, identified by its bare filename within
// cfg.ScriptsDir, through the full locate/decide/cache/run/package/install
// pipeline.
func (e *Executer) RunOne(ctx context.Context, scriptName string) error {
	_, identity, err := ParseScriptFilename(scriptName)
	if err != nil {
		return err
	}
	rec, err := LocateRecord(e.Records, e.Custom, identity)
	if err != nil {
		return err
	}

	execMode := ExecMode(e.Config, rec)
	makePackage := ShouldPackage(e.Config, rec)
	pkgFile, err := ArchiveName(e.Config, rec)
	if err != nil {
		return err
	}

	if hit, ok := ProbeCache(ctx, e.Config.DownloadRepos, pkgFile); ok {
		return e.installFromCache(ctx, hit, pkgFile, rec, execMode, scriptName)
	}

	scriptPath := filepath.Join(e.Config.ScriptsDir, scriptName)
	logWriter, logClose, err := e.openScriptLog(scriptName)
	if err != nil {
		return err
	}
	defer logClose()

	var destdir string
	if makePackage {
		destdir, err = e.stageDestdir(rec.Name, execMode)
		if err != nil {
			return err
		}
		defer os.RemoveAll(destdir)
	}

	rc, err := RunScript(ctx, execMode, scriptPath, e.Config.ScriptsDir, e.Config.ChrootDir, destdir, logWriter)
	if err != nil {
		return fmt.Errorf("running script: %w", err)
	}
	if rc != 0 {
		return fmt.Errorf("script %s failed with exit code %d", scriptName, rc)
	}
	if !makePackage {
		return nil
	}

	pkgPath := filepath.Join(e.Config.PackageDir, pkgFile)
	if err := e.runPrePackageHook(rec, destdir, pkgFile, execMode); err != nil {
		return err
	}

	sidecar, err := CreateArchive(e.Config, destdir, pkgPath, rec, execMode, time.Now())
	if err != nil {
		return err
	}
	if err := e.writeSidecar(pkgPath, sidecar); err != nil {
		return err
	}

	if hasMetadataMember, err := archiveHasMetadataMember(pkgPath); err != nil {
		return fmt.Errorf("inspecting archive %s: %w", pkgPath, err)
	} else if !hasMetadataMember {
		e.Log.Warnf("%s: archive %s has no embedded _metadata member", scriptName, pkgFile)
	}

	target := ResolveExtractTarget(e.Config, rec, execMode)
	if err := ConfirmRootInstall(target, e.Config, e.Confirm); err != nil {
		return err
	}
	if err := SafeExtract(pkgPath, target); err != nil {
		return err
	}
	if err := UploadPackage(e.Config, pkgPath); err != nil {
		return err
	}
	return nil
}

func (e *Executer) installFromCache(ctx context.Context, hit CacheHit, pkgFile string, rec *book.Record, execMode, scriptName string) error {
	archivePath, sidecar, warning, err := FetchCached(ctx, hit, pkgFile, e.Config.DownloadsDir)
	if err != nil {
		return fmt.Errorf("fetching cached archive: %w", err)
	}
	if warning != "" {
		e.Log.Warnf("%s: %s", scriptName, warning)
	}

	if sidecar.SHA256 != "" {
		sum, err := sha256File(archivePath)
		if err != nil {
			return fmt.Errorf("hashing cached archive %s: %w", archivePath, err)
		}
		if sum != sidecar.SHA256 {
			return fmt.Errorf("%s: sha256 mismatch for cached archive %s: sidecar says %s, archive is %s", scriptName, pkgFile, sidecar.SHA256, sum)
		}
	}

	if hasMetadataMember, err := archiveHasMetadataMember(archivePath); err != nil {
		return fmt.Errorf("inspecting cached archive %s: %w", archivePath, err)
	} else if !hasMetadataMember {
		e.Log.Warnf("%s: cached archive %s has no embedded _metadata member", scriptName, pkgFile)
	}

	target := ResolveExtractTarget(e.Config, rec, execMode)
	if err := ConfirmRootInstall(target, e.Config, e.Confirm); err != nil {
		return err
	}
	if err := SafeExtract(archivePath, target); err != nil {
		return err
	}
	e.Log.Infof("SKIPPED %s: installed cached %s", scriptName, pkgFile)
	return nil
}

func (e *Executer) stageDestdir(name, execMode string) (string, error) {
	var destdir string
	if execMode == ModeChroot {
		destdir = filepath.Join(e.Config.ChrootDir, "destdir", name)
	} else {
		destdir = filepath.Join(e.Config.BuildDir, "destdir", name)
	}
	if err := os.RemoveAll(destdir); err != nil {
		return "", fmt.Errorf("wiping staging directory: %w", err)
	}
	if err := os.MkdirAll(destdir, 0o755); err != nil {
		return "", fmt.Errorf("creating staging directory: %w", err)
	}
	return destdir, nil
}

func (e *Executer) openScriptLog(scriptName string) (f *os.File, closeFn func(), err error) {
	if err := os.MkdirAll(e.Config.LogsDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating logs directory: %w", err)
	}
	logPath := filepath.Join(e.Config.LogsDir, strings.TrimSuffix(scriptName, ".sh")+".log")
	f, err = os.Create(logPath)
	if err != nil {
		return nil, nil, fmt.Errorf("creating script log: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func (e *Executer) writeSidecar(pkgPath string, sidecar Sidecar) error {
	raw, err := json.MarshalIndent(sidecar, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling sidecar metadata: %w", err)
	}
	sidecarPath := pkgPath + ".meta.json"
	if err := os.WriteFile(sidecarPath, raw, 0o644); err != nil {
		return fmt.Errorf("writing sidecar metadata: %w", err)
	}
	if err := SignSidecar(e.Config, sidecarPath, raw); err != nil {
		return err
	}
	return nil
}

// runPrePackageHook invokes cfg.PrePackageHook, if configured, with the
// SKW_* environment variables described in § EXTERNAL INTERFACES. A hook
// is optional; its failure is always fatal.
func (e *Executer) runPrePackageHook(rec *book.Record, destdir, pkgFile, execMode string) error {
	if e.Config.PrePackageHook == "" {
		return nil
	}
	env := append(os.Environ(),
		"SKW_DESTDIR="+destdir,
		"SKW_PKG_FILE="+pkgFile,
		"SKW_EXEC_MODE="+execMode,
		"SKW_BOOK="+e.Config.Book,
		"SKW_PROFILE="+e.Config.Profile,
		"SKW_PACKAGE_DIR="+e.Config.PackageDir,
		"SKW_CHROOT_DIR="+e.Config.ChrootDir,
		"SKW_CHAPTER_ID="+rec.ChapterID,
		"SKW_SECTION_ID="+rec.SectionID,
		"SKW_PACKAGE_NAME="+rec.Name,
		"SKW_PACKAGE_VERSION="+rec.Version,
	)
	cmd := exec.Command(e.Config.PrePackageHook)
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pre-package hook %s: %w", e.Config.PrePackageHook, err)
	}
	return nil
}
