package executer

import (
	"fmt"
	"regexp"

	"github.com/wiigelec/skw/book"
)

const (
	ModeHost   = "host"
	ModeChroot = "chroot"
)

// ExecMode resolves the execution mode for rec: an explicit per-record
// override wins, then the host include-lists, then the chroot
// include-lists, defaulting to host.
func ExecMode(cfg *Config, rec *book.Record) string {
	if rec.ExecMode == ModeHost || rec.ExecMode == ModeChroot {
		return rec.ExecMode
	}
	nameVersion := rec.Name + "-" + rec.Version
	if cfg.Host.matchesAny(rec.Name, nameVersion, rec.SectionID, rec.ChapterID) {
		return ModeHost
	}
	if cfg.Chroot.matchesAny(rec.Name, nameVersion, rec.SectionID, rec.ChapterID) {
		return ModeChroot
	}
	return ModeHost
}

// ShouldPackage resolves whether rec should be built into an archive: an
// explicit boolean override wins; otherwise the configured include/exclude
// lists decide, keyed by package name, name-version, section, or chapter.
func ShouldPackage(cfg *Config, rec *book.Record) bool {
	if rec.Package != nil {
		return *rec.Package
	}
	nameVersion := rec.Name + "-" + rec.Version
	included := cfg.PackageInclude.matchesAny(rec.Name, nameVersion, rec.SectionID, rec.ChapterID)
	excluded := cfg.PackageExclude.matchesAny(rec.Name, nameVersion, rec.SectionID, rec.ChapterID)
	return included && !excluded
}

var varTokenPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ArchiveName substitutes ${key} tokens in the package name template with
// rec's fields and appends ".{package_format}". A missing or empty
// substitution is fatal, matching the template's "fail fast" contract.
func ArchiveName(cfg *Config, rec *book.Record) (string, error) {
	var firstErr error
	name := varTokenPattern.ReplaceAllStringFunc(cfg.PackageNameTemplate, func(tok string) string {
		key := tok[2 : len(tok)-1]
		val := fieldValue(rec, key)
		if val == "" && firstErr == nil {
			firstErr = fmt.Errorf("missing or empty field %q for package name template", key)
		}
		return val
	})
	if firstErr != nil {
		return "", firstErr
	}
	return name + "." + cfg.PackageFormat, nil
}

func fieldValue(rec *book.Record, key string) string {
	switch key {
	case "package_name", "name":
		return rec.Name
	case "package_version", "version":
		return rec.Version
	case "chapter_id":
		return rec.ChapterID
	case "section_id":
		return rec.SectionID
	default:
		if rec.Fields == nil {
			return ""
		}
		return rec.Fields.GetString(key)
	}
}
