package executer

// Filters is an include/exclude allow-list triple keyed by package name,
// section-id, or chapter-id.
type Filters struct {
	Packages []string `yaml:"packages,omitempty"`
	Sections []string `yaml:"sections,omitempty"`
	Chapters []string `yaml:"chapters,omitempty"`
}

func (f Filters) matchesAny(name, nameVersion, section, chapter string) bool {
	for _, p := range f.Packages {
		if p == name || p == nameVersion {
			return true
		}
	}
	for _, s := range f.Sections {
		if s == section {
			return true
		}
	}
	for _, c := range f.Chapters {
		if c == chapter {
			return true
		}
	}
	return false
}

// ExtractTargets resolves a host-mode extraction root by package, section,
// or chapter identity, falling back to a configured default.
type ExtractTargets struct {
	Packages map[string]string `yaml:"packages,omitempty"`
	Sections map[string]string `yaml:"sections,omitempty"`
	Chapters map[string]string `yaml:"chapters,omitempty"`
}

func (t ExtractTargets) resolve(name, section, chapter, defaultDir string) string {
	if v, ok := t.Packages[name]; ok && v != "" {
		return v
	}
	if v, ok := t.Sections[section]; ok && v != "" {
		return v
	}
	if v, ok := t.Chapters[chapter]; ok && v != "" {
		return v
	}
	return defaultDir
}

// Config is the decoded shape of a profile's executer.yaml.
type Config struct {
	PackageNameTemplate string `yaml:"package_name_template"`
	PackageFormat       string `yaml:"package_format"` // "tar", "tar.gz", or "tar.xz"

	BuildDir    string `yaml:"build_dir"`
	PackageDir  string `yaml:"package_dir"`
	ChrootDir   string `yaml:"chroot_dir"`
	ScriptsDir  string `yaml:"scripts_dir"`
	LogsDir     string `yaml:"logs_dir"`
	DownloadsDir string `yaml:"downloads_dir"`

	DownloadRepos []string `yaml:"download_repos"`
	UploadRepo    string   `yaml:"upload_repo"`

	DefaultExtractDir  string `yaml:"default_extract_dir"`
	RequireConfirmRoot bool   `yaml:"require_confirm_root"`
	AutoConfirm        bool   `yaml:"-"`

	Host   Filters `yaml:"host"`
	Chroot Filters `yaml:"chroot"`

	PackageInclude Filters `yaml:"package"`
	PackageExclude Filters `yaml:"package_exclude"`

	ExtractTargets ExtractTargets `yaml:"extract_targets"`

	PrePackageHook string `yaml:"pre_package_hook,omitempty"`
	SigningKey     string `yaml:"signing_key,omitempty"`

	Book    string `yaml:"-"`
	Profile string `yaml:"-"`
}
