package config

import (
	"os"
	"regexp"
)

var varToken = regexp.MustCompile(`\$\{([^}]+)\}`)

// ExpandVars substitutes every "${key}" token in s against vars first, then
// against the process environment, repeating until a pass makes no further
// change (so a value that itself contains "${...}" resolves transitively).
// An unknown token is left untouched rather than treated as an error: not
// every "${...}" in a config file is necessarily one this layer owns (the
// executer and upload-repo strings reject their own leftover tokens later,
// where "unresolved" is actually fatal).
func ExpandVars(s string, vars map[string]string) string {
	const maxPasses = 10
	for i := 0; i < maxPasses; i++ {
		expanded := varToken.ReplaceAllStringFunc(s, func(tok string) string {
			key := tok[2 : len(tok)-1]
			if v, ok := vars[key]; ok {
				return v
			}
			if v, ok := os.LookupEnv(key); ok {
				return v
			}
			return tok
		})
		if expanded == s {
			return expanded
		}
		s = expanded
	}
	return s
}

// baseVars seeds the expansion variable table with the five well-known
// keys every path/repo string may reference, per SPEC_FULL.md §4.4
// "Variable expansion (config)".
func baseVars(p *Profile) map[string]string {
	return map[string]string{
		"build_dir":    p.Paths.BuildDir,
		"package_dir":  p.Paths.PackageDir,
		"profiles_dir": p.Paths.ProfilesDir,
		"book":         p.Book,
		"profile":      p.Name,
	}
}

// expandAll rewrites every path/repo-shaped string in p in place.
func expandAll(p *Profile) {
	vars := baseVars(p)

	p.Paths.BuildDir = ExpandVars(p.Paths.BuildDir, vars)
	p.Paths.PackageDir = ExpandVars(p.Paths.PackageDir, vars)
	p.Paths.ProfilesDir = ExpandVars(p.Paths.ProfilesDir, vars)

	// Re-seed with the now-expanded paths so repo/template strings can
	// reference the fully resolved directories too.
	vars = baseVars(p)

	p.Executer.BuildDir = ExpandVars(p.Executer.BuildDir, vars)
	p.Executer.PackageDir = ExpandVars(p.Executer.PackageDir, vars)
	p.Executer.ChrootDir = ExpandVars(p.Executer.ChrootDir, vars)
	p.Executer.ScriptsDir = ExpandVars(p.Executer.ScriptsDir, vars)
	p.Executer.LogsDir = ExpandVars(p.Executer.LogsDir, vars)
	p.Executer.DownloadsDir = ExpandVars(p.Executer.DownloadsDir, vars)
	p.Executer.UploadRepo = ExpandVars(p.Executer.UploadRepo, vars)
	p.Executer.DefaultExtractDir = ExpandVars(p.Executer.DefaultExtractDir, vars)
	for i, repo := range p.Executer.DownloadRepos {
		p.Executer.DownloadRepos[i] = ExpandVars(repo, vars)
	}

	p.Scripter.Target = ExpandVars(p.Scripter.Target, vars)
	p.Scripter.AliasFile = ExpandVars(p.Scripter.AliasFile, vars)
}
