package main

import "path/filepath"

// Conventional on-disk layout under a profiles directory (the build_dir side
// follows SPEC_FULL.md §6's persisted state layout):
//
//	<profiles_dir>/<book>/book.yaml            # book checkout config
//	<profiles_dir>/<book>/mapping.yaml         # Book Parser mapping spec
//	<profiles_dir>/<book>/<profile>/profile.yaml
//	<profiles_dir>/<book>/<profile>/templates/
//	<profiles_dir>/<book>/<profile>/aliases.yaml
//
// Profile-level file names live inside a directory of the profile's own
// name (rather than "<profile>.yaml" as a single file) so a profile can also
// carry its own templates and aliases alongside its config. add-profile
// (profiles.go) creates the profile directory with profile.yaml and an
// empty templates/; it does not create aliases.yaml.
func bookDir(profilesDir, book string) string {
	return filepath.Join(profilesDir, book)
}

func mappingSpecPath(profilesDir, book string) string {
	return filepath.Join(bookDir(profilesDir, book), "mapping.yaml")
}

func profileDir(profilesDir, book, profile string) string {
	return filepath.Join(bookDir(profilesDir, book), profile)
}

func profileConfigPath(profilesDir, book, profile string) string {
	return filepath.Join(profileDir(profilesDir, book, profile), "profile.yaml")
}

func templatesDirFor(profilesDir, book, profile string) string {
	return filepath.Join(profileDir(profilesDir, book, profile), "templates")
}

func bookOutputXMLPath(buildDir, book, outputFile string) string {
	return filepath.Join(buildDir, "books", book, outputFile)
}

func buildMetadataDir(buildDir, book string) string {
	return filepath.Join(buildDir, book, "parser", "build_metadata")
}

const bookYAMLTemplate = `# repo_path: where to git-clone the book source from
repo_path: ""
# version: git ref to check out (tag, branch, or commit)
version: ""
# rev: a free-form revision label threaded into the make command as ${rev}
rev: ""
# make_command: shell command that turns the checkout into the book XML,
# may reference ${book_dir} and ${rev}
make_command: ""
# output_file: path (relative to the book's build directory) of the XML
# the make command produces
output_file: "book.xml"
`

const profileYAMLTemplate = `book: %s
paths:
  build_dir: ""
  package_dir: "${build_dir}/packages"
  profiles_dir: ""
dep_classes:
  default: [required]
aliases: {}
custom: {}
scripter:
  default_template: default.sh
  target: ""
  include_classes: [required]
  alias_file: ""
executer:
  package_name_template: "${name}-${version}"
  package_format: tar.xz
  build_dir: "${build_dir}"
  package_dir: "${package_dir}"
  scripts_dir: "${build_dir}/scripts"
  logs_dir: "${build_dir}/logs"
  downloads_dir: "${build_dir}/downloads"
  download_repos: []
  upload_repo: "${package_dir}"
  default_extract_dir: "/"
  require_confirm_root: true
`
