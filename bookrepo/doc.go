// Package bookrepo installs a book's source repository: clone or pull,
// checkout the configured revision, then run the book's own make command
// to produce the XML the Book Parser consumes. It is a thin external
// collaborator over git and make, not a reimplementation of either.
package bookrepo
