package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wiigelec/skw/book"
)

// parseBookRecords re-derives the full record set for book from its
// persisted output XML and mapping spec: the Parser is re-run fresh rather
// than reading back a previously serialized build_metadata/ tree, so "parse",
// "script", and "list-sections" stay independently re-runnable from the one
// artifact each needs (the checked-out book XML), matching every other stage
// of the pipeline persisting its own output without depending on another
// stage's in-memory state.
func parseBookRecords(profilesDir, buildDir, bookName, outputFile string) (*book.Result, error) {
	specPath := mappingSpecPath(profilesDir, bookName)
	spec, err := book.LoadMappingSpec(specPath)
	if err != nil {
		return nil, err
	}

	xmlPath := bookOutputXMLPath(buildDir, bookName, outputFile)
	xmlBytes, err := os.ReadFile(xmlPath)
	if err != nil {
		return nil, fmt.Errorf("book XML not found at %s (did you run install-book?): %w", xmlPath, err)
	}

	parser, err := book.NewParser(spec, xmlBytes)
	if err != nil {
		return nil, err
	}
	return parser.Parse()
}

// persistRecords writes one YAML file per record under buildMetadataDir,
// per §6's "Record file" serialization rule.
func persistRecords(dir string, res *book.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating build_metadata directory: %w", err)
	}
	for _, fields := range res.Fields {
		name := book.FileName(fields)
		content := book.Serialize(fields)
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing record %s: %w", path, err)
		}
	}
	return nil
}
