package executer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wiigelec/skw/book"
)

// ParseScriptFilename splits a script name of the form
// "{order}_{identity}.sh" into its numeric order and the remaining
// identity string ("{slug(chapter_id)}_{slug(section_id)}", per
// book.Record.ScriptSlug).
func ParseScriptFilename(name string) (order int, identity string, err error) {
	base := strings.TrimSuffix(name, ".sh")
	parts := strings.SplitN(base, "_", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("cannot parse order/identity from script name %q", name)
	}
	order, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", fmt.Errorf("invalid order prefix in script name %q: %w", name, err)
	}
	return order, parts[1], nil
}

// BuildIdentityIndex indexes records by the same
// "{slug(chapter_id)}_{slug(section_id)}" string the Scripter names each
// script file after, so a script can be mapped back to its record without
// re-parsing an ambiguous split.
func BuildIdentityIndex(records []*book.Record) map[string]*book.Record {
	index := make(map[string]*book.Record, len(records))
	for _, r := range records {
		index[r.ScriptSlug()] = r
	}
	return index
}

// LocateRecord resolves a script's identity string to a record: the
// identity index built by BuildIdentityIndex first, falling back to a
// per-profile "custom" table (§4.1) keyed by the same literal string used
// in the profile's custom-record declaration.
func LocateRecord(index map[string]*book.Record, custom map[string]*book.Record, identity string) (*book.Record, error) {
	if rec, ok := index[identity]; ok {
		return rec, nil
	}
	if rec, ok := custom[identity]; ok {
		return rec, nil
	}
	return nil, fmt.Errorf("no record found for script identity %q", identity)
}
