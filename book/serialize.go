package book

import (
	"fmt"
	"strings"
)

// Serialize renders fields as a YAML-equivalent record document: a flat
// mapping in declaration order, using block literal scalars ("|") for any
// value containing a newline (build_instructions and similar multi-line
// fields) and block sequences for ordinary lists, mirroring the record files
// the original book pipeline produced by hand.
func Serialize(fields *OrderedMap) string {
	var b strings.Builder
	for _, key := range fields.Keys() {
		v, _ := fields.Get(key)
		writeField(&b, key, v, 0)
	}
	return b.String()
}

func writeField(b *strings.Builder, key string, v Value, indent int) {
	pad := strings.Repeat("  ", indent)
	switch {
	case v.IsListMap:
		if len(v.ListMaps) == 0 {
			fmt.Fprintf(b, "%s%s: []\n", pad, key)
			return
		}
		fmt.Fprintf(b, "%s%s:\n", pad, key)
		for _, m := range v.ListMaps {
			fmt.Fprintf(b, "%s  -\n", pad)
			for _, k := range m.Keys() {
				mv, _ := m.Get(k)
				writeField(b, k, mv, indent+2)
			}
		}
	case v.IsList:
		if len(v.List) == 0 {
			fmt.Fprintf(b, "%s%s: []\n", pad, key)
			return
		}
		fmt.Fprintf(b, "%s%s:\n", pad, key)
		for _, item := range v.List {
			fmt.Fprintf(b, "%s  - %s\n", pad, scalarLine(item))
		}
	case strings.Contains(v.Scalar, "\n"):
		fmt.Fprintf(b, "%s%s: |\n", pad, key)
		for _, line := range strings.Split(v.Scalar, "\n") {
			fmt.Fprintf(b, "%s  %s\n", pad, line)
		}
	default:
		fmt.Fprintf(b, "%s%s: %s\n", pad, key, scalarLine(v.Scalar))
	}
}

// scalarLine quotes a scalar only when it would otherwise be ambiguous as
// YAML (empty, or starting with a character that changes its parsed type).
func scalarLine(s string) string {
	if s == "" {
		return `""`
	}
	switch s[0] {
	case '"', '\'', '{', '[', '&', '*', '!', '|', '>', '%', '@', '`', '#':
		return fmt.Sprintf("%q", s)
	}
	if s == "true" || s == "false" || s == "null" || s == "~" {
		return fmt.Sprintf("%q", s)
	}
	return s
}
