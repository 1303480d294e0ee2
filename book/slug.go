package book

import "strings"

// Slug normalizes s into the canonical key form used for chapter and section
// identifiers: lower-cased, path separators folded to underscore, whitespace
// collapsed to a single hyphen, and any remaining run of characters outside
// [a-z0-9._+-] collapsed to a single hyphen; repeated hyphens collapse to
// one. Leading and trailing hyphens are trimmed; an empty result becomes
// "unnamed".
//
// Slug is idempotent: Slug(Slug(s)) == Slug(s) for all s.
func Slug(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("/", "_", "\\", "_").Replace(s)

	var b strings.Builder
	lastHyphen := false
	for _, r := range s {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '-':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		case isSlugRune(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "unnamed"
	}
	return out
}

func isSlugRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '.' || r == '_' || r == '+' || r == '-':
		return true
	default:
		return false
	}
}
