package book

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// substitutePlaceholders replaces {k} tokens in xpathExpr with previously
// extracted scalar values from ctx (the current section's own fields so
// far) or parent (the enclosing section's fields, for nested childN
// sections), and {xpath_index} with index formatted as a zero-padded,
// quoted-for-XPath 4-digit ordinal. Values are XML-entity-escaped for
// apostrophes and quotes before substitution, since they are spliced into
// an XPath string literal.
func substitutePlaceholders(xpathExpr string, ctx, parent *OrderedMap, index int) string {
	return placeholderPattern.ReplaceAllStringFunc(xpathExpr, func(tok string) string {
		key := tok[1 : len(tok)-1]
		if key == "xpath_index" {
			return fmt.Sprintf("'%04d'", index)
		}
		if v, ok := ctx.Get(key); ok {
			return escapeXPathLiteral(scalarOf(v))
		}
		if parent != nil {
			if v, ok := parent.Get(key); ok {
				return escapeXPathLiteral(scalarOf(v))
			}
		}
		return tok // no known value yet; leave the token as-is.
	})
}

func scalarOf(v Value) string {
	if v.IsList {
		return joinBySpace(v.List)
	}
	return v.Scalar
}

// escapeXPathLiteral entity-escapes apostrophes and quotes in s before it is
// spliced into an XPath expression.
func escapeXPathLiteral(s string) string {
	r := strings.NewReplacer("'", "&apos;", `"`, "&quot;")
	return r.Replace(s)
}
