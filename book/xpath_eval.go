package book

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// evalXPath evaluates expr relative to node and collapses the result to the
// normalized string | []string shape used throughout this package. An empty
// expr is treated as "not selected" and yields an empty scalar, matching the
// override semantics where a blank override string forces the field empty.
func evalXPath(node *xmlquery.Node, expr string) (Value, error) {
	if strings.TrimSpace(expr) == "" {
		return ScalarValue(""), nil
	}

	compiled, err := xpath.Compile(expr)
	if err != nil {
		return Value{}, fmt.Errorf("invalid xpath %q: %w", expr, err)
	}

	nav := xmlquery.CreateXPathNavigator(node)
	result := compiled.Evaluate(nav)

	switch v := result.(type) {
	case *xpath.NodeIterator:
		var texts []string
		for v.MoveNext() {
			texts = append(texts, v.Current().Value())
		}
		switch {
		case len(texts) == 0:
			return ScalarValue(""), nil
		case len(texts) == 1:
			return ScalarValue(texts[0]), nil
		case allSingleRune(texts):
			// A sequence of single characters is joined without a separator,
			// e.g. string(...) applied over multiple text nodes.
			return ScalarValue(strings.Join(texts, "")), nil
		default:
			return ListValue(texts), nil
		}
	case string:
		return ScalarValue(v), nil
	case bool:
		return ScalarValue(strconv.FormatBool(v)), nil
	case float64:
		return ScalarValue(formatXPathNumber(v)), nil
	default:
		return ScalarValue(""), nil
	}
}

func allSingleRune(texts []string) bool {
	for _, t := range texts {
		if len([]rune(t)) != 1 {
			return false
		}
	}
	return true
}

func formatXPathNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
