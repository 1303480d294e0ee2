package scripter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wiigelec/skw/book"
)

// rulesFor concatenates the global regex rules with any chapter, section,
// and package-scoped rules for rec, in that precedence order.
func (c *Config) rulesFor(rec *book.Record) []string {
	rules := append([]string(nil), c.GlobalRegex...)
	for _, s := range c.scopedFor(rec.ChapterID, rec.SectionID, rec.Name) {
		rules = append(rules, s.Regex...)
	}
	return rules
}

// ApplyRegex runs content through rec's ordered substitution rules. Each
// rule has the form "{mode}{delim}{pattern}{delim}{replacement}{delim?}"
// where mode is "s" (literal find/replace) or "r" (regexp find/replace); a
// trailing empty segment from an optional closing delimiter is tolerated.
// Malformed rules are reported via warn and otherwise skipped.
func ApplyRegex(cfg *Config, rec *book.Record, content string, warn func(string)) string {
	for _, rule := range cfg.rulesFor(rec) {
		out, err := applyRule(rule, content)
		if err != nil {
			if warn != nil {
				warn(fmt.Sprintf("regex rule %q: %v", rule, err))
			}
			continue
		}
		content = out
	}
	return content
}

func applyRule(rule, content string) (string, error) {
	if len(rule) < 3 {
		return "", fmt.Errorf("rule too short")
	}
	mode := rule[0]
	if mode != 's' && mode != 'r' {
		return "", fmt.Errorf("unknown mode %q", string(mode))
	}
	delim := string(rule[1])
	parts := strings.Split(rule[2:], delim)
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) < 2 {
		return "", fmt.Errorf("expected pattern and replacement")
	}
	pattern, replacement := parts[0], parts[1]

	switch mode {
	case 's':
		return strings.ReplaceAll(content, pattern, replacement), nil
	default:
		re, err := regexp.Compile(pattern)
		if err != nil {
			return "", fmt.Errorf("invalid regexp: %w", err)
		}
		return re.ReplaceAllString(content, replacement), nil
	}
}
