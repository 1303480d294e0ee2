package logging

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"
)

// kindField names the entry field that picks a non-default line prefix
// ("CYCLE:" / "SECURITY ERROR:") when the level alone does not distinguish
// it from an ordinary warning or error.
const kindField = "kind"

// Formatter renders one log line as "<prefix> <message> key=value ...",
// where prefix is derived from the entry's level (and, for a warning or
// error, optionally overridden by a "kind" field set to "cycle" or
// "security").
type Formatter struct{}

func (Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(prefix(entry))
	buf.WriteByte(' ')
	buf.WriteString(entry.Message)

	for _, key := range []string{"book", "profile", "chapter_id", "section_id"} {
		if v, ok := entry.Data[key]; ok {
			fmt.Fprintf(&buf, " %s=%v", key, v)
		}
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func prefix(entry *logrus.Entry) string {
	kind, _ := entry.Data[kindField].(string)
	switch {
	case kind == "security":
		return "SECURITY ERROR:"
	case kind == "cycle":
		return "CYCLE:"
	case entry.Level <= logrus.ErrorLevel:
		return "ERROR:"
	case entry.Level == logrus.WarnLevel:
		return "WARN:"
	default:
		return "INFO:"
	}
}
