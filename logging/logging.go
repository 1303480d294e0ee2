package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// New configures a logrus logger writing to out with Formatter, and
// returns an entry pre-tagged with book/profile fields so every call site
// downstream need not repeat them.
func New(out io.Writer, book, profile string) *logrus.Entry {
	l := logrus.New()
	l.SetFormatter(Formatter{})
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)

	return l.WithFields(logrus.Fields{"book": book, "profile": profile})
}

// WithSection returns a copy of entry additionally tagged with a
// chapter/section identity, for log lines scoped to one record.
func WithSection(entry *logrus.Entry, chapterID, sectionID string) *logrus.Entry {
	return entry.WithFields(logrus.Fields{"chapter_id": chapterID, "section_id": sectionID})
}

// Cycle logs a pruned-edge cycle-break warning with the "CYCLE:" prefix.
func Cycle(entry *logrus.Entry, format string, args ...interface{}) {
	entry.WithField(kindField, "cycle").Warn(fmt.Sprintf(format, args...))
}

// Security logs a fatal path-safety violation with the "SECURITY ERROR:"
// prefix.
func Security(entry *logrus.Entry, format string, args ...interface{}) {
	entry.WithField(kindField, "security").Error(fmt.Sprintf(format, args...))
}

// FatalError marks an error that should abort the pipeline and select a
// non-zero CLI exit code, as opposed to a Warning that is only logged.
type FatalError struct{ Err error }

func (e *FatalError) Error() string { return e.Err.Error() }
func (e *FatalError) Unwrap() error { return e.Err }

// Fatal wraps err as a *FatalError, or returns nil unchanged.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// Warning marks a non-fatal condition worth surfacing to the user without
// aborting the pipeline or affecting the CLI's exit code.
type Warning struct{ Err error }

func (e *Warning) Error() string { return e.Err.Error() }
func (e *Warning) Unwrap() error { return e.Err }
