// Package logging builds the logrus loggers used across the pipeline (New
// returns a freshly configured logger on each call), with a formatter
// emitting the ERROR:/WARN:/CYCLE:/SECURITY ERROR: prefixed lines the error
// handling design calls for, and the FatalError/Warning wrapper types that
// mark an error as fatal or as a warning.
package logging
