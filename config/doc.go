// Package config decodes the per-book, per-profile YAML configuration
// surfaces (paths, resolver dependency classes, scripter and executer
// settings) that tie the book, resolver, scripter, and executer packages
// together into one pipeline run, and expands "${var}" tokens across them.
package config
