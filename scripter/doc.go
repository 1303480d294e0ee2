// Package scripter materializes one deterministically named shell script per
// selected package record, in build order.
//
// # Design Philosophy
//
// Script generation is a pure, three-stage pipeline over an in-memory set of
// records: select an ordering (linear by build_order, or dependency-driven
// via the resolver package), select a template per record (package > section
// > chapter > default), then expand placeholders and apply an ordered list
// of regex substitution rules. Nothing here touches a filesystem path beyond
// reading templates and writing the final scripts; the pipeline stages are
// independently testable.
//
// # Features
//
//   - {{dotted.key}} placeholder expansion over a record's field map.
//   - Ordered s/r substitution rules (literal or regex), global + chapter +
//     section + package scoped.
//   - Linear and dependency-mode ordering, the latter delegating to the
//     resolver package.
//   - Deterministic, zero-padded, slugged script file names at mode 0755.
package scripter
