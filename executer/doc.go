// Package executer runs one generated script per package record, in order,
// producing or installing a package archive for each.
//
// # Design Philosophy
//
// Each script drives a single linear state machine: locate the record,
// decide whether to package and which execution mode to use, probe the
// configured download repos for a cached archive, and either install the
// cached archive or run the script fresh, package its output, install it,
// and upload it. Every filesystem side effect (staging, tar building,
// extraction) is a small, independently testable function; RunOne composes
// them in that order for one script, and RunAll calls RunOne for each
// script in turn.
//
// # Features
//
//   - Record lookup from a script's filename, with a custom-table fallback.
//   - Explicit-override-first packaging and execution-mode decisions.
//   - Cache probe across ordered local/HTTP download repos.
//   - Host and isolated-root (chroot) execution with bind-mount lifecycle.
//   - Tar/tar.gz/tar.xz packaging with embedded and sidecar metadata.
//   - Path-traversal-guarded extraction, delegating symlinks/hardlinks to
//     the system tar binary.
//   - Optional PGP clearsigning of the metadata sidecar.
package executer
