// Package resolver computes a deterministic build order over package
// records honoring dependency classes and precedence qualifiers.
//
// # Design Philosophy
//
// The graph is built once from plain data (dependency edges keyed by class
// weight and qualifier) and then passed through three independent,
// replayable transforms: a reachable-subgraph BFS, a qualifier rewrite, and
// a weight-ordered topological sort with deterministic cycle pruning. Each
// pass consumes the previous pass's output and never mutates its input,
// so the pipeline can be tested pass-by-pass.
//
// # Features
//
//   - Dependency-class weighting (required/recommended/optional/external/runtime).
//   - Reachable-subgraph pruning bounded by a per-node maximum traversal weight.
//   - Qualifier transform: "before" edges pass through, "after" edges are
//     reversed, "first" edges spawn a synthetic fence node.
//   - Min-heap topological sort that prefers the strongest (lowest-weight)
//     ready edge, with deterministic weakest-edge cycle pruning.
package resolver
