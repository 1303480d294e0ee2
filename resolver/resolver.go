package resolver

import (
	"fmt"
	"strings"
)

// Node is one resolvable unit: a package name plus its dependency classes,
// each mapping to an ordered list of dependency names. Class keys are either
// a bare weight class ("required", "recommended", "optional", "external",
// "runtime") or that class name suffixed with "_first"/"_after" to carry a
// precedence qualifier other than the default "before".
type Node struct {
	Name         string
	Dependencies map[string][]string
}

// DepClasses controls, per node name, which weight classes that node is
// allowed to traverse when computing the reachable subgraph. The key
// "default" is consulted when a node has no explicit entry.
type DepClasses map[string][]string

// Resolver computes a deterministic build order over a set of nodes.
type Resolver struct {
	nodes      map[string]Node
	depClasses DepClasses
	initial    graph
	warnings   []string
}

// New builds a resolver over nodes. Graph construction (the sentinel root
// node plus one edge per dependency reference) happens eagerly so that
// unknown-class and unknown-dependency warnings are available immediately.
func New(nodes []Node, depClasses DepClasses) *Resolver {
	r := &Resolver{
		nodes:      make(map[string]Node, len(nodes)),
		depClasses: depClasses,
	}
	for _, n := range nodes {
		r.nodes[n.Name] = n
	}
	r.initial = r.buildInitialGraph()
	return r
}

// Warnings returns every diagnostic accumulated since construction, in the
// order they were recorded.
func (r *Resolver) Warnings() []string {
	return append([]string(nil), r.warnings...)
}

func (r *Resolver) warn(format string, args ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func (r *Resolver) buildInitialGraph() graph {
	g := make(graph)
	g[rootNode] = nil
	for name := range r.nodes {
		g[name] = nil
	}

	for name, node := range r.nodes {
		for class, deps := range node.Dependencies {
			base, qualifier := splitClass(class)
			weight, ok := weightByClass[base]
			if !ok {
				r.warn("Unknown dependency class '%s' in %s; skipping.", class, name)
				continue
			}
			for _, dep := range deps {
				if _, known := r.nodes[dep]; !known {
					r.warn("%s depends on unknown package '%s'; skipping.", name, dep)
					continue
				}
				g[name] = append(g[name], Edge{Dst: dep, Weight: weight, Qualifier: qualifier})
			}
		}
	}

	for n, edges := range g {
		sortEdges(edges)
		g[n] = edges
	}
	return g
}

// Resolve returns the build order (dependencies before dependents) for the
// requested root node names. The order includes the synthetic "X-pass1"
// fence node of every node X with a first-edge, placed after X's first-edge
// targets and before X. Warnings accumulated building the graph and running
// the passes are read with Warnings. Every root that is not a known node is
// itself a warning, not a fatal error — consistent with root-level entries
// sourced from a filtered include-list that may not all resolve to records.
func (r *Resolver) Resolve(roots []string) ([]string, error) {
	g := r.initial.clone()
	g[rootNode] = nil
	for _, root := range roots {
		if _, known := r.nodes[root]; !known {
			r.warn("Requested root '%s' not found; skipping.", root)
			continue
		}
		g[rootNode] = append(g[rootNode], Edge{Dst: root, Weight: WeightRequired, Qualifier: QualifierBefore})
	}
	sortEdges(g[rootNode])

	reachable := r.pass1ReachableSubgraph(g)
	transformed := r.pass2QualifierTransform(reachable)
	order, err := r.pass3TopologicalSort(transformed)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(order))
	for _, id := range order {
		_, known := r.nodes[id]
		_, fenceOfKnown := r.nodes[strings.TrimSuffix(id, "-pass1")]
		if known || (strings.HasSuffix(id, "-pass1") && fenceOfKnown) {
			out = append(out, id)
		}
	}
	return out, nil
}

// maxWeightFor resolves the highest dependency weight node is allowed to
// traverse, per the precedence: explicit entry in depClasses, "default"
// entry, else none (weight 0, meaning no dependencies are followed). The
// sentinel root is always allowed weight 1 so the requested roots themselves
// are always reachable.
func (r *Resolver) maxWeightFor(node string) int {
	if node == rootNode {
		return WeightRequired
	}
	allowed := r.depClasses[node]
	if len(allowed) == 0 {
		allowed = r.depClasses["default"]
	}
	max := 0
	for _, class := range allowed {
		if w, ok := weightByClass[class]; ok && w > max {
			max = w
		}
	}
	return max
}
