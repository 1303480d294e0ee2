package resolver

import (
	"sort"
	"strings"
)

// Weight classes, matching the W() table in § 4.2: required < recommended <
// optional = runtime < external.
const (
	WeightRequired    = 1
	WeightRecommended = 2
	WeightOptional    = 3
	WeightExternal    = 4
	WeightRuntime     = 3
)

var weightByClass = map[string]int{
	"required":    WeightRequired,
	"recommended": WeightRecommended,
	"optional":    WeightOptional,
	"external":    WeightExternal,
	"runtime":     WeightRuntime,
}

// Qualifier values, matching DependencyEdge.qualifier.
const (
	QualifierBefore = "b"
	QualifierAfter  = "a"
	QualifierFirst  = "f"
)

const rootNode = "root"

// splitClass parses a dependency class key such as "required_first" into its
// base weight class ("required") and qualifier ("f"), defaulting to "before"
// when no phase suffix is present.
func splitClass(class string) (base string, qualifier string) {
	for suffix, q := range map[string]string{"_first": QualifierFirst, "_after": QualifierAfter, "_before": QualifierBefore} {
		if strings.HasSuffix(class, suffix) {
			return strings.TrimSuffix(class, suffix), q
		}
	}
	return class, QualifierBefore
}

// Edge is one dependency relation: dst must be resolved according to
// qualifier relative to the node that owns this edge.
type Edge struct {
	Dst       string
	Weight    int
	Qualifier string
}

func sortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Dst != edges[j].Dst {
			return edges[i].Dst < edges[j].Dst
		}
		if edges[i].Weight != edges[j].Weight {
			return edges[i].Weight < edges[j].Weight
		}
		return edges[i].Qualifier < edges[j].Qualifier
	})
}

// graph is an adjacency-list map keyed by stable string node ids.
type graph map[string][]Edge

func (g graph) clone() graph {
	out := make(graph, len(g))
	for k, edges := range g {
		out[k] = append([]Edge(nil), edges...)
	}
	return out
}
