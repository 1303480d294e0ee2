package resolver

import (
	"container/heap"
	"fmt"
	"sort"
)

// pass1ReachableSubgraph performs a BFS from the sentinel root, following
// only edges whose weight does not exceed the traversing node's maximum
// allowed weight, and returns the induced subgraph over every node reached.
func (r *Resolver) pass1ReachableSubgraph(g graph) graph {
	reachable := map[string]bool{rootNode: true}
	queue := []string{rootNode}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		maxWeight := r.maxWeightFor(id)
		for _, e := range g[id] {
			if e.Weight <= maxWeight && !reachable[e.Dst] {
				reachable[e.Dst] = true
				queue = append(queue, e.Dst)
			}
		}
	}

	out := make(graph, len(reachable))
	for id := range reachable {
		var kept []Edge
		for _, e := range g[id] {
			if reachable[e.Dst] {
				kept = append(kept, e)
			}
		}
		out[id] = kept
	}
	return out
}

// pass2QualifierTransform rewrites "after" edges into reversed "before"
// edges and "first" edges into a fence-node pattern, per § 4.2 Pass 2.
func (r *Resolver) pass2QualifierTransform(g graph) graph {
	out := g.clone()

	type afterEdge struct {
		from, to string
		weight   int
	}
	var afterEdges []afterEdge
	firstDeps := make(map[string][]Edge)

	for id, edges := range out {
		var kept []Edge
		for _, e := range edges {
			switch e.Qualifier {
			case QualifierAfter:
				afterEdges = append(afterEdges, afterEdge{from: id, to: e.Dst, weight: e.Weight})
			case QualifierFirst:
				firstDeps[id] = append(firstDeps[id], e)
			default:
				kept = append(kept, Edge{Dst: e.Dst, Weight: e.Weight, Qualifier: QualifierBefore})
			}
		}
		out[id] = kept
	}

	// "X -a-> Y" ("Y must follow X") reverses into "Y -b-> X": simple
	// reversal, not promotion to every parent of X (Design Note (b)).
	for _, ae := range afterEdges {
		out[ae.to] = append(out[ae.to], Edge{Dst: ae.from, Weight: ae.weight, Qualifier: QualifierBefore})
	}

	// "X -f-> Y" fences Y before X's main build: X gets a synthetic
	// "X-pass1" node; the fence collects the first-deps, and every
	// non-first dependency of X is forced to wait on the fence too.
	for x, fdeps := range firstDeps {
		fence := x + "-pass1"
		out[x] = append(out[x], Edge{Dst: fence, Weight: WeightRequired, Qualifier: QualifierBefore})

		fenceTargets := make(map[string]bool, len(fdeps))
		for _, fd := range fdeps {
			out[fence] = append(out[fence], Edge{Dst: fd.Dst, Weight: fd.Weight, Qualifier: QualifierBefore})
			fenceTargets[fd.Dst] = true
		}

		for _, e := range out[x] {
			if e.Dst == fence || fenceTargets[e.Dst] {
				continue
			}
			out[e.Dst] = append(out[e.Dst], Edge{Dst: fence, Weight: WeightRequired, Qualifier: QualifierBefore})
		}
	}

	for id, edges := range out {
		out[id] = dedupeMinWeight(edges)
	}
	return out
}

// dedupeMinWeight keeps, for each (dst, qualifier) pair, only the
// minimum-weight edge, then returns the result in sorted order.
func dedupeMinWeight(edges []Edge) []Edge {
	best := make(map[[2]string]int)
	for _, e := range edges {
		key := [2]string{e.Dst, e.Qualifier}
		if w, ok := best[key]; !ok || e.Weight < w {
			best[key] = e.Weight
		}
	}
	out := make([]Edge, 0, len(best))
	for key, w := range best {
		out = append(out, Edge{Dst: key[0], Qualifier: key[1], Weight: w})
	}
	sortEdges(out)
	return out
}

// readyItem is one entry of the pass-3 min-heap: a node ready to be visited,
// ordered by the weight of the edge that made it ready.
type readyItem struct {
	weight int
	node   string
}

type readyHeap []readyItem

func (h readyHeap) Len() int { return len(h) }
func (h readyHeap) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight < h[j].weight
	}
	return h[i].node < h[j].node
}
func (h readyHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *readyHeap) Push(x interface{}) { *h = append(*h, x.(readyItem)) }
func (h *readyHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// pass3TopologicalSort runs Kahn's algorithm over the "depends-on" edges
// using a min-heap keyed by the readying edge's weight, then reverses the
// visit order so dependencies precede their dependents. On a cycle, the
// single globally weakest (highest-weight) edge is pruned and the sort is
// retried; if no edge remains to prune, what was visited is returned as-is.
func (r *Resolver) pass3TopologicalSort(g graph) ([]string, error) {
	work := g.clone()

	for iterations := 0; ; iterations++ {
		if iterations > totalEdgeCount(g)+1 {
			return nil, fmt.Errorf("cycle-pruning did not terminate after %d iterations", iterations)
		}

		indegree := make(map[string]int, len(work))
		for n := range work {
			indegree[n] = 0
		}
		for _, edges := range work {
			for _, e := range edges {
				indegree[e.Dst]++
			}
		}

		h := &readyHeap{}
		heap.Init(h)
		for n, d := range indegree {
			if d == 0 {
				heap.Push(h, readyItem{weight: 0, node: n})
			}
		}

		var order []string
		visited := make(map[string]bool, len(work))
		for h.Len() > 0 {
			item := heap.Pop(h).(readyItem)
			n := item.node
			if n != rootNode {
				order = append(order, n)
			}
			visited[n] = true

			edges := append([]Edge(nil), work[n]...)
			sortEdges(edges)
			for _, e := range edges {
				indegree[e.Dst]--
				if indegree[e.Dst] == 0 {
					heap.Push(h, readyItem{weight: e.Weight, node: e.Dst})
				}
			}
		}

		if len(visited) == len(work) {
			reversed := make([]string, len(order))
			for i, id := range order {
				reversed[len(order)-1-i] = id
			}
			return reversed, nil
		}

		src, dst, ok := weakestEdge(work)
		if !ok {
			reversed := make([]string, len(order))
			for i, id := range order {
				reversed[len(order)-1-i] = id
			}
			return reversed, nil
		}
		work[src] = removeEdgeTo(work[src], dst)
		r.warn("Pruned edge %s->%s to break cycle.", src, dst)
	}
}

// weakestEdge returns the single highest-weight (lowest-priority) edge in g.
// Ties are broken by (src, dst) so the prune is deterministic regardless of
// map iteration order.
func weakestEdge(g graph) (src, dst string, ok bool) {
	nodes := make([]string, 0, len(g))
	for n := range g {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	weakest := -1
	for _, s := range nodes {
		edges := append([]Edge(nil), g[s]...)
		sortEdges(edges)
		for _, e := range edges {
			if e.Weight > weakest {
				weakest = e.Weight
				src, dst, ok = s, e.Dst, true
			}
		}
	}
	return
}

func removeEdgeTo(edges []Edge, dst string) []Edge {
	out := edges[:0:0]
	for _, e := range edges {
		if e.Dst != dst {
			out = append(out, e)
		}
	}
	return out
}

func totalEdgeCount(g graph) int {
	n := 0
	for _, edges := range g {
		n += len(edges)
	}
	return n
}
