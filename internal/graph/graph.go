// Package graph provides dependency graph construction and analysis.
// The validator uses it for the class inheritance graph: an edge runs from
// a class to its superclass.
package graph

import (
	"cmp"
	"slices"
)

// Graph is a dependency graph of keys with forward edges.
type Graph[K cmp.Ordered] struct {
	nodes map[K]struct{}
	edges map[K][]K
}

// New returns a graph with no nodes or edges.
func New[K cmp.Ordered]() *Graph[K] {
	return &Graph[K]{
		nodes: make(map[K]struct{}),
		edges: make(map[K][]K),
	}
}

// AddNode registers a key. Duplicate calls are no-ops.
func (g *Graph[K]) AddNode(k K) {
	g.nodes[k] = struct{}{}
}

// AddEdge records that "from" depends on "to", meaning "to" must be
// handled before "from". Missing nodes are created implicitly.
// Duplicate edges are ignored.
func (g *Graph[K]) AddEdge(from, to K) {
	g.nodes[from] = struct{}{}
	g.nodes[to] = struct{}{}

	if slices.Contains(g.edges[from], to) {
		return
	}
	g.edges[from] = append(g.edges[from], to)
}

// Dependencies returns the keys that k depends on (forward edges).
func (g *Graph[K]) Dependencies(k K) []K {
	return g.edges[k]
}

// HasNode reports whether the key exists in the graph.
func (g *Graph[K]) HasNode(k K) bool {
	_, ok := g.nodes[k]
	return ok
}

// Len returns the number of nodes.
func (g *Graph[K]) Len() int {
	return len(g.nodes)
}

// ResolutionOrder returns keys ordered so that dependencies come before
// dependents, using Tarjan's algorithm. Strongly connected components with
// more than one node (or a single node with a self-loop) are reported as
// cycles and excluded from the order. Output is deterministic: roots are
// visited in sorted key order.
func (g *Graph[K]) ResolutionOrder() (order []K, cycles [][]K) {
	var (
		index    int
		stack    []K
		onStack  = make(map[K]bool)
		indices  = make(map[K]int)
		lowlinks = make(map[K]int)
	)

	var strongConnect func(k K)
	strongConnect = func(k K) {
		indices[k] = index
		lowlinks[k] = index
		index++
		stack = append(stack, k)
		onStack[k] = true

		for _, dep := range g.edges[k] {
			if _, visited := indices[dep]; !visited {
				strongConnect(dep)
				lowlinks[k] = min(lowlinks[k], lowlinks[dep])
			} else if onStack[dep] {
				lowlinks[k] = min(lowlinks[k], indices[dep])
			}
		}

		if lowlinks[k] == indices[k] {
			var scc []K
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == k {
					break
				}
			}
			switch {
			case len(scc) > 1:
				slices.Sort(scc)
				cycles = append(cycles, scc)
			case slices.Contains(g.edges[scc[0]], scc[0]):
				cycles = append(cycles, scc)
			default:
				order = append(order, scc[0])
			}
		}
	}

	sorted := make([]K, 0, len(g.nodes))
	for k := range g.nodes {
		sorted = append(sorted, k)
	}
	slices.Sort(sorted)

	for _, k := range sorted {
		if _, visited := indices[k]; !visited {
			strongConnect(k)
		}
	}

	return order, cycles
}

// FindCycles returns every strongly connected component that forms a
// cycle, each sorted, in deterministic order.
func (g *Graph[K]) FindCycles() [][]K {
	_, cycles := g.ResolutionOrder()
	return cycles
}

// HasCycles reports whether the graph contains any cycles.
func (g *Graph[K]) HasCycles() bool {
	return len(g.FindCycles()) > 0
}
