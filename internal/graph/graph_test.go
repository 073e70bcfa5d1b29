package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphBasic(t *testing.T) {
	g := New[string]()
	g.AddNode("a")
	g.AddNode("b")
	g.AddEdge("a", "b")

	assert.True(t, g.HasNode("a"))
	assert.True(t, g.HasNode("b"))
	assert.Equal(t, []string{"b"}, g.Dependencies("a"))
	assert.Equal(t, 2, g.Len())
}

func TestAddEdgeCreatesNodes(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	assert.True(t, g.HasNode("a"), "AddEdge should create 'from' node")
	assert.True(t, g.HasNode("b"), "AddEdge should create 'to' node")
}

func TestDuplicateEdges(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	g.AddEdge("a", "b")
	g.AddEdge("a", "b")
	assert.Len(t, g.Dependencies("a"), 1)

	order, cycles := g.ResolutionOrder()
	assert.Empty(t, cycles)
	assert.Len(t, order, 2)
}

func TestResolutionOrderEmpty(t *testing.T) {
	order, cycles := New[string]().ResolutionOrder()
	assert.Empty(t, order)
	assert.Empty(t, cycles)
}

func TestResolutionOrderChain(t *testing.T) {
	// Subclass -> class -> base: the base comes first.
	g := New[string]()
	g.AddEdge("sub", "class")
	g.AddEdge("class", "base")

	order, cycles := g.ResolutionOrder()
	assert.Empty(t, cycles)
	assert.Equal(t, []string{"base", "class", "sub"}, order)
}

func TestResolutionOrderDiamond(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	g.AddEdge("a", "c")
	g.AddEdge("b", "d")
	g.AddEdge("c", "d")

	order, cycles := g.ResolutionOrder()
	assert.Empty(t, cycles)
	require.Len(t, order, 4)

	indexOf := func(s string) int {
		for i, k := range order {
			if k == s {
				return i
			}
		}
		return -1
	}
	assert.Less(t, indexOf("d"), indexOf("b"))
	assert.Less(t, indexOf("d"), indexOf("c"))
	assert.Less(t, indexOf("b"), indexOf("a"))
	assert.Less(t, indexOf("c"), indexOf("a"))
}

func TestResolutionOrderSimpleCycle(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	order, cycles := g.ResolutionOrder()
	assert.Empty(t, order)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"a", "b"}, cycles[0])
	assert.True(t, g.HasCycles())
}

func TestResolutionOrderCycleDependents(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")
	g.AddEdge("c", "a")

	order, cycles := g.ResolutionOrder()
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"c"}, order, "a dependent of a cycle still gets ordered")
}

func TestSelfLoop(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "a")
	g.AddEdge("b", "a")

	order, cycles := g.ResolutionOrder()
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"a"}, cycles[0])
	assert.Equal(t, []string{"b"}, order)
}

func TestFindCyclesMultiple(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")
	g.AddEdge("d", "e")
	g.AddEdge("e", "d")
	g.AddEdge("f", "a")

	cycles := g.FindCycles()
	require.Len(t, cycles, 2)
	assert.Equal(t, []string{"a", "b", "c"}, cycles[0])
	assert.Equal(t, []string{"d", "e"}, cycles[1])
}

func TestResolutionOrderDisconnected(t *testing.T) {
	g := New[string]()
	g.AddNode("c")
	g.AddNode("a")
	g.AddNode("b")

	order, cycles := g.ResolutionOrder()
	assert.Empty(t, cycles)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}
