// Package dag provides directed graph operations for taxonomy parent/child links.
// It supports cycle detection from roots, leaf discovery and reachability.
package dag

import (
	"fmt"
	"sort"
)

// Node represents a node in the graph.
type Node struct {
	// ID is the unique identifier (taxonomy code)
	ID string
	// Data holds arbitrary node data
	Data interface{}
}

// Graph represents a directed graph whose edges point from parent to child.
// Children keep the order in which their edges were added.
type Graph struct {
	nodes   map[string]*Node
	edges   map[string][]string // parent -> children
	parents map[string][]string // child -> parents
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:   make(map[string]*Node),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

// AddNode adds a node to the graph.
// It returns false and leaves the existing data untouched when the ID is already present.
func (g *Graph) AddNode(id string, data interface{}) bool {
	if _, exists := g.nodes[id]; exists {
		return false
	}
	g.nodes[id] = &Node{ID: id, Data: data}
	g.edges[id] = []string{}
	g.parents[id] = []string{}
	return true
}

// AddEdge adds a directed edge from parent to child.
// A self-loop is stored as a cycle of length one.
func (g *Graph) AddEdge(parentID, childID string) error {
	if _, exists := g.nodes[parentID]; !exists {
		return fmt.Errorf("parent node %q does not exist", parentID)
	}
	if _, exists := g.nodes[childID]; !exists {
		return fmt.Errorf("child node %q does not exist", childID)
	}

	// Add edge (avoid duplicates)
	if !contains(g.edges[parentID], childID) {
		g.edges[parentID] = append(g.edges[parentID], childID)
	}
	if !contains(g.parents[childID], parentID) {
		g.parents[childID] = append(g.parents[childID], parentID)
	}

	return nil
}

// GetNode returns a node by ID.
func (g *Graph) GetNode(id string) (*Node, bool) {
	node, exists := g.nodes[id]
	return node, exists
}

// GetParents returns the parents of a node.
func (g *Graph) GetParents(id string) []string {
	return g.parents[id]
}

// GetChildren returns the children of a node in insertion order.
func (g *Graph) GetChildren(id string) []string {
	return g.edges[id]
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, children := range g.edges {
		count += len(children)
	}
	return count
}

// FindCycleFrom reports the first cycle reachable from the given roots, following
// children in insertion order. Cycles in parts of the graph no root reaches are ignored.
func (g *Graph) FindCycleFrom(roots []string) (bool, []string) {
	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[string]int)

	type frame struct {
		id   string
		next int
	}

	for _, root := range roots {
		if _, exists := g.nodes[root]; !exists || state[root] == done {
			continue
		}

		stack := []frame{{id: root}}
		state[root] = onStack
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.edges[top.id]
			if top.next >= len(children) {
				state[top.id] = done
				stack = stack[:len(stack)-1]
				continue
			}
			child := children[top.next]
			top.next++

			switch state[child] {
			case onStack:
				var cyclePath []string
				for i := len(stack) - 1; i >= 0; i-- {
					cyclePath = append([]string{stack[i].id}, cyclePath...)
					if stack[i].id == child {
						break
					}
				}
				return true, append(cyclePath, child)
			case unvisited:
				state[child] = onStack
				stack = append(stack, frame{id: child})
			}
		}
	}

	return false, nil
}

// GetDescendants returns the given nodes and everything reachable below them.
func (g *Graph) GetDescendants(ids []string) []string {
	reached := make(map[string]bool)

	stack := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, exists := g.nodes[id]; exists {
			stack = append(stack, id)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reached[id] {
			continue
		}
		reached[id] = true
		stack = append(stack, g.edges[id]...)
	}

	result := make([]string, 0, len(reached))
	for id := range reached {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}

// GetLeaves returns nodes with no children.
func (g *Graph) GetLeaves() []string {
	var leaves []string
	for id := range g.nodes {
		if len(g.edges[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// contains checks if a slice contains a string.
func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
