// Package graph defines task nodes and the validated dependency graph
// they form. All validation (duplicate IDs, unresolved dependencies,
// cycles) happens at construction; a built Graph is immutable and safe
// for unsynchronized concurrent reads.
package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dukex/contentgraph/pkg/fallback"
	"github.com/dukex/contentgraph/pkg/protocol"
)

var (
	ErrEmptyGraph        = errors.New("graph has no nodes")
	ErrDuplicateNode     = errors.New("duplicate node id")
	ErrUnknownDependency = errors.New("unknown dependency")
	ErrCycle             = errors.New("dependency cycle")
	ErrMissingAction     = errors.New("node has no action")
)

// Node is a unit of work: an identifier, its upstream dependencies, a
// primary action and an optional fallback chain. Nodes are static
// graph definition; per-run status lives in the executor.
type Node struct {
	ID        string
	DependsOn []string
	Action    protocol.NodeAction
	Chain     *fallback.Chain
}

// Graph is a validated, acyclic collection of nodes.
type Graph struct {
	nodes map[string]*Node
	order []string // topological order, dependency-first
}

// New validates the node set and returns the built graph. Any
// malformed topology fails here, before a single node executes.
func New(nodes ...*Node) (*Graph, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyGraph
	}

	byID := make(map[string]*Node, len(nodes))

	for _, node := range nodes {
		if node.Action == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingAction, node.ID)
		}

		if _, exists := byID[node.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, node.ID)
		}

		byID[node.ID] = node
	}

	for _, node := range nodes {
		for _, dep := range node.DependsOn {
			if _, exists := byID[dep]; !exists {
				return nil, fmt.Errorf("%w: node %s depends on %s", ErrUnknownDependency, node.ID, dep)
			}
		}
	}

	g := &Graph{nodes: byID}

	order, err := g.topologicalOrder()
	if err != nil {
		return nil, err
	}

	g.order = order

	return g, nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	node, ok := g.nodes[id]

	return node, ok
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Order returns the node IDs in a topological, dependency-first order.
// The slice is a copy; callers may not assume any particular order
// among independent branches.
func (g *Graph) Order() []string {
	order := make([]string, len(g.order))
	copy(order, g.order)

	return order
}

// Dependents returns the IDs of nodes that directly depend on id.
func (g *Graph) Dependents(id string) []string {
	dependents := make([]string, 0)

	for _, node := range g.nodes {
		for _, dep := range node.DependsOn {
			if dep == id {
				dependents = append(dependents, node.ID)

				break
			}
		}
	}

	sort.Strings(dependents)

	return dependents
}

// topologicalOrder runs a DFS over the dependency edges, detecting
// cycles along the way.
func (g *Graph) topologicalOrder() ([]string, error) {
	visiting := make(map[string]bool, len(g.nodes))
	visited := make(map[string]bool, len(g.nodes))
	order := make([]string, 0, len(g.nodes))

	var visit func(node *Node) error

	visit = func(node *Node) error {
		visiting[node.ID] = true

		for _, dep := range node.DependsOn {
			if visiting[dep] {
				return fmt.Errorf("%w: involving %s", ErrCycle, dep)
			}

			if !visited[dep] {
				if err := visit(g.nodes[dep]); err != nil {
					return err
				}
			}
		}

		delete(visiting, node.ID)
		visited[node.ID] = true
		order = append(order, node.ID)

		return nil
	}

	// Deterministic iteration keeps the computed order stable between runs.
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	for _, id := range ids {
		if !visited[id] {
			if err := visit(g.nodes[id]); err != nil {
				return nil, err
			}
		}
	}

	return order, nil
}
