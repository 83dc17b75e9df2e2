// Package testutil provides test data builders for graph and executor tests.
package testutil

import (
	"context"
	"errors"

	"github.com/dukex/contentgraph/pkg/fallback"
	"github.com/dukex/contentgraph/pkg/graph"
	"github.com/dukex/contentgraph/pkg/protocol"
	"github.com/dukex/contentgraph/pkg/state"
)

// CreateTestNode creates a node with a succeeding action that can be
// overridden per test.
func CreateTestNode(id string, overrides ...func(*graph.Node)) *graph.Node {
	node := &graph.Node{
		ID:     id,
		Action: StaticAction("output-" + id),
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithDeps sets the node's dependencies.
func WithDeps(deps ...string) func(*graph.Node) {
	return func(n *graph.Node) {
		n.DependsOn = deps
	}
}

// WithAction sets the node's primary action.
func WithAction(action protocol.NodeAction) func(*graph.Node) {
	return func(n *graph.Node) {
		n.Action = action
	}
}

// WithChain sets the node's fallback chain.
func WithChain(chain *fallback.Chain) func(*graph.Node) {
	return func(n *graph.Node) {
		n.Chain = chain
	}
}

// StaticAction returns an action producing a fixed output.
func StaticAction(output any) protocol.NodeAction {
	return protocol.NodeActionFunc(func(context.Context, *state.Snapshot) (any, error) {
		return output, nil
	})
}

// FailingAction returns an action that always fails with message.
func FailingAction(message string) protocol.NodeAction {
	return protocol.NodeActionFunc(func(context.Context, *state.Snapshot) (any, error) {
		return nil, errors.New(message)
	})
}
