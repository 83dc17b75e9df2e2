package graph

import (
	"context"
	"testing"

	"github.com/dukex/contentgraph/pkg/protocol"
	"github.com/dukex/contentgraph/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopAction() protocol.NodeAction {
	return protocol.NodeActionFunc(func(context.Context, *state.Snapshot) (any, error) {
		return nil, nil
	})
}

func TestNew_EmptyGraph(t *testing.T) {
	_, err := New()

	assert.ErrorIs(t, err, ErrEmptyGraph)
}

func TestNew_MissingAction(t *testing.T) {
	_, err := New(&Node{ID: "a"})

	assert.ErrorIs(t, err, ErrMissingAction)
}

func TestNew_DuplicateNode(t *testing.T) {
	_, err := New(
		&Node{ID: "a", Action: noopAction()},
		&Node{ID: "a", Action: noopAction()},
	)

	assert.ErrorIs(t, err, ErrDuplicateNode)
}

func TestNew_UnknownDependency(t *testing.T) {
	_, err := New(
		&Node{ID: "a", DependsOn: []string{"ghost"}, Action: noopAction()},
	)

	assert.ErrorIs(t, err, ErrUnknownDependency)
}

func TestNew_DetectsTwoNodeCycle(t *testing.T) {
	_, err := New(
		&Node{ID: "a", DependsOn: []string{"b"}, Action: noopAction()},
		&Node{ID: "b", DependsOn: []string{"a"}, Action: noopAction()},
	)

	assert.ErrorIs(t, err, ErrCycle)
}

func TestNew_DetectsLongerCycle(t *testing.T) {
	_, err := New(
		&Node{ID: "a", DependsOn: []string{"c"}, Action: noopAction()},
		&Node{ID: "b", DependsOn: []string{"a"}, Action: noopAction()},
		&Node{ID: "c", DependsOn: []string{"b"}, Action: noopAction()},
	)

	assert.ErrorIs(t, err, ErrCycle)
}

func TestOrder_DependenciesComeFirst(t *testing.T) {
	g, err := New(
		&Node{ID: "compile", DependsOn: []string{"left", "right"}, Action: noopAction()},
		&Node{ID: "left", DependsOn: []string{"parse"}, Action: noopAction()},
		&Node{ID: "right", DependsOn: []string{"parse"}, Action: noopAction()},
		&Node{ID: "parse", Action: noopAction()},
	)
	require.NoError(t, err)

	order := g.Order()
	require.Len(t, order, 4)

	position := make(map[string]int, len(order))
	for i, id := range order {
		position[id] = i
	}

	assert.Less(t, position["parse"], position["left"])
	assert.Less(t, position["parse"], position["right"])
	assert.Less(t, position["left"], position["compile"])
	assert.Less(t, position["right"], position["compile"])
}

func TestDependents_DirectOnly(t *testing.T) {
	g, err := New(
		&Node{ID: "parse", Action: noopAction()},
		&Node{ID: "questions", DependsOn: []string{"parse"}, Action: noopAction()},
		&Node{ID: "faq", DependsOn: []string{"questions"}, Action: noopAction()},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"questions"}, g.Dependents("parse"))
	assert.Equal(t, []string{"faq"}, g.Dependents("questions"))
	assert.Empty(t, g.Dependents("faq"))
}

func TestNode_Lookup(t *testing.T) {
	g, err := New(&Node{ID: "a", Action: noopAction()})
	require.NoError(t, err)

	node, ok := g.Node("a")
	require.True(t, ok)
	assert.Equal(t, "a", node.ID)

	_, ok = g.Node("missing")
	assert.False(t, ok)
}
