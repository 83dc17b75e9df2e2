// Package protocol defines the boundary contracts between the execution
// core and its collaborators.
package protocol

import (
	"context"

	"github.com/dukex/contentgraph/pkg/state"
)

// NodeAction is the primary unit of work attached to a task node.
// Implementations must treat the snapshot as read-only and must not
// retain a reference to it beyond the call.
type NodeAction interface {
	Execute(ctx context.Context, snapshot *state.Snapshot) (any, error)
}

// NodeActionFunc adapts a plain function to the NodeAction interface.
type NodeActionFunc func(ctx context.Context, snapshot *state.Snapshot) (any, error)

func (f NodeActionFunc) Execute(ctx context.Context, snapshot *state.Snapshot) (any, error) {
	return f(ctx, snapshot)
}
