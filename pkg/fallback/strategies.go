package fallback

import (
	"context"

	"github.com/dukex/contentgraph/pkg/models"
	"github.com/dukex/contentgraph/pkg/protocol"
	"github.com/dukex/contentgraph/pkg/state"
)

// kindSet implements the Handles predicate shared by the built-in
// strategies. An empty set matches every kind.
type kindSet []models.ErrorKind

func (s kindSet) matches(kind models.ErrorKind) bool {
	if len(s) == 0 {
		return true
	}

	for _, k := range s {
		if k == kind {
			return true
		}
	}

	return false
}

// Retry re-invokes an action exactly once. Retries are a declared
// strategy, never an implicit loop: a node's primary action is only
// re-run when its chain carries a Retry step. The action is usually the
// node's primary one rebuilt with adjusted parameters (lower token
// budget, higher timeout).
type Retry struct {
	action protocol.NodeAction
	kinds  kindSet
}

// NewRetry builds a Retry strategy limited to the given error kinds.
// With no kinds it matches any failure.
func NewRetry(action protocol.NodeAction, kinds ...models.ErrorKind) *Retry {
	return &Retry{action: action, kinds: kinds}
}

func (r *Retry) Handles(kind models.ErrorKind) bool {
	return r.kinds.matches(kind)
}

func (r *Retry) Recover(ctx context.Context, snapshot *state.Snapshot, _ *models.ExecutionError) (any, error) {
	return r.action.Execute(ctx, snapshot)
}

// BlockSubstitute computes a replacement output from a registered logic
// block, trading generated content for a deterministic template.
type BlockSubstitute struct {
	registry BlockInvoker
	blockID  string
	kinds    kindSet
}

// BlockInvoker is the narrow slice of the logic block registry this
// strategy needs.
type BlockInvoker interface {
	Invoke(blockID string, snapshot *state.Snapshot) (any, error)
}

// NewBlockSubstitute builds a strategy that invokes blockID on recovery.
func NewBlockSubstitute(registry BlockInvoker, blockID string, kinds ...models.ErrorKind) *BlockSubstitute {
	return &BlockSubstitute{registry: registry, blockID: blockID, kinds: kinds}
}

func (b *BlockSubstitute) Handles(kind models.ErrorKind) bool {
	return b.kinds.matches(kind)
}

func (b *BlockSubstitute) Recover(_ context.Context, snapshot *state.Snapshot, _ *models.ExecutionError) (any, error) {
	return b.registry.Invoke(b.blockID, snapshot)
}

// StaticDefault yields a constant value. It is the most degraded
// strategy and belongs at the end of a chain.
type StaticDefault struct {
	value any
}

// NewStaticDefault builds a strategy returning value for any error kind.
func NewStaticDefault(value any) *StaticDefault {
	return &StaticDefault{value: value}
}

func (s *StaticDefault) Handles(models.ErrorKind) bool {
	return true
}

func (s *StaticDefault) Recover(context.Context, *state.Snapshot, *models.ExecutionError) (any, error) {
	return s.value, nil
}
