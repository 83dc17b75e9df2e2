// Package blocks provides the logic block registry: a lookup from a
// content-block identifier to a pure, stateless transformation over the
// current snapshot. Blocks are side-effect-free and safe for
// unsynchronized concurrent invocation; registration is append-only at
// setup time.
package blocks

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/dukex/contentgraph/pkg/models"
	"github.com/dukex/contentgraph/pkg/state"
)

// BlockFunc is a pure transformation of the current snapshot.
type BlockFunc func(snapshot *state.Snapshot) (any, error)

// Registry maps block identifiers to their functions.
type Registry struct {
	logger *slog.Logger
	blocks map[string]BlockFunc
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger: logger,
		blocks: make(map[string]BlockFunc),
	}
}

// Register adds a block under blockID. Re-registering an existing ID
// replaces the function; there is no unregistration during a run.
func (r *Registry) Register(blockID string, fn BlockFunc) {
	r.blocks[blockID] = fn
}

// Get returns the block registered under blockID.
func (r *Registry) Get(blockID string) (BlockFunc, error) {
	fn, ok := r.blocks[blockID]
	if !ok {
		return nil, models.NewExecutionError(
			"", models.KindUnknownBlock,
			fmt.Sprintf("logic block '%s' not registered", blockID), nil,
		)
	}

	return fn, nil
}

// Invoke looks up blockID and applies it to the snapshot.
func (r *Registry) Invoke(blockID string, snapshot *state.Snapshot) (any, error) {
	fn, err := r.Get(blockID)
	if err != nil {
		return nil, err
	}

	return fn(snapshot)
}

// IDs returns the registered block identifiers, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.blocks))
	for id := range r.blocks {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}
