package protocol

import (
	"context"

	"github.com/dukex/contentgraph/pkg/models"
	"github.com/dukex/contentgraph/pkg/state"
)

// FallbackStrategy is one recovery step of a node's fallback chain.
// Handles declares which error kinds the strategy can absorb; Recover
// attempts to produce a replacement output for the failed node.
type FallbackStrategy interface {
	Handles(kind models.ErrorKind) bool
	Recover(ctx context.Context, snapshot *state.Snapshot, trigger *models.ExecutionError) (any, error)
}
