// Package fallback implements the ordered recovery chain tried after a
// node's primary action fails. Strategies are declared from least
// degraded (retry with adjusted parameters) to most degraded (a static
// default value); the chain stops at the first success.
package fallback

import (
	"context"

	"github.com/dukex/contentgraph/pkg/models"
	"github.com/dukex/contentgraph/pkg/protocol"
	"github.com/dukex/contentgraph/pkg/state"
)

// Chain is an immutable, ordered list of recovery strategies. A nil
// chain behaves like an empty one.
type Chain struct {
	strategies []protocol.FallbackStrategy
}

// NewChain builds a chain from strategies in declared order.
func NewChain(strategies ...protocol.FallbackStrategy) *Chain {
	return &Chain{strategies: strategies}
}

// Len returns the number of declared strategies.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}

	return len(c.strategies)
}

// Recover tries every strategy whose Handles predicate matches the
// trigger's kind, in declared order. It returns the first successful
// output, or the innermost error: the one from the last attempted
// strategy, or the trigger itself when no strategy matched.
func (c *Chain) Recover(ctx context.Context, snapshot *state.Snapshot, trigger *models.ExecutionError) (any, *models.ExecutionError) {
	if c.Len() == 0 {
		return nil, trigger
	}

	innermost := trigger
	attempted := false

	for _, strategy := range c.strategies {
		if !strategy.Handles(trigger.Kind) {
			continue
		}

		attempted = true

		output, err := strategy.Recover(ctx, snapshot, trigger)
		if err == nil {
			return output, nil
		}

		innermost = models.AsExecutionError(trigger.NodeID, err)
	}

	if !attempted {
		return nil, trigger
	}

	return nil, models.NewExecutionError(
		trigger.NodeID,
		models.KindFallbackExhausted,
		innermost.Message,
		innermost,
	)
}
