package executor

import (
	"context"
	"time"

	"github.com/dukex/contentgraph/pkg/eventbus"
	"github.com/dukex/contentgraph/pkg/events"
	"github.com/google/uuid"
)

// publish sends a lifecycle event on the configured bus. Event delivery
// is best effort; a publish failure never affects the run.
func (e *Executor) publish(ctx context.Context, runID string, event eventbus.Event) {
	if e.events == nil {
		return
	}

	if err := e.events.Publish(ctx, runID, event); err != nil {
		e.logger.Warn("Failed to publish event", "event_type", event.GetType(), "error", err)
	}
}

func (e *Executor) baseEvent(eventType events.EventType, runID string) events.BaseEvent {
	return events.BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		RunID:     runID,
	}
}
