// Package events defines event types for run and node lifecycle notifications.
package events

import (
	"time"

	"github.com/dukex/contentgraph/pkg/models"
)

type EventType string

// Topic carries all run lifecycle events.
const Topic = "contentgraph.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	RunStartedEvent   EventType = "run.started"
	RunCompletedEvent EventType = "run.completed"
	RunFailedEvent    EventType = "run.failed"

	NodeStartedEvent  EventType = "node.started"
	NodeFinishedEvent EventType = "node.finished"
	NodeFailedEvent   EventType = "node.failed"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	RunID     string         `json:"run_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type RunStarted struct {
	BaseEvent

	NodeCount int `json:"node_count"`
}

func (e RunStarted) GetType() EventType {
	return RunStartedEvent
}

type RunCompleted struct {
	BaseEvent

	Success  bool          `json:"success"`
	Duration time.Duration `json:"duration"`
}

func (e RunCompleted) GetType() EventType {
	return RunCompletedEvent
}

type RunFailed struct {
	BaseEvent

	Error    string        `json:"error"`
	Duration time.Duration `json:"duration"`
}

func (e RunFailed) GetType() EventType {
	return RunFailedEvent
}

type NodeStarted struct {
	BaseEvent

	NodeID       string `json:"node_id"`
	StateVersion int    `json:"state_version"`
}

func (e NodeStarted) GetType() EventType {
	return NodeStartedEvent
}

// NodeFinished reports a node reaching a terminal non-failed state.
type NodeFinished struct {
	BaseEvent

	NodeID       string            `json:"node_id"`
	Status       models.NodeStatus `json:"status"`
	FallbackUsed bool              `json:"fallback_used"`
	DurationMs   int64             `json:"duration_ms"`
}

func (e NodeFinished) GetType() EventType {
	return NodeFinishedEvent
}

type NodeFailed struct {
	BaseEvent

	NodeID     string           `json:"node_id"`
	Kind       models.ErrorKind `json:"kind"`
	Error      string           `json:"error"`
	DurationMs int64            `json:"duration_ms"`
}

func (e NodeFailed) GetType() EventType {
	return NodeFailedEvent
}
