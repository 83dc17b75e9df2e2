package models

// NodeStatus defines the lifecycle states of a task node within a run.
type NodeStatus string

const (
	NodeStatusPending           NodeStatus = "pending"
	NodeStatusReady             NodeStatus = "ready"
	NodeStatusRunning           NodeStatus = "running"
	NodeStatusSucceeded         NodeStatus = "succeeded"
	NodeStatusFallbackSucceeded NodeStatus = "fallback_succeeded"
	NodeStatusFailed            NodeStatus = "failed"
)

// Terminal reports whether the status is final for the run.
func (s NodeStatus) Terminal() bool {
	switch s {
	case NodeStatusSucceeded, NodeStatusFallbackSucceeded, NodeStatusFailed:
		return true
	default:
		return false
	}
}

// Completed reports whether the node produced a usable output,
// either from its primary action or from a fallback strategy.
func (s NodeStatus) Completed() bool {
	return s == NodeStatusSucceeded || s == NodeStatusFallbackSucceeded
}

// SeedOutputKey is the output slot holding the validated input record
// in the version-0 snapshot.
const SeedOutputKey = "record"
