package models

import "time"

// NodeReport is the per-node entry of an ExecutionReport.
type NodeReport struct {
	NodeID       string          `json:"node_id"`
	Status       NodeStatus      `json:"status"`
	Duration     time.Duration   `json:"duration"`
	FallbackUsed bool            `json:"fallback_used"`
	Error        *ExecutionError `json:"error,omitempty"`
}

// ExecutionReport summarizes a finished run. It is assembled once,
// after every node reached a terminal state.
type ExecutionReport struct {
	RunID     string                `json:"run_id"`
	StartedAt time.Time             `json:"started_at"`
	Duration  time.Duration         `json:"duration"`
	Success   bool                  `json:"success"`
	Nodes     map[string]NodeReport `json:"nodes"`
}

// Node returns the report entry for nodeID, if present.
func (r *ExecutionReport) Node(nodeID string) (NodeReport, bool) {
	nr, ok := r.Nodes[nodeID]

	return nr, ok
}

// FailedNodes lists the IDs of nodes that ended in a failed state.
func (r *ExecutionReport) FailedNodes() []string {
	failed := make([]string, 0)

	for id, nr := range r.Nodes {
		if nr.Status == NodeStatusFailed {
			failed = append(failed, id)
		}
	}

	return failed
}
