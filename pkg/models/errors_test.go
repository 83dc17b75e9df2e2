package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionError_ErrorIncludesNodeAndKind(t *testing.T) {
	err := NewExecutionError("generate_faq", KindRateLimited, "quota exceeded", nil)

	assert.Equal(t, "generate_faq: rate_limited: quota exceeded", err.Error())
}

func TestExecutionError_ErrorWithoutNode(t *testing.T) {
	err := NewExecutionError("", KindInvalid, "bad record", nil)

	assert.Equal(t, "invalid: bad record", err.Error())
}

func TestExecutionError_UnwrapReachesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewExecutionError("node-a", KindUnavailable, "backend down", cause)

	assert.ErrorIs(t, err, cause)
}

func TestExecutionError_IsMatchesByKind(t *testing.T) {
	a := NewExecutionError("node-a", KindTimeout, "first", nil)
	b := NewExecutionError("node-b", KindTimeout, "second", nil)
	c := NewExecutionError("node-c", KindInvalid, "third", nil)

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)
}

func TestKindOf_ClassifiedError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewExecutionError("node-a", KindRateLimited, "slow down", nil))

	assert.Equal(t, KindRateLimited, KindOf(err))
}

func TestKindOf_PlainErrorDefaultsToNodeAction(t *testing.T) {
	assert.Equal(t, KindNodeAction, KindOf(errors.New("boom")))
}

func TestAsExecutionError_PlainError(t *testing.T) {
	cause := errors.New("boom")
	execErr := AsExecutionError("node-a", cause)

	assert.Equal(t, "node-a", execErr.NodeID)
	assert.Equal(t, KindNodeAction, execErr.Kind)
	assert.Equal(t, "boom", execErr.Message)
	assert.ErrorIs(t, execErr, cause)
}

func TestAsExecutionError_KeepsExistingAttribution(t *testing.T) {
	original := NewExecutionError("node-b", KindRateLimited, "quota", nil)
	execErr := AsExecutionError("node-a", original)

	assert.Same(t, original, execErr)
}

func TestAsExecutionError_FillsMissingNodeID(t *testing.T) {
	original := NewExecutionError("", KindInvalid, "bad payload", nil)
	execErr := AsExecutionError("node-a", original)

	require.NotSame(t, original, execErr)
	assert.Equal(t, "node-a", execErr.NodeID)
	assert.Equal(t, KindInvalid, execErr.Kind)
}

func TestNodeStatus_Terminal(t *testing.T) {
	assert.True(t, NodeStatusSucceeded.Terminal())
	assert.True(t, NodeStatusFallbackSucceeded.Terminal())
	assert.True(t, NodeStatusFailed.Terminal())
	assert.False(t, NodeStatusPending.Terminal())
	assert.False(t, NodeStatusReady.Terminal())
	assert.False(t, NodeStatusRunning.Terminal())
}

func TestExecutionReport_FailedNodes(t *testing.T) {
	report := &ExecutionReport{
		Nodes: map[string]NodeReport{
			"a": {NodeID: "a", Status: NodeStatusSucceeded},
			"b": {NodeID: "b", Status: NodeStatusFailed},
			"c": {NodeID: "c", Status: NodeStatusFallbackSucceeded},
		},
	}

	assert.Equal(t, []string{"b"}, report.FailedNodes())
}
