// Package models defines the core domain models for graph-based content runs.
package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure for fallback matching and reporting.
type ErrorKind string

const (
	// Run-level kinds produced by the executor.
	KindUpstreamFailure   ErrorKind = "upstream_failure"
	KindNodeAction        ErrorKind = "node_action"
	KindFallbackExhausted ErrorKind = "fallback_exhausted"
	KindTimeout           ErrorKind = "timeout"

	// Kinds surfaced by the generation backend.
	KindRateLimited ErrorKind = "rate_limited"
	KindNotFound    ErrorKind = "not_found"
	KindInvalid     ErrorKind = "invalid"
	KindUnavailable ErrorKind = "unavailable"

	// Kind surfaced by the logic block registry.
	KindUnknownBlock ErrorKind = "unknown_block"
)

// ExecutionError is the failure type flowing through node execution,
// fallback matching and the error ledger.
type ExecutionError struct {
	NodeID  string    `json:"node_id,omitempty"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *ExecutionError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("%s: %s: %s", e.NodeID, e.Kind, e.Message)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func (e *ExecutionError) Is(target error) bool {
	var other *ExecutionError
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}

	return errors.Is(e.Err, target)
}

// NewExecutionError builds an ExecutionError for the given node and kind.
func NewExecutionError(nodeID string, kind ErrorKind, message string, err error) *ExecutionError {
	return &ExecutionError{
		NodeID:  nodeID,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// KindOf extracts the error kind from err, defaulting to KindNodeAction
// for errors that carry no classification.
func KindOf(err error) ErrorKind {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Kind
	}

	return KindNodeAction
}

// AsExecutionError normalizes err into an *ExecutionError attributed to nodeID.
func AsExecutionError(nodeID string, err error) *ExecutionError {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		if execErr.NodeID == "" {
			return NewExecutionError(nodeID, execErr.Kind, execErr.Message, execErr)
		}

		return execErr
	}

	return NewExecutionError(nodeID, KindNodeAction, err.Error(), err)
}
