// Package state provides the immutable, versioned snapshot container
// shared by all nodes of a run. Snapshots are copy-on-write: every
// mutation returns a new snapshot with version = previous + 1, and a
// published snapshot is never changed afterwards.
package state

import (
	"encoding/json"
	"time"

	"github.com/dukex/contentgraph/pkg/models"
)

// RecordedError is one entry of the append-only error ledger.
type RecordedError struct {
	NodeID    string           `json:"node_id"`
	Kind      models.ErrorKind `json:"kind"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
}

// Snapshot is a single immutable state version. The zero value is not
// usable; construct via New or Seed.
type Snapshot struct {
	version int
	outputs map[string]any
	errors  []RecordedError
}

// New returns an empty version-0 snapshot.
func New() *Snapshot {
	return &Snapshot{
		version: 0,
		outputs: map[string]any{},
	}
}

// Seed returns a version-0 snapshot pre-populated with the given outputs.
// The ingestion collaborator uses this to hand the validated input record
// to the executor.
func Seed(outputs map[string]any) *Snapshot {
	copied := make(map[string]any, len(outputs))
	for k, v := range outputs {
		copied[k] = v
	}

	return &Snapshot{
		version: 0,
		outputs: copied,
	}
}

// Version returns the snapshot's version number.
func (s *Snapshot) Version() int {
	return s.version
}

// Output returns the recorded output for nodeID.
func (s *Snapshot) Output(nodeID string) (any, bool) {
	out, ok := s.outputs[nodeID]

	return out, ok
}

// Outputs returns a copy of the node output map.
func (s *Snapshot) Outputs() map[string]any {
	copied := make(map[string]any, len(s.outputs))
	for k, v := range s.outputs {
		copied[k] = v
	}

	return copied
}

// Errors returns a copy of the error ledger.
func (s *Snapshot) Errors() []RecordedError {
	copied := make([]RecordedError, len(s.errors))
	copy(copied, s.errors)

	return copied
}

// WithOutput returns a new snapshot extended with the output of nodeID.
func (s *Snapshot) WithOutput(nodeID string, output any) *Snapshot {
	next := s.clone()
	next.outputs[nodeID] = output

	return next
}

// WithError returns a new snapshot whose ledger is extended with entry.
func (s *Snapshot) WithError(entry RecordedError) *Snapshot {
	next := s.clone()
	next.errors = append(next.errors, entry)

	return next
}

func (s *Snapshot) clone() *Snapshot {
	outputs := make(map[string]any, len(s.outputs)+1)
	for k, v := range s.outputs {
		outputs[k] = v
	}

	errs := make([]RecordedError, len(s.errors), len(s.errors)+1)
	copy(errs, s.errors)

	return &Snapshot{
		version: s.version + 1,
		outputs: outputs,
		errors:  errs,
	}
}

// snapshotDocument is the serialized form of a snapshot.
type snapshotDocument struct {
	Version int             `json:"version"`
	Outputs map[string]any  `json:"outputs"`
	Errors  []RecordedError `json:"errors"`
}

// MarshalJSON serializes the snapshot for the output writer and the API.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotDocument{
		Version: s.version,
		Outputs: s.outputs,
		Errors:  s.errors,
	})
}
