// Package executor runs a validated task graph over a shared versioned
// snapshot. Node actions execute concurrently on a bounded worker pool;
// the coordinating goroutine is the sole writer of snapshot transitions,
// so version numbers are totally ordered without locks in node logic.
package executor

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/contentgraph/pkg/eventbus"
	"github.com/dukex/contentgraph/pkg/graph"
	"github.com/dukex/contentgraph/pkg/models"
	"github.com/dukex/contentgraph/pkg/state"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const defaultWorkers = 4

// Option configures an Executor.
type Option func(*Executor)

// WithWorkers bounds the worker pool. A pool of one degrades to strict
// sequential execution of the frontier.
func WithWorkers(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithTimeout sets the deployment-level budget for a whole run. When
// exceeded, running nodes are abandoned and every non-terminal node is
// marked failed with the timeout kind.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.timeout = d
	}
}

// WithEventBus makes the executor publish run and node lifecycle events.
func WithEventBus(publisher eventbus.EventPublisher) Option {
	return func(e *Executor) {
		e.events = publisher
	}
}

// WithTracer enables a span per node execution.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Executor) {
		e.tracer = tracer
	}
}

// Executor dispatches ready nodes to a bounded worker pool and applies
// their results to the versioned state.
type Executor struct {
	logger  *slog.Logger
	workers int
	timeout time.Duration
	events  eventbus.EventPublisher
	tracer  trace.Tracer
}

// New creates an executor with the given options.
func New(logger *slog.Logger, opts ...Option) *Executor {
	e := &Executor{
		logger:  logger,
		workers: defaultWorkers,
		tracer:  noop.NewTracerProvider().Tracer("executor"),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Result is the outcome of a run: the final snapshot plus the report.
type Result struct {
	Snapshot *state.Snapshot
	Report   *models.ExecutionReport
}

// dispatch hands a node and the snapshot it must observe to a worker.
// Siblings dispatched from the same frontier receive the identical,
// immutable snapshot.
type dispatch struct {
	node     *graph.Node
	snapshot *state.Snapshot
}

// completion is the worker's terminal report for one node.
type completion struct {
	nodeID       string
	output       any
	fallbackUsed bool
	err          *models.ExecutionError
	duration     time.Duration
}

// nodeRun is the coordinator's per-run bookkeeping for one node.
type nodeRun struct {
	node         *graph.Node
	status       models.NodeStatus
	remaining    int
	duration     time.Duration
	fallbackUsed bool
	err          *models.ExecutionError
}

func generateRunID() string {
	return fmt.Sprintf("run-%s", uuid.New().String()[:8])
}
