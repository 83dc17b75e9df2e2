package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dukex/contentgraph/pkg/events"
	"github.com/dukex/contentgraph/pkg/graph"
	"github.com/dukex/contentgraph/pkg/models"
	"github.com/dukex/contentgraph/pkg/otelhelper"
	"github.com/dukex/contentgraph/pkg/state"
	"go.opentelemetry.io/otel/attribute"
)

// Run executes the graph against the seed snapshot until every node is
// terminal, then returns the final snapshot and the execution report.
// Partial failure is a reportable outcome, not an error: Run returns a
// non-nil error only for a missing graph, never for failed nodes.
func (e *Executor) Run(ctx context.Context, g *graph.Graph, seed *state.Snapshot) (*Result, error) {
	if g == nil || g.Len() == 0 {
		return nil, graph.ErrEmptyGraph
	}

	if seed == nil {
		seed = state.New()
	}

	runID := generateRunID()
	logger := e.logger.With("run_id", runID)
	startedAt := time.Now()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	snapshot := seed
	runs := make(map[string]*nodeRun, g.Len())

	for _, id := range g.Order() {
		node, _ := g.Node(id)
		runs[id] = &nodeRun{
			node:      node,
			status:    models.NodeStatusPending,
			remaining: len(node.DependsOn),
		}
	}

	// Both channels are sized to the node count: the coordinator never
	// blocks dispatching, and abandoned workers never block completing.
	readyCh := make(chan dispatch, g.Len())
	doneCh := make(chan completion, g.Len())

	var wg sync.WaitGroup

	for range e.workers {
		wg.Add(1)

		go func() {
			defer wg.Done()
			e.worker(runCtx, runID, readyCh, doneCh)
		}()
	}

	e.publish(runCtx, runID, events.RunStarted{
		BaseEvent: e.baseEvent(events.RunStartedEvent, runID),
		NodeCount: g.Len(),
	})

	logger.Info("Starting run", "nodes", g.Len(), "workers", e.workers)

	outstanding := g.Len()

	markFailed := func(nr *nodeRun, execErr *models.ExecutionError, duration time.Duration) {
		nr.status = models.NodeStatusFailed
		nr.err = execErr
		nr.duration = duration
		outstanding--

		snapshot = snapshot.WithError(state.RecordedError{
			NodeID:    nr.node.ID,
			Kind:      execErr.Kind,
			Message:   execErr.Message,
			Timestamp: time.Now(),
		})

		e.publish(runCtx, runID, events.NodeFailed{
			BaseEvent:  e.baseEvent(events.NodeFailedEvent, runID),
			NodeID:     nr.node.ID,
			Kind:       execErr.Kind,
			Error:      execErr.Message,
			DurationMs: duration.Milliseconds(),
		})
	}

	// propagate marks every still-pending descendant of a failed node as
	// failed, without invoking its action or fallback chain. Propagation
	// is total: it reaches the whole downstream closure.
	var propagate func(failedID string)

	propagate = func(failedID string) {
		for _, depID := range g.Dependents(failedID) {
			nr := runs[depID]
			if nr.status != models.NodeStatusPending {
				continue
			}

			logger.Warn("Failing node due to upstream failure", "node_id", depID, "upstream", failedID)
			markFailed(nr, models.NewExecutionError(
				depID,
				models.KindUpstreamFailure,
				fmt.Sprintf("upstream node %s failed", failedID),
				nil,
			), 0)
			propagate(depID)
		}
	}

	// dispatchFrontier moves every node whose dependencies are all
	// completed onto the worker queue, pinning the snapshot it will see.
	dispatchFrontier := func() {
		for _, id := range g.Order() {
			nr := runs[id]
			if nr.status != models.NodeStatusPending || nr.remaining != 0 {
				continue
			}

			nr.status = models.NodeStatusReady
			e.publish(runCtx, runID, events.NodeStarted{
				BaseEvent:    e.baseEvent(events.NodeStartedEvent, runID),
				NodeID:       id,
				StateVersion: snapshot.Version(),
			})
			readyCh <- dispatch{node: nr.node, snapshot: snapshot}
		}
	}

	var timeoutCh <-chan time.Time

	if e.timeout > 0 {
		timer := time.NewTimer(e.timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	dispatchFrontier()

	aborted := false

	for outstanding > 0 && !aborted {
		select {
		case <-runCtx.Done():
			aborted = true
		case <-timeoutCh:
			logger.Error("Run exceeded timeout budget", "timeout", e.timeout)

			aborted = true
		case c := <-doneCh:
			nr := runs[c.nodeID]
			nr.fallbackUsed = c.fallbackUsed

			if c.err != nil {
				logger.Error("Node failed", "node_id", c.nodeID, "kind", c.err.Kind, "error", c.err.Message)
				markFailed(nr, c.err, c.duration)
				propagate(c.nodeID)

				continue
			}

			if c.fallbackUsed {
				nr.status = models.NodeStatusFallbackSucceeded
			} else {
				nr.status = models.NodeStatusSucceeded
			}

			nr.duration = c.duration
			outstanding--
			snapshot = snapshot.WithOutput(c.nodeID, c.output)

			e.publish(runCtx, runID, events.NodeFinished{
				BaseEvent:    e.baseEvent(events.NodeFinishedEvent, runID),
				NodeID:       c.nodeID,
				Status:       nr.status,
				FallbackUsed: c.fallbackUsed,
				DurationMs:   c.duration.Milliseconds(),
			})

			for _, depID := range g.Dependents(c.nodeID) {
				dependent := runs[depID]
				if dependent.status == models.NodeStatusPending {
					dependent.remaining--
				}
			}

			dispatchFrontier()
		}
	}

	if aborted {
		cancel()

		for _, id := range g.Order() {
			nr := runs[id]
			if !nr.status.Terminal() {
				markFailed(nr, models.NewExecutionError(
					id,
					models.KindTimeout,
					"run abandoned: timeout budget exceeded",
					runCtx.Err(),
				), nr.duration)
			}
		}
	}

	close(readyCh)

	// Abandoned in-flight actions drain into the buffered doneCh; only a
	// clean run waits for the pool to settle.
	if !aborted {
		wg.Wait()
	}

	report := e.buildReport(runID, startedAt, g, runs)

	if report.Success {
		e.publish(ctx, runID, events.RunCompleted{
			BaseEvent: e.baseEvent(events.RunCompletedEvent, runID),
			Success:   true,
			Duration:  report.Duration,
		})
		logger.Info("Run completed", "duration", report.Duration, "state_version", snapshot.Version())
	} else {
		e.publish(ctx, runID, events.RunFailed{
			BaseEvent: e.baseEvent(events.RunFailedEvent, runID),
			Error:     fmt.Sprintf("%d node(s) failed", len(report.FailedNodes())),
			Duration:  report.Duration,
		})
		logger.Warn("Run finished with failures", "failed_nodes", report.FailedNodes())
	}

	return &Result{Snapshot: snapshot, Report: report}, nil
}

// worker executes dispatched nodes until the ready channel closes.
func (e *Executor) worker(ctx context.Context, runID string, readyCh <-chan dispatch, doneCh chan<- completion) {
	for d := range readyCh {
		start := time.Now()

		if ctx.Err() != nil {
			doneCh <- completion{
				nodeID: d.node.ID,
				err: models.NewExecutionError(
					d.node.ID, models.KindTimeout, "run canceled before node execution", ctx.Err(),
				),
			}

			continue
		}

		spanCtx, span := otelhelper.StartSpan(ctx, e.tracer, "node.execute",
			attribute.String(otelhelper.RunIDKey, runID),
			attribute.String(otelhelper.NodeIDKey, d.node.ID),
		)

		output, fallbackUsed, execErr := e.executeNode(spanCtx, d.node, d.snapshot)
		if execErr != nil {
			otelhelper.SetError(span, execErr)
		}

		span.End()

		doneCh <- completion{
			nodeID:       d.node.ID,
			output:       output,
			fallbackUsed: fallbackUsed,
			err:          execErr,
			duration:     time.Since(start),
		}
	}
}

// executeNode invokes the node's primary action and, on failure, walks
// its fallback chain. The fallbackUsed result is true exactly when the
// primary action failed and a strategy produced the output.
func (e *Executor) executeNode(ctx context.Context, node *graph.Node, snapshot *state.Snapshot) (any, bool, *models.ExecutionError) {
	output, err := node.Action.Execute(ctx, snapshot)
	if err == nil {
		return output, false, nil
	}

	trigger := models.AsExecutionError(node.ID, err)

	if node.Chain.Len() == 0 {
		return nil, false, trigger
	}

	e.logger.Warn("Primary action failed, consulting fallback chain",
		"node_id", node.ID, "kind", trigger.Kind, "strategies", node.Chain.Len())

	recovered, chainErr := node.Chain.Recover(ctx, snapshot, trigger)
	if chainErr != nil {
		return nil, false, chainErr
	}

	return recovered, true, nil
}

func (e *Executor) buildReport(runID string, startedAt time.Time, g *graph.Graph, runs map[string]*nodeRun) *models.ExecutionReport {
	report := &models.ExecutionReport{
		RunID:     runID,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   true,
		Nodes:     make(map[string]models.NodeReport, g.Len()),
	}

	for _, id := range g.Order() {
		nr := runs[id]

		if nr.status == models.NodeStatusFailed {
			report.Success = false
		}

		report.Nodes[id] = models.NodeReport{
			NodeID:       id,
			Status:       nr.status,
			Duration:     nr.duration,
			FallbackUsed: nr.fallbackUsed,
			Error:        nr.err,
		}
	}

	return report
}
