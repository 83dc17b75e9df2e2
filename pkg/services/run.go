// Package services provides the run orchestration service shared by
// the CLI and the API: ingest a record, execute the pipeline graph,
// persist the artifacts.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dukex/contentgraph/pkg/executor"
	"github.com/dukex/contentgraph/pkg/ingestion"
	"github.com/dukex/contentgraph/pkg/models"
	"github.com/dukex/contentgraph/pkg/output"
	"github.com/dukex/contentgraph/pkg/pipeline"
	"github.com/dukex/contentgraph/pkg/state"
)

// Run executes complete content runs.
type Run struct {
	logger   *slog.Logger
	ingestor *ingestion.Ingestor
	pipeline *pipeline.Pipeline
	executor *executor.Executor
	writer   *output.Writer
}

// NewRun creates a run service. The writer may be nil when callers do
// not want artifacts on disk.
func NewRun(
	logger *slog.Logger,
	ingestor *ingestion.Ingestor,
	pipe *pipeline.Pipeline,
	exec *executor.Executor,
	writer *output.Writer,
) *Run {
	return &Run{
		logger:   logger,
		ingestor: ingestor,
		pipeline: pipe,
		executor: exec,
		writer:   writer,
	}
}

// RunResult is the outcome handed back to callers.
type RunResult struct {
	Report   *models.ExecutionReport
	Snapshot *state.Snapshot
	Files    []string
}

// Execute ingests the raw record and runs the pipeline graph to a
// fixed point. Validation and graph construction errors are returned
// directly; node failures are reported, not returned.
func (s *Run) Execute(ctx context.Context, raw []byte) (*RunResult, error) {
	seed, err := s.ingestor.Ingest(raw)
	if err != nil {
		return nil, err
	}

	g, err := s.pipeline.Graph()
	if err != nil {
		return nil, err
	}

	result, err := s.executor.Run(ctx, g, seed)
	if err != nil {
		return nil, err
	}

	runResult := &RunResult{
		Report:   result.Report,
		Snapshot: result.Snapshot,
	}

	if s.writer != nil {
		files, err := s.writer.WriteRun(result.Report.RunID, result.Snapshot, result.Report)
		if err != nil {
			return runResult, err
		}

		runResult.Files = files
	}

	return runResult, nil
}

// IsValidationError reports whether err comes from record validation
// and should surface as a client error.
func IsValidationError(err error) bool {
	var execErr *models.ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Kind == models.KindInvalid
	}

	return false
}
