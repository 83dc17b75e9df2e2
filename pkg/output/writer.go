// Package output persists the final snapshot and report of a run as
// JSON files. It only ever reads the snapshot; run state itself is
// never carried across runs.
package output

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dukex/contentgraph/pkg/models"
	"github.com/dukex/contentgraph/pkg/state"
)

const (
	dirPerm  = 0o750
	filePerm = 0o600

	// compiledOutputKey is the output slot of the pipeline's final
	// convergence node.
	compiledOutputKey = "compile_outputs"
)

// Writer writes run artifacts under a root directory, one subdirectory
// per run.
type Writer struct {
	logger *slog.Logger
	root   string
}

// NewWriter creates a writer rooted at root.
func NewWriter(root string, logger *slog.Logger) *Writer {
	return &Writer{
		logger: logger,
		root:   root,
	}
}

// WriteRun persists the report, the full snapshot, and one file per
// content section present in the final compiled output. It returns the
// paths written.
func (w *Writer) WriteRun(runID string, snapshot *state.Snapshot, report *models.ExecutionReport) ([]string, error) {
	dir := filepath.Join(w.root, runID)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create run directory %s: %w", dir, err)
	}

	written := make([]string, 0, 4)

	reportPath, err := w.writeJSON(dir, "report.json", report)
	if err != nil {
		return written, err
	}

	written = append(written, reportPath)

	statePath, err := w.writeJSON(dir, "state.json", snapshot)
	if err != nil {
		return written, err
	}

	written = append(written, statePath)

	if compiled, ok := snapshot.Output(compiledOutputKey); ok {
		if sections, ok := compiled.(map[string]any); ok {
			for section, content := range sections {
				if section == "product_name" {
					continue
				}

				path, err := w.writeJSON(dir, section+".json", content)
				if err != nil {
					return written, err
				}

				written = append(written, path)
			}
		}
	}

	w.logger.Info("Run artifacts written", "run_id", runID, "files", len(written), "dir", dir)

	return written, nil
}

func (w *Writer) writeJSON(dir, name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}
