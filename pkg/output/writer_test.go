package output

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dukex/contentgraph/pkg/models"
	"github.com/dukex/contentgraph/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func testReport() *models.ExecutionReport {
	return &models.ExecutionReport{
		RunID:     "run-test1234",
		StartedAt: time.Now(),
		Success:   true,
		Nodes: map[string]models.NodeReport{
			"parse_record": {NodeID: "parse_record", Status: models.NodeStatusSucceeded},
		},
	}
}

func TestWriteRun_ReportAndState(t *testing.T) {
	writer := NewWriter(t.TempDir(), testLogger())

	snapshot := state.New().WithOutput("parse_record", map[string]any{"record": "data"})

	files, err := writer.WriteRun("run-test1234", snapshot, testReport())

	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "report.json", filepath.Base(files[0]))
	assert.Equal(t, "state.json", filepath.Base(files[1]))

	raw, err := os.ReadFile(files[0])
	require.NoError(t, err)

	var report map[string]any

	require.NoError(t, json.Unmarshal(raw, &report))
	assert.Equal(t, "run-test1234", report["run_id"])
	assert.Equal(t, true, report["success"])
}

func TestWriteRun_OneFilePerCompiledSection(t *testing.T) {
	root := t.TempDir()
	writer := NewWriter(root, testLogger())

	snapshot := state.New().WithOutput("compile_outputs", map[string]any{
		"product_name": "GlowBoost",
		"faq":          map[string]any{"faq_items": []any{}},
		"product_page": map[string]any{"title": "GlowBoost Overview"},
	})

	files, err := writer.WriteRun("run-abc", snapshot, testReport())

	require.NoError(t, err)
	// report + state + faq + product_page; product_name is inline metadata.
	assert.Len(t, files, 4)

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}

	assert.Contains(t, names, "faq.json")
	assert.Contains(t, names, "product_page.json")
	assert.NotContains(t, names, "product_name.json")

	_, err = os.Stat(filepath.Join(root, "run-abc", "faq.json"))
	assert.NoError(t, err)
}

func TestWriteRun_SeparateDirectoryPerRun(t *testing.T) {
	root := t.TempDir()
	writer := NewWriter(root, testLogger())

	_, err := writer.WriteRun("run-one", state.New(), testReport())
	require.NoError(t, err)

	_, err = writer.WriteRun("run-two", state.New(), testReport())
	require.NoError(t, err)

	for _, run := range []string{"run-one", "run-two"} {
		info, err := os.Stat(filepath.Join(root, run))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
