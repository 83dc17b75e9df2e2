package state

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dukex/contentgraph/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_StartsAtVersionZero(t *testing.T) {
	snapshot := New()

	assert.Equal(t, 0, snapshot.Version())
	assert.Empty(t, snapshot.Outputs())
	assert.Empty(t, snapshot.Errors())
}

func TestSeed_CopiesOutputs(t *testing.T) {
	outputs := map[string]any{"record": "value"}
	snapshot := Seed(outputs)

	outputs["record"] = "mutated"

	got, ok := snapshot.Output("record")
	require.True(t, ok)
	assert.Equal(t, "value", got)
	assert.Equal(t, 0, snapshot.Version())
}

func TestWithOutput_ReturnsNewVersion(t *testing.T) {
	base := New()
	next := base.WithOutput("node-a", 42)

	assert.Equal(t, 0, base.Version())
	assert.Equal(t, 1, next.Version())

	_, ok := base.Output("node-a")
	assert.False(t, ok)

	got, ok := next.Output("node-a")
	require.True(t, ok)
	assert.Equal(t, 42, got)
}

func TestWithOutput_VersionsAreContiguous(t *testing.T) {
	snapshot := New()

	for i, id := range []string{"a", "b", "c", "d"} {
		snapshot = snapshot.WithOutput(id, id)
		assert.Equal(t, i+1, snapshot.Version())
	}
}

func TestWithError_AppendsToLedgerAndBumpsVersion(t *testing.T) {
	base := New()
	entry := RecordedError{
		NodeID:    "node-a",
		Kind:      models.KindNodeAction,
		Message:   "boom",
		Timestamp: time.Now(),
	}

	next := base.WithError(entry)

	assert.Empty(t, base.Errors())
	assert.Equal(t, 1, next.Version())

	errs := next.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "node-a", errs[0].NodeID)
	assert.Equal(t, models.KindNodeAction, errs[0].Kind)
}

func TestOutputs_ReturnsCopy(t *testing.T) {
	snapshot := New().WithOutput("node-a", "value")

	outputs := snapshot.Outputs()
	outputs["node-a"] = "mutated"

	got, _ := snapshot.Output("node-a")
	assert.Equal(t, "value", got)
}

func TestMarshalJSON_IncludesVersionOutputsAndErrors(t *testing.T) {
	snapshot := New().
		WithOutput("node-a", "value").
		WithError(RecordedError{NodeID: "node-b", Kind: models.KindTimeout, Message: "too slow"})

	raw, err := json.Marshal(snapshot)
	require.NoError(t, err)

	var doc map[string]any

	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.EqualValues(t, 2, doc["version"])
	assert.Contains(t, doc["outputs"], "node-a")
	assert.Len(t, doc["errors"], 1)
}
