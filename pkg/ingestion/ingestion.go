// Package ingestion validates a raw product record and seeds the
// version-0 snapshot for a run. Validation failures happen before the
// executor is ever invoked.
package ingestion

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/contentgraph/pkg/models"
	"github.com/dukex/contentgraph/pkg/state"
	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

// recordSchema is the structural gate applied to the raw JSON before it
// is decoded into a ProductRecord.
const recordSchema = `{
	"type": "object",
	"required": ["name", "concentration", "skin_types", "key_ingredients", "benefits", "how_to_use", "price"],
	"properties": {
		"name":            {"type": "string"},
		"concentration":   {"type": "string"},
		"skin_types":      {"type": "array", "items": {"type": "string"}},
		"key_ingredients": {"type": "array", "items": {"type": "string"}},
		"benefits":        {"type": "array", "items": {"type": "string"}},
		"how_to_use":      {"type": "string"},
		"side_effects":    {"type": "string"},
		"price":           {"type": "string"}
	}
}`

// Ingestor validates raw records and produces seed snapshots.
type Ingestor struct {
	logger   *slog.Logger
	validate *validator.Validate
	schema   gojsonschema.JSONLoader
}

// New creates an ingestor.
func New(logger *slog.Logger) *Ingestor {
	return &Ingestor{
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		schema:   gojsonschema.NewStringLoader(recordSchema),
	}
}

// Ingest validates raw JSON as a product record and returns the seeded
// version-0 snapshot holding it.
func (i *Ingestor) Ingest(raw []byte) (*state.Snapshot, error) {
	record, err := i.Parse(raw)
	if err != nil {
		return nil, err
	}

	i.logger.Debug("Record ingested", "product", record.Name)

	return state.Seed(map[string]any{models.SeedOutputKey: record}), nil
}

// Parse validates raw JSON and decodes it into a product record.
func (i *Ingestor) Parse(raw []byte) (*models.ProductRecord, error) {
	result, err := gojsonschema.Validate(i.schema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, models.NewExecutionError("", models.KindInvalid, "record is not valid JSON", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return nil, models.NewExecutionError("", models.KindInvalid,
			fmt.Sprintf("record failed schema validation: %s", strings.Join(details, "; ")), nil)
	}

	var record models.ProductRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, models.NewExecutionError("", models.KindInvalid, "failed to decode record", err)
	}

	if err := i.validate.Struct(&record); err != nil {
		return nil, models.NewExecutionError("", models.KindInvalid,
			fmt.Sprintf("record failed validation: %v", err), err)
	}

	return &record, nil
}
