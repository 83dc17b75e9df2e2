package protocol

import (
	"context"

	"github.com/dukex/contentgraph/pkg/models"
)

// Generator is the opaque generation backend capability. Failures carry
// one of the backend error kinds (rate_limited, not_found, invalid,
// unavailable); the core never interprets backend payloads beyond that.
type Generator interface {
	Generate(ctx context.Context, req models.GenerationRequest) (*models.GeneratedContent, error)
}
