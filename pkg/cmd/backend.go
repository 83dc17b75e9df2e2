package cmd

import (
	"log/slog"

	"github.com/dukex/contentgraph/pkg/config"
	"github.com/dukex/contentgraph/pkg/generation"
	"github.com/dukex/contentgraph/pkg/protocol"
)

// NewBackend creates the generation backend selected by the config.
func NewBackend(cfg *config.Config, logger *slog.Logger) protocol.Generator {
	switch cfg.Backend.Type {
	case "http":
		return generation.NewHTTPBackend(logger, cfg.Backend.URL, cfg.APIKey(), cfg.Backend.Model)
	case "static", "":
		return generation.NewStaticBackend()
	default:
		panic("Unsupported generation backend: " + cfg.Backend.Type)
	}
}
