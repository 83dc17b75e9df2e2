package web

import (
	"log/slog"

	"github.com/dukex/contentgraph/pkg/services"
	"github.com/gofiber/fiber/v3"
)

// APIHandlers holds the handler set for the run API.
type APIHandlers struct {
	logger     *slog.Logger
	runService *services.Run
}

// NewAPIHandlers creates the handler set.
func NewAPIHandlers(logger *slog.Logger, runService *services.Run) *APIHandlers {
	return &APIHandlers{
		logger:     logger,
		runService: runService,
	}
}

// CreateRun accepts a raw product record, executes the pipeline and
// returns the report together with the compiled outputs. Partial
// failure still returns 200: callers inspect per-node status.
func (h *APIHandlers) CreateRun(c fiber.Ctx) error {
	raw := c.Body()
	if len(raw) == 0 {
		return badRequest(c, "request body must contain a product record")
	}

	result, err := h.runService.Execute(c.Context(), raw)
	if err != nil {
		if services.IsValidationError(err) {
			return badRequest(c, err.Error())
		}

		h.logger.Error("Run failed", "error", err)

		return internalError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(RunResponse{
		RunID:   result.Report.RunID,
		Success: result.Report.Success,
		Report:  result.Report,
		Outputs: result.Snapshot.Outputs(),
	})
}

// HealthCheck reports liveness.
func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "ok"})
}
