// Package web provides the HTTP surface for submitting content runs.
package web

import "github.com/dukex/contentgraph/pkg/models"

// RunResponse is the API representation of a finished run.
type RunResponse struct {
	RunID   string                  `json:"run_id"`
	Success bool                    `json:"success"`
	Report  *models.ExecutionReport `json:"report"`
	Outputs map[string]any          `json:"outputs"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status string `json:"status"`
}
