package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukex/contentgraph/pkg/models"
)

const defaultRequestTimeout = 60 * time.Second

// HTTPBackend calls a JSON-over-HTTP generation service. Backend
// failures are mapped onto the four opaque error kinds the core matches
// fallback strategies against.
type HTTPBackend struct {
	logger *slog.Logger
	client *http.Client
	url    string
	apiKey string
	model  string
}

// NewHTTPBackend creates a backend client for the given endpoint.
func NewHTTPBackend(logger *slog.Logger, url, apiKey, model string) *HTTPBackend {
	return &HTTPBackend{
		logger: logger,
		client: &http.Client{Timeout: defaultRequestTimeout},
		url:    url,
		apiKey: apiKey,
		model:  model,
	}
}

type generateRequestBody struct {
	Model       string         `json:"model"`
	Kind        string         `json:"kind"`
	System      string         `json:"system,omitempty"`
	Prompt      string         `json:"prompt"`
	Temperature float64        `json:"temperature"`
	MaxTokens   int            `json:"max_tokens"`
	Params      map[string]any `json:"params,omitempty"`
}

type generateResponseBody struct {
	Text string         `json:"text"`
	Data map[string]any `json:"data"`
}

// Generate implements protocol.Generator.
func (b *HTTPBackend) Generate(ctx context.Context, req models.GenerationRequest) (*models.GeneratedContent, error) {
	payload, err := json.Marshal(generateRequestBody{
		Model:       b.model,
		Kind:        req.Kind,
		System:      req.System,
		Prompt:      req.Prompt,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Params:      req.Params,
	})
	if err != nil {
		return nil, backendError(req, models.KindInvalid, "failed to encode generation request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(payload))
	if err != nil {
		return nil, backendError(req, models.KindInvalid, "failed to build generation request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, backendError(req, models.KindUnavailable, "generation backend unreachable", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, b.statusError(req, resp.StatusCode)
	}

	var body generateResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, backendError(req, models.KindInvalid, "malformed generation response", err)
	}

	b.logger.Debug("Generation succeeded", "node_id", req.NodeID, "kind", req.Kind)

	return &models.GeneratedContent{
		Kind: req.Kind,
		Text: body.Text,
		Data: body.Data,
	}, nil
}

func (b *HTTPBackend) statusError(req models.GenerationRequest, status int) *models.ExecutionError {
	message := fmt.Sprintf("generation backend returned status %d", status)

	switch {
	case status == http.StatusTooManyRequests:
		return backendError(req, models.KindRateLimited, message, nil)
	case status == http.StatusNotFound:
		return backendError(req, models.KindNotFound, message, nil)
	case status >= 400 && status < 500:
		return backendError(req, models.KindInvalid, message, nil)
	default:
		return backendError(req, models.KindUnavailable, message, nil)
	}
}
