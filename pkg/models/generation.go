package models

// GenerationRequest is the structured request handed to the generation backend.
type GenerationRequest struct {
	NodeID      string         `json:"node_id"`
	Kind        string         `json:"kind"` // questions, faq, product_page, comparison, fictional_product
	System      string         `json:"system,omitempty"`
	Prompt      string         `json:"prompt"`
	Temperature float64        `json:"temperature"`
	MaxTokens   int            `json:"max_tokens"`
	Params      map[string]any `json:"params,omitempty"`
}

// GeneratedContent is the structured content returned by the backend.
type GeneratedContent struct {
	Kind string         `json:"kind"`
	Text string         `json:"text,omitempty"`
	Data map[string]any `json:"data,omitempty"`
}
