package generation

import (
	"context"
	"fmt"

	"github.com/dukex/contentgraph/pkg/models"
)

// StaticBackend produces deterministic canned content. It backs local
// development and tests, where runs must succeed without network access.
type StaticBackend struct{}

// NewStaticBackend creates the offline backend.
func NewStaticBackend() *StaticBackend {
	return &StaticBackend{}
}

// Generate implements protocol.Generator with fixed, kind-shaped content.
func (b *StaticBackend) Generate(_ context.Context, req models.GenerationRequest) (*models.GeneratedContent, error) {
	subject := req.Params["product_name"]
	if subject == nil {
		subject = "the product"
	}

	var data map[string]any

	switch req.Kind {
	case KindQuestions:
		data = map[string]any{
			"questions": []map[string]any{
				{"question": fmt.Sprintf("What is %v used for?", subject), "category": "informational", "priority": 5},
				{"question": fmt.Sprintf("How often should I apply %v?", subject), "category": "usage", "priority": 4},
				{"question": fmt.Sprintf("Can %v irritate sensitive skin?", subject), "category": "safety", "priority": 4},
			},
		}
	case KindFictionalProduct:
		data = map[string]any{
			"name":          fmt.Sprintf("%v Rival Formula", subject),
			"concentration": "8% active complex",
			"benefits":      []string{"brightening", "hydrating"},
			"price":         "$39",
		}
	case KindProductPage:
		data = map[string]any{
			"title":            fmt.Sprintf("%v - Product Overview", subject),
			"meta_description": fmt.Sprintf("Everything you need to know about %v.", subject),
			"hero":             map[string]any{"headline": fmt.Sprintf("Meet %v", subject)},
		}
	case KindFAQ:
		data = map[string]any{
			"faq_items": []map[string]any{
				{"question": fmt.Sprintf("Does %v really work?", subject), "answer": "Results depend on consistent daily use.", "category": "effectiveness"},
			},
		}
	case KindComparison:
		data = map[string]any{
			"comparison_points": []map[string]any{
				{"point": "concentration", "summary": "Both formulas target the same concerns at different strengths."},
			},
			"summary": fmt.Sprintf("%v compares favorably on value.", subject),
		}
	default:
		return nil, backendError(req, models.KindNotFound,
			fmt.Sprintf("unknown generation kind '%s'", req.Kind), nil)
	}

	return &models.GeneratedContent{
		Kind: req.Kind,
		Text: fmt.Sprintf("static %s content for %v", req.Kind, subject),
		Data: data,
	}, nil
}
