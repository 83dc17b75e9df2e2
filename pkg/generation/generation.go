// Package generation implements the backend capability that turns a
// structured request into structured content. The execution core only
// sees the protocol.Generator interface and the backend error kinds.
package generation

import (
	"github.com/dukex/contentgraph/pkg/models"
)

// Request kinds understood by the backends.
const (
	KindQuestions        = "questions"
	KindFictionalProduct = "fictional_product"
	KindProductPage      = "product_page"
	KindFAQ              = "faq"
	KindComparison       = "comparison"
)

func backendError(req models.GenerationRequest, kind models.ErrorKind, message string, err error) *models.ExecutionError {
	return models.NewExecutionError(req.NodeID, kind, message, err)
}
