// Package pipeline assembles the deployment's fixed task graph: parsing
// fans out into independent generation branches that converge on a
// final compilation node. Topology is static; only the input record and
// the backend vary between runs.
package pipeline

import (
	"log/slog"

	"github.com/dukex/contentgraph/pkg/blocks"
	"github.com/dukex/contentgraph/pkg/fallback"
	"github.com/dukex/contentgraph/pkg/generation"
	"github.com/dukex/contentgraph/pkg/graph"
	"github.com/dukex/contentgraph/pkg/models"
	"github.com/dukex/contentgraph/pkg/protocol"
)

// Node identifiers of the content pipeline.
const (
	NodeParseRecord      = "parse_record"
	NodeQuestions        = "generate_questions"
	NodeFictionalProduct = "create_fictional_product"
	NodeProductPage      = "generate_product_page"
	NodeFAQ              = "generate_faq"
	NodeComparison       = "generate_comparison"
	NodeCompileOutputs   = "compile_outputs"
)

// Pipeline wires the generation backend and the logic block registry
// into task nodes.
type Pipeline struct {
	logger  *slog.Logger
	backend protocol.Generator
	blocks  *blocks.Registry
}

// New creates a pipeline over the given backend and block registry.
func New(logger *slog.Logger, backend protocol.Generator, registry *blocks.Registry) *Pipeline {
	return &Pipeline{
		logger:  logger,
		backend: backend,
		blocks:  registry,
	}
}

// Graph builds and validates the pipeline's task graph. Each generation
// node carries a fallback chain ordered least to most degraded: one
// declared retry with a reduced token budget, then a deterministic
// substitute.
func (p *Pipeline) Graph() (*graph.Graph, error) {
	recoverableKinds := []models.ErrorKind{
		models.KindRateLimited,
		models.KindUnavailable,
		models.KindInvalid,
	}

	questionsChain := fallback.NewChain(
		fallback.NewRetry(p.generateAction(NodeQuestions, generation.KindQuestions, reducedMaxTokens), recoverableKinds...),
		fallback.NewBlockSubstitute(p.blocks, blocks.BlockTemplateQuestions),
	)

	fictionalChain := fallback.NewChain(
		fallback.NewRetry(p.generateAction(NodeFictionalProduct, generation.KindFictionalProduct, reducedMaxTokens), recoverableKinds...),
		fallback.NewStaticDefault(defaultFictionalProduct()),
	)

	pageChain := fallback.NewChain(
		fallback.NewRetry(p.generateAction(NodeProductPage, generation.KindProductPage, reducedMaxTokens), recoverableKinds...),
		fallback.NewBlockSubstitute(p.blocks, blocks.BlockBenefitsExpansion),
	)

	faqChain := fallback.NewChain(
		fallback.NewRetry(p.generateAction(NodeFAQ, generation.KindFAQ, reducedMaxTokens), recoverableKinds...),
		fallback.NewStaticDefault(defaultFAQ()),
	)

	comparisonChain := fallback.NewChain(
		fallback.NewRetry(p.generateAction(NodeComparison, generation.KindComparison, reducedMaxTokens), recoverableKinds...),
		fallback.NewStaticDefault(defaultComparison()),
	)

	return graph.New(
		&graph.Node{
			ID:     NodeParseRecord,
			Action: protocol.NodeActionFunc(p.parseRecord),
		},
		&graph.Node{
			ID:        NodeQuestions,
			DependsOn: []string{NodeParseRecord},
			Action:    p.generateAction(NodeQuestions, generation.KindQuestions, defaultMaxTokens),
			Chain:     questionsChain,
		},
		&graph.Node{
			ID:        NodeFictionalProduct,
			DependsOn: []string{NodeParseRecord},
			Action:    p.generateAction(NodeFictionalProduct, generation.KindFictionalProduct, defaultMaxTokens),
			Chain:     fictionalChain,
		},
		&graph.Node{
			ID:        NodeProductPage,
			DependsOn: []string{NodeParseRecord},
			Action:    p.generateAction(NodeProductPage, generation.KindProductPage, defaultMaxTokens),
			Chain:     pageChain,
		},
		&graph.Node{
			ID:        NodeFAQ,
			DependsOn: []string{NodeQuestions},
			Action:    p.generateAction(NodeFAQ, generation.KindFAQ, defaultMaxTokens),
			Chain:     faqChain,
		},
		&graph.Node{
			ID:        NodeComparison,
			DependsOn: []string{NodeParseRecord, NodeFictionalProduct},
			Action:    p.generateAction(NodeComparison, generation.KindComparison, defaultMaxTokens),
			Chain:     comparisonChain,
		},
		&graph.Node{
			ID:        NodeCompileOutputs,
			DependsOn: []string{NodeFAQ, NodeProductPage, NodeComparison},
			Action:    protocol.NodeActionFunc(p.compileOutputs),
		},
	)
}

func defaultFictionalProduct() map[string]any {
	return map[string]any{
		"name":          "Comparable Formula X",
		"concentration": "5% active complex",
		"benefits":      []string{"brightening"},
		"price":         "$29",
	}
}

func defaultFAQ() map[string]any {
	return map[string]any{
		"faq_items": []map[string]any{
			{
				"question": "How soon can I expect results?",
				"answer":   "Most users see visible changes after several weeks of consistent use.",
				"category": "effectiveness",
			},
		},
	}
}

func defaultComparison() map[string]any {
	return map[string]any{
		"comparison_points": []map[string]any{},
		"summary":           "Comparison unavailable for this run.",
	}
}
