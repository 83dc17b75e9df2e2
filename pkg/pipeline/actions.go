package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/dukex/contentgraph/pkg/blocks"
	"github.com/dukex/contentgraph/pkg/generation"
	"github.com/dukex/contentgraph/pkg/models"
	"github.com/dukex/contentgraph/pkg/protocol"
	"github.com/dukex/contentgraph/pkg/state"
)

const (
	defaultMaxTokens = 2000
	reducedMaxTokens = 800

	defaultTemperature = 0.2

	systemPrompt = "You are a skincare content writer. Respond with structured JSON only."
)

func recordFrom(snapshot *state.Snapshot) (*models.ProductRecord, error) {
	out, ok := snapshot.Output(models.SeedOutputKey)
	if !ok {
		return nil, fmt.Errorf("snapshot has no seeded %q output", models.SeedOutputKey)
	}

	record, ok := out.(*models.ProductRecord)
	if !ok {
		return nil, fmt.Errorf("seeded %q output is %T, not a product record", models.SeedOutputKey, out)
	}

	return record, nil
}

// parseRecord enriches the seeded record with the deterministic logic
// blocks. It is pure and carries no fallback chain.
func (p *Pipeline) parseRecord(_ context.Context, snapshot *state.Snapshot) (any, error) {
	record, err := recordFrom(snapshot)
	if err != nil {
		return nil, err
	}

	benefits, err := p.blocks.Invoke(blocks.BlockBenefitsExpansion, snapshot)
	if err != nil {
		return nil, err
	}

	ingredients, err := p.blocks.Invoke(blocks.BlockIngredientProfiles, snapshot)
	if err != nil {
		return nil, err
	}

	safety, err := p.blocks.Invoke(blocks.BlockSafetyGuidelines, snapshot)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"record":      record,
		"benefits":    benefits,
		"ingredients": ingredients,
		"safety":      safety,
	}, nil
}

// generateAction builds the backend-calling primary action for a node.
// The same constructor backs the declared retry strategies, which pass
// a reduced token budget.
func (p *Pipeline) generateAction(nodeID, kind string, maxTokens int) protocol.NodeAction {
	return protocol.NodeActionFunc(func(ctx context.Context, snapshot *state.Snapshot) (any, error) {
		record, err := recordFrom(snapshot)
		if err != nil {
			return nil, err
		}

		content, err := p.backend.Generate(ctx, models.GenerationRequest{
			NodeID:      nodeID,
			Kind:        kind,
			System:      systemPrompt,
			Prompt:      p.prompt(kind, record, snapshot),
			Temperature: defaultTemperature,
			MaxTokens:   maxTokens,
			Params:      map[string]any{"product_name": record.Name},
		})
		if err != nil {
			return nil, err
		}

		return content.Data, nil
	})
}

// prompt renders the per-kind backend prompt from the record and any
// upstream outputs the kind depends on.
func (p *Pipeline) prompt(kind string, record *models.ProductRecord, snapshot *state.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Product: %s (%s), for %s skin. Key ingredients: %s. Benefits: %s. Price: %s.\n",
		record.Name,
		record.Concentration,
		strings.Join(record.SkinTypes, ", "),
		strings.Join(record.KeyIngredients, ", "),
		strings.Join(record.Benefits, ", "),
		record.Price,
	)

	switch kind {
	case generation.KindQuestions:
		b.WriteString("Generate 10 customer questions across informational, safety, usage, purchase, ingredient and effectiveness categories.")
	case generation.KindFictionalProduct:
		b.WriteString("Invent a realistic competitor product with name, concentration, benefits and price.")
	case generation.KindProductPage:
		b.WriteString("Write a complete product page: title, meta description, hero, benefits, ingredients, usage and safety sections.")
	case generation.KindFAQ:
		if questions, ok := snapshot.Output(NodeQuestions); ok {
			fmt.Fprintf(&b, "Answer each of these questions as FAQ items: %v.", questions)
		} else {
			b.WriteString("Generate FAQ items covering the most common customer questions.")
		}
	case generation.KindComparison:
		if fictional, ok := snapshot.Output(NodeFictionalProduct); ok {
			fmt.Fprintf(&b, "Compare the product against this competitor: %v.", fictional)
		} else {
			b.WriteString("Compare the product against a typical competitor in its category.")
		}
	}

	return b.String()
}

// compileOutputs assembles the final document from every branch. Pure
// convergence node: it reads, never generates.
func (p *Pipeline) compileOutputs(_ context.Context, snapshot *state.Snapshot) (any, error) {
	record, err := recordFrom(snapshot)
	if err != nil {
		return nil, err
	}

	compiled := map[string]any{
		"product_name": record.Name,
	}

	sections := map[string]string{
		"parsed":       NodeParseRecord,
		"questions":    NodeQuestions,
		"faq":          NodeFAQ,
		"product_page": NodeProductPage,
		"comparison":   NodeComparison,
	}

	for section, nodeID := range sections {
		if out, ok := snapshot.Output(nodeID); ok {
			compiled[section] = out
		}
	}

	return compiled, nil
}
