package blocks

import (
	"fmt"
	"strings"

	"github.com/dukex/contentgraph/pkg/models"
	"github.com/dukex/contentgraph/pkg/state"
)

// Built-in block identifiers.
const (
	BlockBenefitsExpansion  = "benefits_expansion"
	BlockIngredientProfiles = "ingredient_profiles"
	BlockSafetyGuidelines   = "safety_guidelines"
	BlockTemplateQuestions  = "template_questions"
)

// RegisterDefaultBlocks registers all built-in logic blocks with the registry.
func (r *Registry) RegisterDefaultBlocks() {
	r.Register(BlockBenefitsExpansion, BenefitsExpansion)
	r.Register(BlockIngredientProfiles, IngredientProfiles)
	r.Register(BlockSafetyGuidelines, SafetyGuidelines)
	r.Register(BlockTemplateQuestions, TemplateQuestions)
}

// recordFrom extracts the seeded product record from the snapshot.
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

// BenefitsExpansion expands each listed benefit into a detailed
// description with an estimated time to effect.
func BenefitsExpansion(snapshot *state.Snapshot) (any, error) {
	record, err := recordFrom(snapshot)
	if err != nil {
		return nil, err
	}

	expanded := make([]map[string]any, 0, len(record.Benefits))

	for _, benefit := range record.Benefits {
		normalized := strings.ToLower(strings.TrimSpace(benefit))

		entry := map[string]any{
			"benefit":       benefit,
			"description":   fmt.Sprintf("%s for %s skin", benefit, strings.Join(record.SkinTypes, ", ")),
			"time_to_effect": "4-6 weeks for optimal results",
		}

		switch {
		case strings.Contains(normalized, "bright"):
			entry["description"] = fmt.Sprintf(
				"Targets dullness by inhibiting melanin production at %s concentration",
				record.Concentration,
			)
			entry["time_to_effect"] = "2-4 weeks with daily use"
		case strings.Contains(normalized, "spot"):
			entry["description"] = "Reduces the appearance of hyperpigmentation, visibly improving spot clarity"
			entry["time_to_effect"] = "4-8 weeks for visible improvement"
		case strings.Contains(normalized, "hydrat"):
			entry["description"] = "Increases skin moisture retention, improving skin barrier function"
		}

		entry["ingredients_supporting"] = supportingIngredients(benefit, record)

		expanded = append(expanded, entry)
	}

	return expanded, nil
}

func supportingIngredients(benefit string, record *models.ProductRecord) []string {
	normalized := strings.ToLower(benefit)
	supporting := make([]string, 0)

	for _, ingredient := range record.KeyIngredients {
		switch {
		case strings.Contains(ingredient, "Vitamin C") &&
			(strings.Contains(normalized, "bright") || strings.Contains(normalized, "spot")):
			supporting = append(supporting, ingredient)
		case strings.Contains(ingredient, "Hyaluronic") && strings.Contains(normalized, "hydrat"):
			supporting = append(supporting, ingredient)
		}
	}

	return supporting
}

// ingredientProfiles is the static knowledge base behind IngredientProfiles.
var ingredientProfiles = map[string]map[string]any{
	"Vitamin C": {
		"type":      "Antioxidant",
		"function":  "Collagen synthesis, photoprotection, brightening",
		"mechanism": "Neutralizes free radicals and activates collagen synthesis",
		"evidence":  "Level 1A - multiple controlled trials demonstrating efficacy",
	},
	"Hyaluronic Acid": {
		"type":      "Humectant",
		"function":  "Moisture retention, plumping, barrier support",
		"mechanism": "Binds water molecules in the dermis and epidermis",
		"evidence":  "Level 1B - strong clinical evidence for hydration",
	},
}

// IngredientProfiles produces a profile for each key ingredient from a
// static knowledge base.
func IngredientProfiles(snapshot *state.Snapshot) (any, error) {
	record, err := recordFrom(snapshot)
	if err != nil {
		return nil, err
	}

	profiles := make([]map[string]any, 0, len(record.KeyIngredients))

	for _, ingredient := range record.KeyIngredients {
		profile := map[string]any{
			"name":     ingredient,
			"type":     "Active Ingredient",
			"function": "Skin conditioning",
		}

		if known, ok := ingredientProfiles[ingredient]; ok {
			for k, v := range known {
				profile[k] = v
			}
		}

		profiles = append(profiles, profile)
	}

	return profiles, nil
}

// SafetyGuidelines derives warnings and usage restrictions from the record.
func SafetyGuidelines(snapshot *state.Snapshot) (any, error) {
	record, err := recordFrom(snapshot)
	if err != nil {
		return nil, err
	}

	warnings := []string{
		"For external use only",
		"Avoid contact with eyes and mucous membranes",
		"Discontinue use if irritation occurs",
	}

	if record.HasIngredient("Vitamin C") {
		warnings = append(warnings,
			"May cause temporary tingling on first use",
			"Can increase sun sensitivity - always use sunscreen",
		)
	}

	if strings.Contains(strings.ToLower(record.SideEffects), "sensitive") {
		warnings = append(warnings, "Patch test recommended for sensitive skin")
	}

	return map[string]any{
		"general_warnings":   warnings,
		"usage_restrictions": []string{"Not recommended for children under 12"},
		"storage_conditions": "Store below 25°C, protect from light and moisture",
		"shelf_life":         "12 months unopened, 6 months after opening",
	}, nil
}

// TemplateQuestions produces a deterministic question set. It backs the
// fallback chain of the question-generation node when the backend is
// unavailable.
func TemplateQuestions(snapshot *state.Snapshot) (any, error) {
	record, err := recordFrom(snapshot)
	if err != nil {
		return nil, err
	}

	questions := []map[string]any{
		{"question": fmt.Sprintf("What does %s do?", record.Name), "category": "informational", "priority": 5},
		{"question": fmt.Sprintf("How do I use %s?", record.Name), "category": "usage", "priority": 4},
		{"question": fmt.Sprintf("Is %s safe for %s skin?", record.Name, strings.Join(record.SkinTypes, " and ")), "category": "safety", "priority": 4},
		{"question": fmt.Sprintf("How much does %s cost?", record.Name), "category": "purchase", "priority": 3},
	}

	for _, ingredient := range record.KeyIngredients {
		questions = append(questions, map[string]any{
			"question": fmt.Sprintf("What does %s contribute to the formula?", ingredient),
			"category": "ingredient",
			"priority": 3,
		})
	}

	return questions, nil
}
