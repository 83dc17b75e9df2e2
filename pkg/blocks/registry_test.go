package blocks

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/dukex/contentgraph/pkg/models"
	"github.com/dukex/contentgraph/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func testSnapshot() *state.Snapshot {
	return state.Seed(map[string]any{
		models.SeedOutputKey: &models.ProductRecord{
			Name:           "GlowBoost Vitamin C Serum",
			Concentration:  "15%",
			SkinTypes:      []string{"oily", "combination"},
			KeyIngredients: []string{"Vitamin C", "Hyaluronic Acid"},
			Benefits:       []string{"brightening", "dark spot reduction", "hydration"},
			HowToUse:       "Apply 2-3 drops morning and evening",
			SideEffects:    "Mild tingling for sensitive skin",
			Price:          "$45",
		},
	})
}

func TestRegistry_RegisterAndInvoke(t *testing.T) {
	registry := NewRegistry(testLogger())
	registry.Register("echo", func(*state.Snapshot) (any, error) {
		return "hello", nil
	})

	output, err := registry.Invoke("echo", state.New())

	require.NoError(t, err)
	assert.Equal(t, "hello", output)
}

func TestRegistry_UnknownBlock(t *testing.T) {
	registry := NewRegistry(testLogger())

	_, err := registry.Invoke("missing", state.New())

	require.Error(t, err)
	assert.Equal(t, models.KindUnknownBlock, models.KindOf(err))
}

func TestRegistry_ReRegisterReplaces(t *testing.T) {
	registry := NewRegistry(testLogger())
	registry.Register("block", func(*state.Snapshot) (any, error) {
		return "first", nil
	})
	registry.Register("block", func(*state.Snapshot) (any, error) {
		return "second", nil
	})

	output, err := registry.Invoke("block", state.New())

	require.NoError(t, err)
	assert.Equal(t, "second", output)
}

func TestRegistry_BlockErrorPropagates(t *testing.T) {
	registry := NewRegistry(testLogger())
	blockErr := errors.New("no record seeded")
	registry.Register("failing", func(*state.Snapshot) (any, error) {
		return nil, blockErr
	})

	_, err := registry.Invoke("failing", state.New())

	assert.ErrorIs(t, err, blockErr)
}

func TestRegisterDefaultBlocks(t *testing.T) {
	registry := NewRegistry(testLogger())
	registry.RegisterDefaultBlocks()

	assert.Equal(t, []string{
		BlockBenefitsExpansion,
		BlockIngredientProfiles,
		BlockSafetyGuidelines,
		BlockTemplateQuestions,
	}, registry.IDs())
}

func TestBenefitsExpansion(t *testing.T) {
	output, err := BenefitsExpansion(testSnapshot())

	require.NoError(t, err)

	expanded, ok := output.([]map[string]any)
	require.True(t, ok)
	require.Len(t, expanded, 3)

	assert.Equal(t, "brightening", expanded[0]["benefit"])
	assert.Contains(t, expanded[0]["description"], "15%")
	assert.Contains(t, expanded[0]["ingredients_supporting"], "Vitamin C")
}

func TestIngredientProfiles_KnownIngredient(t *testing.T) {
	output, err := IngredientProfiles(testSnapshot())

	require.NoError(t, err)

	profiles, ok := output.([]map[string]any)
	require.True(t, ok)
	require.Len(t, profiles, 2)

	assert.Equal(t, "Vitamin C", profiles[0]["name"])
	assert.Equal(t, "Antioxidant", profiles[0]["type"])
	assert.Equal(t, "Humectant", profiles[1]["type"])
}

func TestSafetyGuidelines_VitaminCWarnings(t *testing.T) {
	output, err := SafetyGuidelines(testSnapshot())

	require.NoError(t, err)

	guidelines, ok := output.(map[string]any)
	require.True(t, ok)

	warnings, ok := guidelines["general_warnings"].([]string)
	require.True(t, ok)
	assert.Contains(t, warnings, "Can increase sun sensitivity - always use sunscreen")
	assert.Contains(t, warnings, "Patch test recommended for sensitive skin")
}

func TestTemplateQuestions_IncludesIngredientQuestions(t *testing.T) {
	output, err := TemplateQuestions(testSnapshot())

	require.NoError(t, err)

	questions, ok := output.([]map[string]any)
	require.True(t, ok)
	// 4 base questions plus one per key ingredient
	assert.Len(t, questions, 6)
	assert.Contains(t, questions[0]["question"], "GlowBoost Vitamin C Serum")
}

func TestBlocks_FailWithoutSeededRecord(t *testing.T) {
	for _, block := range []BlockFunc{
		BenefitsExpansion,
		IngredientProfiles,
		SafetyGuidelines,
		TemplateQuestions,
	} {
		_, err := block(state.New())
		assert.Error(t, err)
	}
}
