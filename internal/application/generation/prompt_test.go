package generation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestPromptBuilder_DietaryClausesAlwaysPresent(t *testing.T) {
	b := NewPromptBuilderAt(fixedClock(time.Date(2025, time.July, 4, 12, 0, 0, 0, time.UTC)))

	contexts := []struct {
		name string
		kind PromptKind
		ctx  PromptContext
	}{
		{"templated basic", PromptTemplated, PromptContext{Query: "pasta"}},
		{"templated premium", PromptTemplated, PromptContext{Query: "pasta", Premium: true}},
		{"conversational", PromptConversational, PromptContext{Query: "pasta", DietaryPreferences: []string{"vegetarian"}}},
	}

	for _, tc := range contexts {
		t.Run(tc.name, func(t *testing.T) {
			prompt := b.Build(tc.kind, tc.ctx)
			assert.Contains(t, prompt, DietaryExclusionClause)
			assert.Contains(t, prompt, AllowedIngredientsClause)
			// Policy clauses come before anything else in the prompt.
			assert.True(t, strings.HasPrefix(prompt, DietaryExclusionClause))
		})
	}
}

func TestPromptBuilder_SchemaSelection(t *testing.T) {
	b := NewPromptBuilderAt(fixedClock(time.Date(2025, time.July, 4, 12, 0, 0, 0, time.UTC)))

	basic := b.Build(PromptTemplated, PromptContext{Query: "soup"})
	assert.NotContains(t, basic, `"difficulty"`)
	assert.NotContains(t, basic, `"cooking_tips"`)
	assert.Contains(t, basic, `"recipe_name"`)

	premium := b.Build(PromptTemplated, PromptContext{Query: "soup", Premium: true})
	assert.Contains(t, premium, `"difficulty"`)
	assert.Contains(t, premium, `"cuisine_type"`)
	assert.Contains(t, premium, `"cooking_tips"`)
}

func TestPromptBuilder_Season(t *testing.T) {
	tests := []struct {
		month time.Month
		want  string
	}{
		{time.January, "winter"},
		{time.April, "spring"},
		{time.July, "summer"},
		{time.October, "autumn"},
		{time.December, "winter"},
	}

	for _, tt := range tests {
		b := NewPromptBuilderAt(fixedClock(time.Date(2025, tt.month, 15, 0, 0, 0, 0, time.UTC)))
		prompt := b.Build(PromptTemplated, PromptContext{Query: "anything"})
		assert.Contains(t, prompt, "it is currently "+tt.want)
	}
}

func TestPromptBuilder_ConversationalInterpolation(t *testing.T) {
	b := NewPromptBuilderAt(fixedClock(time.Date(2025, time.July, 4, 12, 0, 0, 0, time.UTC)))

	ctx := PromptContext{
		Query:                 "something spicy",
		MealType:              "dinner",
		Servings:              4,
		DietaryPreferences:    []string{"vegetarian", "no nuts"},
		SkillLevel:            "beginner",
		PreferredCuisines:     []string{"thai", "indian"},
		EnhancedDietaryClause: "Avoid cross-contamination with peanuts.",
	}

	prompt := b.Build(PromptConversational, ctx)
	assert.Contains(t, prompt, "vegetarian, no nuts")
	assert.Contains(t, prompt, "beginner")
	assert.Contains(t, prompt, "thai, indian")
	assert.Contains(t, prompt, "Avoid cross-contamination with peanuts.")
	assert.Contains(t, prompt, "Meal: dinner")
	assert.Contains(t, prompt, "Servings: 4")
	assert.Contains(t, prompt, "Request: something spicy")
}

func TestPromptBuilder_TemplatedSkipsUserContext(t *testing.T) {
	b := NewPromptBuilderAt(fixedClock(time.Date(2025, time.July, 4, 12, 0, 0, 0, time.UTC)))

	ctx := PromptContext{
		Query:              "pancakes",
		DietaryPreferences: []string{"vegetarian"},
		SkillLevel:         "advanced",
	}

	prompt := b.Build(PromptTemplated, ctx)
	assert.NotContains(t, prompt, "vegetarian")
	assert.NotContains(t, prompt, "Cooking skill level:")
	assert.NotContains(t, prompt, "advanced")
}

func TestPromptBuilder_Deterministic(t *testing.T) {
	b := NewPromptBuilderAt(fixedClock(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)))
	ctx := PromptContext{Query: "salad", MealType: "lunch", Servings: 2}

	assert.Equal(t, b.Build(PromptTemplated, ctx), b.Build(PromptTemplated, ctx))
}

func TestPromptBuilder_Modification(t *testing.T) {
	b := NewPromptBuilderAt(fixedClock(time.Date(2025, time.July, 4, 12, 0, 0, 0, time.UTC)))

	original := sampleRecipe("Lentil Soup")
	prompt := b.BuildModification(original, "make it spicier", PromptContext{SkillLevel: "beginner"})

	assert.Contains(t, prompt, DietaryExclusionClause)
	assert.Contains(t, prompt, AllowedIngredientsClause)
	assert.Contains(t, prompt, "Lentil Soup")
	assert.Contains(t, prompt, "make it spicier")
	assert.Contains(t, prompt, `"modified_recipe"`)
	assert.Contains(t, prompt, `"explanation"`)
}
