package generation

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/un-earthly/cookish/internal/domain/recipe"
)

// Dietary policy constants. These are product policy, not user input, and
// appear verbatim in every generated prompt regardless of tier or channel.
const (
	DietaryExclusionClause = "STRICT DIETARY POLICY (non-negotiable): never include pork or pork " +
		"derivatives (bacon, ham, lard, porcine gelatin), alcohol or alcohol-based " +
		"ingredients (wine, beer, sake, mirin, rum, extracts in alcohol), or blood in any form."

	AllowedIngredientsClause = "ALLOWED INGREDIENTS: halal-certified meat and poultry, fish and " +
		"seafood, vegetables, fruits, whole grains, legumes, nuts, seeds, eggs, and dairy."
)

// PromptKind distinguishes chat-originated requests from templated ones.
type PromptKind string

const (
	PromptConversational PromptKind = "conversational"
	PromptTemplated      PromptKind = "templated"
)

// PromptContext is everything a prompt can be built from. Building is pure
// string construction: no network, no persistence, deterministic given the
// same context and date.
type PromptContext struct {
	Query      string
	MealType   string
	RecipeDate time.Time
	Servings   int
	Premium    bool

	// Conversational extras, interpolated when present
	DietaryPreferences    []string
	SkillLevel            string
	PreferredCuisines     []string
	EnhancedDietaryClause string
}

// PromptBuilder turns a meal intent plus user context into a backend-agnostic
// instruction string.
type PromptBuilder struct {
	now func() time.Time
}

// NewPromptBuilder creates a prompt builder using the real clock.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{now: time.Now}
}

// NewPromptBuilderAt creates a prompt builder with a fixed clock, for tests.
func NewPromptBuilderAt(now func() time.Time) *PromptBuilder {
	return &PromptBuilder{now: now}
}

// Build constructs the generation prompt. The dietary clauses always come
// first; the response schema matches the requested tier.
func (b *PromptBuilder) Build(kind PromptKind, ctx PromptContext) string {
	var sb strings.Builder

	sb.WriteString(DietaryExclusionClause)
	sb.WriteString("\n")
	sb.WriteString(AllowedIngredientsClause)
	sb.WriteString("\n\n")

	sb.WriteString("You are an expert chef. Create one recipe for the request below.\n")
	fmt.Fprintf(&sb, "Season: it is currently %s; prefer seasonal produce.\n", seasonOf(b.now()))

	if ctx.MealType != "" {
		fmt.Fprintf(&sb, "Meal: %s\n", ctx.MealType)
	}
	if ctx.Servings > 0 {
		fmt.Fprintf(&sb, "Servings: %d\n", ctx.Servings)
	}

	if kind == PromptConversational {
		if len(ctx.DietaryPreferences) > 0 {
			fmt.Fprintf(&sb, "User dietary preferences: %s\n", strings.Join(ctx.DietaryPreferences, ", "))
		}
		if ctx.SkillLevel != "" {
			fmt.Fprintf(&sb, "Cooking skill level: %s\n", ctx.SkillLevel)
		}
		if len(ctx.PreferredCuisines) > 0 {
			fmt.Fprintf(&sb, "Preferred cuisines: %s\n", strings.Join(ctx.PreferredCuisines, ", "))
		}
		if ctx.EnhancedDietaryClause != "" {
			sb.WriteString(ctx.EnhancedDietaryClause)
			sb.WriteString("\n")
		}
	}

	fmt.Fprintf(&sb, "\nRequest: %s\n\n", ctx.Query)

	if ctx.Premium {
		sb.WriteString(premiumSchema)
	} else {
		sb.WriteString(basicSchema)
	}

	return sb.String()
}

// BuildModification constructs the prompt for an AI-assisted edit. The
// response must contain both a modified_recipe and an explanation object;
// anything else is a parse failure downstream.
func (b *PromptBuilder) BuildModification(original *recipe.Recipe, request string, ctx PromptContext) string {
	var sb strings.Builder

	sb.WriteString(DietaryExclusionClause)
	sb.WriteString("\n")
	sb.WriteString(AllowedIngredientsClause)
	sb.WriteString("\n\n")

	sb.WriteString("You are an expert chef. Modify the recipe below according to the user's request.\n")

	if len(ctx.DietaryPreferences) > 0 {
		fmt.Fprintf(&sb, "User dietary preferences: %s\n", strings.Join(ctx.DietaryPreferences, ", "))
	}
	if ctx.SkillLevel != "" {
		fmt.Fprintf(&sb, "Cooking skill level: %s\n", ctx.SkillLevel)
	}
	if len(ctx.PreferredCuisines) > 0 {
		fmt.Fprintf(&sb, "Preferred cuisines: %s\n", strings.Join(ctx.PreferredCuisines, ", "))
	}

	sb.WriteString("\nCurrent recipe:\n")
	if data, err := json.MarshalIndent(original, "", "  "); err == nil {
		sb.Write(data)
	}
	fmt.Fprintf(&sb, "\n\nModification request: %s\n\n", request)

	sb.WriteString(modificationSchema)

	return sb.String()
}

// seasonOf maps a date to its northern-hemisphere season.
func seasonOf(t time.Time) string {
	switch t.Month() {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "autumn"
	}
}

const basicSchema = `Respond with ONLY a valid JSON object in this exact format:
{
  "recipe_name": "Recipe Name",
  "meal_type": "breakfast|lunch|dinner|snack",
  "ingredients": [{"name": "ingredient", "quantity": "2 cups", "notes": "optional"}],
  "instructions": "Step-by-step instructions",
  "prep_time": 15,
  "cook_time": 25,
  "servings": 4,
  "estimated_cost": 8.50,
  "nutrition": {"calories": 450, "protein": "30g", "carbs": "40g", "fat": "15g", "highlights": "high protein"}
}
No additional text outside the JSON.`

const premiumSchema = `Respond with ONLY a valid JSON object in this exact format:
{
  "recipe_name": "Recipe Name",
  "meal_type": "breakfast|lunch|dinner|snack",
  "ingredients": [{"name": "ingredient", "quantity": "2 cups", "notes": "optional"}],
  "instructions": "Step-by-step instructions",
  "prep_time": 15,
  "cook_time": 25,
  "servings": 4,
  "estimated_cost": 8.50,
  "nutrition": {"calories": 450, "protein": "30g", "carbs": "40g", "fat": "15g", "highlights": "high protein, low sodium"},
  "difficulty": "easy|medium|hard",
  "cuisine_type": "cuisine",
  "tags": ["tag1", "tag2"],
  "variations": ["variation idea 1", "variation idea 2"],
  "cooking_tips": ["tip 1", "tip 2"]
}
No additional text outside the JSON.`

const modificationSchema = `Respond with ONLY a valid JSON object containing BOTH keys:
{
  "modified_recipe": { ...same shape as the current recipe, with your changes applied... },
  "explanation": {"summary": "what changed", "changes": ["change 1", "change 2"], "reason": "why"}
}
No additional text outside the JSON.`
