// Package recipe contains the core domain model for generated recipes and
// their AI-assisted variations.
package recipe

import (
	"time"

	"github.com/google/uuid"
)

// Backend identifies the generation backend family that produced a recipe.
// The set is closed: routing logic switches over it exhaustively.
type Backend string

const (
	BackendCloudPremium Backend = "cloud_premium"
	BackendCloudBasic   Backend = "cloud_basic"
	BackendLocal        Backend = "local"
)

// Channel identifies how a recipe or variation was created.
type Channel string

const (
	ChannelManual Channel = "manual"
	ChannelChat   Channel = "chat"
)

// Ingredient is a single entry in a recipe's ordered ingredient list.
// Quantity is a free-form string ("2 cups", "1 lb", "a pinch"); the leading
// numeric portion is what diffing uses to detect increases and decreases.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

// NutritionSummary carries whatever the backend model reported. Values are
// propagated, never validated for correctness.
type NutritionSummary struct {
	Calories   int    `json:"calories"`
	Protein    string `json:"protein"`
	Carbs      string `json:"carbs"`
	Fat        string `json:"fat"`
	Highlights string `json:"highlights,omitempty"`
}

// Recipe is a single immutable version of a meal. Rollback and variation both
// produce new rows; no operation updates a Recipe in place.
type Recipe struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`

	RecipeDate time.Time `json:"recipe_date"`
	MealType   string    `json:"meal_type"`
	Name       string    `json:"name"`

	Ingredients     []Ingredient     `json:"ingredients"`
	Instructions    string           `json:"instructions"`
	PrepTimeMinutes int              `json:"prep_time_minutes"`
	CookTimeMinutes int              `json:"cook_time_minutes"`
	Servings        int              `json:"servings"`
	EstimatedCost   float64          `json:"estimated_cost"`
	Nutrition       NutritionSummary `json:"nutrition"`

	// Premium fields, empty for basic-tier generations
	Difficulty           string   `json:"difficulty,omitempty"`
	CuisineType          string   `json:"cuisine_type,omitempty"`
	Tags                 []string `json:"tags,omitempty"`
	VariationSuggestions []string `json:"variation_suggestions,omitempty"`
	CookingTips          []string `json:"cooking_tips,omitempty"`

	// Provenance
	CreatedVia    Channel    `json:"created_via"`
	GeneratedBy   Backend    `json:"generated_by,omitempty"`
	FallbackUsed  bool       `json:"fallback_used,omitempty"`
	ChatSessionID *uuid.UUID `json:"chat_session_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Validate enforces the recipe invariants: non-negative metrics and a
// non-empty ingredient list.
func (r *Recipe) Validate() error {
	if r.Name == "" {
		return ErrEmptyName
	}
	if len(r.Ingredients) == 0 {
		return ErrNoIngredients
	}
	if r.PrepTimeMinutes < 0 || r.CookTimeMinutes < 0 {
		return ErrNegativeTime
	}
	if r.Servings < 0 {
		return ErrNegativeServings
	}
	if r.EstimatedCost < 0 {
		return ErrNegativeCost
	}
	return nil
}

// TotalTimeMinutes returns prep plus cook time.
func (r *Recipe) TotalTimeMinutes() int {
	return r.PrepTimeMinutes + r.CookTimeMinutes
}

// Clone returns a deep copy. Variation snapshots and rollback rows must not
// share slice storage with the recipe they came from.
func (r *Recipe) Clone() *Recipe {
	cp := *r
	cp.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	cp.Tags = append([]string(nil), r.Tags...)
	cp.VariationSuggestions = append([]string(nil), r.VariationSuggestions...)
	cp.CookingTips = append([]string(nil), r.CookingTips...)
	if r.ChatSessionID != nil {
		id := *r.ChatSessionID
		cp.ChatSessionID = &id
	}
	return &cp
}
