// Package inbound defines the interfaces for inbound ports (driving adapters)
// and the result shapes they expose to callers.
package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/un-earthly/cookish/internal/domain/recipe"
)

// GenerateRecipeCommand asks for a brand-new recipe.
type GenerateRecipeCommand struct {
	UserID        uuid.UUID
	Query         string
	MealType      string
	RecipeDate    time.Time
	Servings      int
	ChatSessionID *uuid.UUID
}

// GenerationService routes generation requests to a backend and returns the
// canonical recipe.
type GenerationService interface {
	Generate(ctx context.Context, cmd GenerateRecipeCommand) (*recipe.Recipe, error)

	// Capability queries derived from the last-refreshed configuration; no I/O.
	IsPremiumAvailable() bool
	IsCloudAvailable() bool
	IsLocalAvailable() bool
}

// CreateVariationCommand asks for an AI-assisted edit of an existing recipe.
type CreateVariationCommand struct {
	UserID           uuid.UUID
	OriginalRecipeID uuid.UUID
	Request          string
	ChatSessionID    *uuid.UUID
}

// VariationResult pairs the stored variation with the model's explanation of
// what changed and why.
type VariationResult struct {
	Variation   *recipe.Variation `json:"variation"`
	Explanation Explanation       `json:"explanation"`
}

// Explanation is the model-authored account of a modification.
type Explanation struct {
	Summary string   `json:"summary"`
	Changes []string `json:"changes,omitempty"`
	Reason  string   `json:"reason,omitempty"`
}

// TimelineEntryKind discriminates timeline entries.
type TimelineEntryKind string

const (
	TimelineEntryOriginal  TimelineEntryKind = "original"
	TimelineEntryVariation TimelineEntryKind = "variation"
	TimelineEntryRollback  TimelineEntryKind = "rollback"
)

// TimelineEntry is a read-only projection of one step in a recipe's history.
type TimelineEntry struct {
	Kind        TimelineEntryKind `json:"kind"`
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Timestamp   time.Time         `json:"timestamp"`
	CreatedVia  recipe.Channel    `json:"created_via"`
	Changes     []string          `json:"changes,omitempty"`
}

// TimelineStatistics aggregates a recipe's modification history.
type TimelineStatistics struct {
	TotalVariations     int        `json:"total_variations"`
	LastModified        *time.Time `json:"last_modified,omitempty"`
	ModificationsPerDay float64    `json:"modifications_per_day"`
	TopCategories       []string   `json:"top_categories,omitempty"`
}

// TimelineResult is the full history view of a recipe.
type TimelineResult struct {
	Original   *recipe.Recipe     `json:"original"`
	Timeline   []TimelineEntry    `json:"timeline"`
	Statistics TimelineStatistics `json:"statistics"`
}

// IngredientChangeDirection tags how a matched ingredient moved.
type IngredientChangeDirection string

const (
	IngredientIncreased   IngredientChangeDirection = "increased"
	IngredientDecreased   IngredientChangeDirection = "decreased"
	IngredientUnitChanged IngredientChangeDirection = "unit_changed"
)

// IngredientModification describes one matched-but-changed ingredient.
type IngredientModification struct {
	Name         string                    `json:"name"`
	FromQuantity string                    `json:"from_quantity"`
	ToQuantity   string                    `json:"to_quantity"`
	Direction    IngredientChangeDirection `json:"direction"`
	Impact       string                    `json:"impact,omitempty"`
}

// IngredientDiff holds the ingredient-level deltas between two versions.
// Matching is by lowercase name, so a rename shows up as remove plus add.
type IngredientDiff struct {
	Added     []recipe.Ingredient      `json:"added"`
	Removed   []recipe.Ingredient      `json:"removed"`
	Modified  []IngredientModification `json:"modified"`
	Unchanged []string                 `json:"unchanged"`
}

// HealthImpact classifies the overall nutrition movement.
type HealthImpact string

const (
	HealthImproved  HealthImpact = "improved"
	HealthNeutral   HealthImpact = "neutral"
	HealthDecreased HealthImpact = "decreased"
)

// NutritionDiff holds calorie and macro deltas.
type NutritionDiff struct {
	CalorieDiff    int          `json:"calorie_diff"`
	CaloriePercent float64      `json:"calorie_percent"`
	MacroChanges   []string     `json:"macro_changes,omitempty"`
	HealthImpact   HealthImpact `json:"health_impact"`
}

// TimingDiff holds prep/cook time deltas in minutes.
type TimingDiff struct {
	PrepTimeDiff     int    `json:"prep_time_diff"`
	CookTimeDiff     int    `json:"cook_time_diff"`
	TotalTimeDiff    int    `json:"total_time_diff"`
	EfficiencyImpact string `json:"efficiency_impact"`
}

// DifficultyDiff holds the difficulty movement with a reasoned explanation.
type DifficultyDiff struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Explanation string `json:"explanation"`
}

// CostDiff holds the estimated-cost movement.
type CostDiff struct {
	CostDiff    float64  `json:"cost_diff"`
	CostPercent float64  `json:"cost_percent"`
	CostFactors []string `json:"cost_factors,omitempty"`
}

// DiffResult is the derived comparison between two recipe versions. It is
// computed on demand and never stored.
type DiffResult struct {
	OriginalID  uuid.UUID      `json:"original_id"`
	ComparedID  uuid.UUID      `json:"compared_id"`
	Ingredients IngredientDiff `json:"ingredients"`
	Nutrition   NutritionDiff  `json:"nutrition"`
	Timing      TimingDiff     `json:"timing"`
	Difficulty  DifficultyDiff `json:"difficulty"`
	Cost        CostDiff       `json:"cost"`
}

// RollbackCommand restores a recipe to a prior version.
type RollbackCommand struct {
	UserID           uuid.UUID
	OriginalRecipeID uuid.UUID
	// TargetVersionID selects a variation snapshot; nil restores the original.
	TargetVersionID *uuid.UUID
	Reason          string
}

// RollbackInfo summarizes what a rollback restored.
type RollbackInfo struct {
	RolledBackFrom string    `json:"rolled_back_from"`
	RolledBackTo   string    `json:"rolled_back_to"`
	ThingsRestored []string  `json:"things_restored"`
	Timestamp      time.Time `json:"timestamp"`
}

// RollbackResult pairs the restored recipe row with its rollback summary.
type RollbackResult struct {
	Recipe       *recipe.Recipe `json:"recipe"`
	RollbackInfo RollbackInfo   `json:"rollback_info"`
}

// VariationService is the versioning side of the engine.
type VariationService interface {
	CreateVariation(ctx context.Context, cmd CreateVariationCommand) (*VariationResult, error)
	GetRecipeHistoryTimeline(ctx context.Context, userID, recipeID uuid.UUID) (*TimelineResult, error)
	CompareRecipeVersions(ctx context.Context, userID, recipeID uuid.UUID) (*DiffResult, error)
	GetDetailedRecipeComparison(ctx context.Context, userID, recipeID uuid.UUID, variationID *uuid.UUID) (*DiffResult, error)
	RollbackToVersion(ctx context.Context, cmd RollbackCommand) (*RollbackResult, error)
	DeleteVariation(ctx context.Context, userID, variationID uuid.UUID) error
	SaveVariationAsNewRecipe(ctx context.Context, userID, variationID uuid.UUID) (*recipe.Recipe, error)
}
