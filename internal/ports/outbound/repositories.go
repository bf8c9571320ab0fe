// Package outbound defines the interfaces for outbound ports (driven adapters).
// These are the collaborators the engine consumes: the backing store, the
// preference service, the connectivity probe and the on-device model.
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/un-earthly/cookish/internal/domain/recipe"
)

// RecipeRepository defines row-level access to recipes, scoped by owner.
// The engine only ever inserts, reads and deletes; no in-place updates.
type RecipeRepository interface {
	Create(ctx context.Context, r *recipe.Recipe) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*recipe.Recipe, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// VariationRepository defines row-level access to recipe variations.
type VariationRepository interface {
	Create(ctx context.Context, v *recipe.Variation) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*recipe.Variation, error)
	// FindByOriginalRecipe returns all variations of a lineage root ordered by
	// creation time ascending.
	FindByOriginalRecipe(ctx context.Context, userID, originalRecipeID uuid.UUID) ([]*recipe.Variation, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// CacheRepository defines the caching operations used by the preference reader.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// SubscriptionTier gates which cloud backend serves a request.
type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "free"
	TierPremium SubscriptionTier = "premium"
)

// Preferences is the per-user context the preference service exposes.
type Preferences struct {
	DietaryRestrictions []string
	SkillLevel          string
	PreferredCuisines   []string
	Location            string
	APIKey              string
	Tier                SubscriptionTier
	PreferredProvider   string
}

// PreferenceService reads user preferences and optionally produces a
// precomputed enhanced-dietary clause for conversational prompts.
type PreferenceService interface {
	Preferences(ctx context.Context, userID uuid.UUID) (*Preferences, error)
	EnhancedDietaryPrompt(ctx context.Context, userID uuid.UUID) (string, error)
}

// ConnectivityProbe reports whether the device currently has network access.
// The router consults it once per configuration refresh.
type ConnectivityProbe interface {
	IsOnline(ctx context.Context) bool
}

// LocalModel is the on-device inference collaborator. Download and lifecycle
// management live outside the engine; from here it is ready or it is not.
type LocalModel interface {
	IsReady(ctx context.Context) bool
	Complete(ctx context.Context, prompt string) (string, error)
}
