package recipe

import (
	"time"

	"github.com/google/uuid"
)

// VariationKind distinguishes real AI-assisted edits from the synthetic
// audit-trail entries appended by rollback.
type VariationKind string

const (
	VariationKindEdit     VariationKind = "variation"
	VariationKindRollback VariationKind = "rollback"
)

// Variation records one AI-assisted edit to a recipe. OriginalRecipeID always
// references the lineage root, never another variation: lineage is a star,
// not a tree. A variation is immutable once created; the only permitted
// mutation is owner-scoped deletion.
type Variation struct {
	ID               uuid.UUID     `json:"id"`
	OriginalRecipeID uuid.UUID     `json:"original_recipe_id"`
	Kind             VariationKind `json:"kind"`

	Name        string `json:"name"`
	Description string `json:"description"`

	// Full snapshot of the resulting recipe
	RecipeData *Recipe `json:"recipe_data"`

	CreatedVia    Channel    `json:"created_via"`
	ChatSessionID *uuid.UUID `json:"chat_session_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
