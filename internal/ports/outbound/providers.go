package outbound

import (
	"context"

	"github.com/un-earthly/cookish/internal/domain/recipe"
)

// RecipeProvider is one generation backend. Adapters perform a single network
// call, extract the first balanced JSON object from the response body and map
// it onto a canonical partial recipe. Adapters never retry internally;
// fallback is the router's responsibility.
type RecipeProvider interface {
	Backend() recipe.Backend
	GenerateRecipe(ctx context.Context, prompt string) (*recipe.Recipe, error)
	// Complete returns the raw model text for prompts whose response shape is
	// caller-defined, such as variation modification prompts.
	Complete(ctx context.Context, prompt string) (string, error)
}
