// Package local adapts the on-device model into a generation provider.
package local

import (
	"context"

	"go.uber.org/zap"

	"github.com/un-earthly/cookish/internal/domain/recipe"
	"github.com/un-earthly/cookish/internal/infrastructure/ai/recipejson"
	"github.com/un-earthly/cookish/internal/ports/outbound"
	"github.com/un-earthly/cookish/pkg/errors"
)

// Adapter wraps a LocalModel so the router can treat the on-device model like
// any other backend.
type Adapter struct {
	model  outbound.LocalModel
	logger *zap.Logger
}

// NewAdapter creates a local provider backed by the given model.
func NewAdapter(model outbound.LocalModel, logger *zap.Logger) *Adapter {
	return &Adapter{
		model:  model,
		logger: logger.Named("local-provider"),
	}
}

var _ outbound.RecipeProvider = (*Adapter)(nil)

// Backend identifies this provider in routing decisions.
func (a *Adapter) Backend() recipe.Backend {
	return recipe.BackendLocal
}

// GenerateRecipe runs the prompt on-device and parses the canonical recipe
// JSON out of the response text.
func (a *Adapter) GenerateRecipe(ctx context.Context, prompt string) (*recipe.Recipe, error) {
	raw, err := a.model.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	payload, err := recipejson.Parse(raw)
	if err != nil {
		a.logger.Error("failed to parse model response", zap.Error(err))
		return nil, errors.NewParseError("local", err)
	}

	return payload.ToRecipe(), nil
}

// Complete runs the prompt on-device and returns the raw model text.
func (a *Adapter) Complete(ctx context.Context, prompt string) (string, error) {
	return a.model.Complete(ctx, prompt)
}
