package variation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/un-earthly/cookish/internal/application/generation"
	"github.com/un-earthly/cookish/internal/domain/recipe"
	"github.com/un-earthly/cookish/internal/infrastructure/ai/recipejson"
	"github.com/un-earthly/cookish/internal/infrastructure/monitoring"
	"github.com/un-earthly/cookish/internal/ports/inbound"
	"github.com/un-earthly/cookish/internal/ports/outbound"
	"github.com/un-earthly/cookish/pkg/errors"
)

// ProviderResolver resolves which backend serves a modification request.
// The generation router satisfies this.
type ProviderResolver interface {
	ModificationProvider(ctx context.Context, tier outbound.SubscriptionTier) (outbound.RecipeProvider, error)
}

// Service implements the versioning operations. All writes are inserts or
// deletes; recipe and variation rows are never updated in place.
type Service struct {
	recipes    outbound.RecipeRepository
	variations outbound.VariationRepository
	prefs      outbound.PreferenceService
	resolver   ProviderResolver
	builder    *generation.PromptBuilder
	metrics    *monitoring.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates a variation service.
func NewService(
	recipes outbound.RecipeRepository,
	variations outbound.VariationRepository,
	prefs outbound.PreferenceService,
	resolver ProviderResolver,
	builder *generation.PromptBuilder,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		recipes:    recipes,
		variations: variations,
		prefs:      prefs,
		resolver:   resolver,
		builder:    builder,
		metrics:    metrics,
		logger:     logger.Named("variation-service"),
		now:        time.Now,
	}
}

var _ inbound.VariationService = (*Service)(nil)

func (s *Service) observe(op string, err error) {
	if s.metrics != nil {
		s.metrics.ObserveVariationOp(op, err)
	}
}

// CreateVariation asks the model to modify an existing recipe and stores the
// result as an immutable snapshot. The original row is untouched; its identity
// fields survive the merge so the snapshot stays attributable.
func (s *Service) CreateVariation(ctx context.Context, cmd inbound.CreateVariationCommand) (result *inbound.VariationResult, err error) {
	defer func() { s.observe("create", err) }()

	original, err := s.recipes.FindByID(ctx, cmd.UserID, cmd.OriginalRecipeID)
	if err != nil {
		return nil, err
	}

	prefs, err := s.prefs.Preferences(ctx, cmd.UserID)
	if err != nil {
		return nil, errors.NewDatabaseError("read user preferences", err)
	}

	provider, err := s.resolver.ModificationProvider(ctx, prefs.Tier)
	if err != nil {
		return nil, err
	}

	prompt := s.builder.BuildModification(original, cmd.Request, generation.PromptContext{
		DietaryPreferences: prefs.DietaryRestrictions,
		SkillLevel:         prefs.SkillLevel,
		PreferredCuisines:  prefs.PreferredCuisines,
	})

	raw, err := provider.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	payload, explanation, err := recipejson.ParseModification(raw)
	if err != nil {
		s.logger.Error("modification response unusable", zap.Error(err))
		return nil, errors.NewParseError(string(provider.Backend()), err)
	}

	merged := original.Clone()
	payload.ApplyTo(merged)
	// The merge never touches identity or provenance of the base version.
	merged.ID = original.ID
	merged.UserID = original.UserID
	merged.RecipeDate = original.RecipeDate
	merged.CreatedAt = original.CreatedAt

	if err := merged.Validate(); err != nil {
		return nil, errors.NewParseError(string(provider.Backend()), err)
	}

	existing, err := s.variations.FindByOriginalRecipe(ctx, cmd.UserID, original.ID)
	if err != nil {
		return nil, errors.NewDatabaseError("list variations", err)
	}

	v := &recipe.Variation{
		ID:               uuid.New(),
		OriginalRecipeID: original.ID,
		Kind:             recipe.VariationKindEdit,
		Name:             classifyName(cmd.Request, countEdits(existing)),
		Description:      explanation.Summary,
		RecipeData:       merged,
		CreatedVia:       recipe.ChannelManual,
		CreatedAt:        s.now(),
	}
	if cmd.ChatSessionID != nil {
		v.CreatedVia = recipe.ChannelChat
		id := *cmd.ChatSessionID
		v.ChatSessionID = &id
	}

	if err := s.variations.Create(ctx, v); err != nil {
		return nil, errors.NewDatabaseError("save variation", err)
	}

	s.logger.Info("variation created",
		zap.String("variation_id", v.ID.String()),
		zap.String("original_recipe_id", original.ID.String()),
		zap.String("name", v.Name),
	)

	return &inbound.VariationResult{
		Variation: v,
		Explanation: inbound.Explanation{
			Summary: explanation.Summary,
			Changes: explanation.Changes,
			Reason:  explanation.Reason,
		},
	}, nil
}

func countEdits(variations []*recipe.Variation) int {
	n := 0
	for _, v := range variations {
		if v.Kind == recipe.VariationKindEdit {
			n++
		}
	}
	return n
}

// GetRecipeHistoryTimeline returns the full history view of a recipe.
func (s *Service) GetRecipeHistoryTimeline(ctx context.Context, userID, recipeID uuid.UUID) (*inbound.TimelineResult, error) {
	original, err := s.recipes.FindByID(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	variations, err := s.variations.FindByOriginalRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, errors.NewDatabaseError("list variations", err)
	}

	return buildTimeline(original, variations, s.now()), nil
}

// CompareRecipeVersions compares the original against its latest variation.
// With no variations the diff is empty rather than an error.
func (s *Service) CompareRecipeVersions(ctx context.Context, userID, recipeID uuid.UUID) (*inbound.DiffResult, error) {
	return s.GetDetailedRecipeComparison(ctx, userID, recipeID, nil)
}

// GetDetailedRecipeComparison compares the original against a chosen
// variation snapshot, or the latest one when variationID is nil.
func (s *Service) GetDetailedRecipeComparison(ctx context.Context, userID, recipeID uuid.UUID, variationID *uuid.UUID) (*inbound.DiffResult, error) {
	original, err := s.recipes.FindByID(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	compared := original
	if variationID != nil {
		v, err := s.variations.FindByID(ctx, userID, *variationID)
		if err != nil {
			return nil, err
		}
		if v.OriginalRecipeID != recipeID {
			return nil, errors.NewNotFoundError("variation", variationID.String())
		}
		compared = v.RecipeData
	} else {
		variations, err := s.variations.FindByOriginalRecipe(ctx, userID, recipeID)
		if err != nil {
			return nil, errors.NewDatabaseError("list variations", err)
		}
		if len(variations) > 0 {
			compared = variations[len(variations)-1].RecipeData
		}
	}

	return computeDiff(original, compared), nil
}

// RollbackToVersion restores a prior version as a brand-new recipe row and
// appends a synthetic rollback entry to the lineage. Nothing is updated or
// removed; the history stays complete.
func (s *Service) RollbackToVersion(ctx context.Context, cmd inbound.RollbackCommand) (result *inbound.RollbackResult, err error) {
	defer func() { s.observe("rollback", err) }()

	original, err := s.recipes.FindByID(ctx, cmd.UserID, cmd.OriginalRecipeID)
	if err != nil {
		return nil, err
	}

	variations, err := s.variations.FindByOriginalRecipe(ctx, cmd.UserID, cmd.OriginalRecipeID)
	if err != nil {
		return nil, errors.NewDatabaseError("list variations", err)
	}

	target := original
	targetName := original.Name + " (original)"
	if cmd.TargetVersionID != nil {
		v, err := s.variations.FindByID(ctx, cmd.UserID, *cmd.TargetVersionID)
		if err != nil {
			return nil, err
		}
		if v.OriginalRecipeID != cmd.OriginalRecipeID {
			return nil, errors.NewNotFoundError("variation", cmd.TargetVersionID.String())
		}
		target = v.RecipeData
		targetName = v.Name
	}

	currentName := original.Name + " (original)"
	if len(variations) > 0 {
		currentName = variations[len(variations)-1].Name
	}

	now := s.now()

	restored := target.Clone()
	restored.ID = uuid.New()
	restored.UserID = cmd.UserID
	restored.Name = target.Name + " (Rolled Back)"
	restored.RecipeDate = now
	restored.CreatedVia = recipe.ChannelChat
	restored.CreatedAt = now
	if err := s.recipes.Create(ctx, restored); err != nil {
		return nil, errors.NewDatabaseError("save restored recipe", err)
	}

	description := fmt.Sprintf("Rolled back to %s", targetName)
	if cmd.Reason != "" {
		description = fmt.Sprintf("%s: %s", description, cmd.Reason)
	}
	audit := &recipe.Variation{
		ID:               uuid.New(),
		OriginalRecipeID: cmd.OriginalRecipeID,
		Kind:             recipe.VariationKindRollback,
		Name:             "Rollback",
		Description:      description,
		RecipeData:       restored.Clone(),
		CreatedVia:       recipe.ChannelManual,
		CreatedAt:        now,
	}
	if err := s.variations.Create(ctx, audit); err != nil {
		return nil, errors.NewDatabaseError("save rollback entry", err)
	}

	s.logger.Info("rolled back recipe",
		zap.String("original_recipe_id", cmd.OriginalRecipeID.String()),
		zap.String("restored_recipe_id", restored.ID.String()),
		zap.String("target", targetName),
	)

	return &inbound.RollbackResult{
		Recipe: restored,
		RollbackInfo: inbound.RollbackInfo{
			RolledBackFrom: currentName,
			RolledBackTo:   targetName,
			ThingsRestored: thingsRestored(target),
			Timestamp:      now,
		},
	}, nil
}

// thingsRestored names the snapshot sections the rollback carried over,
// derived from which fields are populated in the target.
func thingsRestored(target *recipe.Recipe) []string {
	var restored []string

	if len(target.Ingredients) > 0 {
		restored = append(restored, "ingredients")
	}
	if target.Instructions != "" {
		restored = append(restored, "instructions")
	}
	if target.TotalTimeMinutes() > 0 {
		restored = append(restored, "timing")
	}
	if target.Nutrition != (recipe.NutritionSummary{}) {
		restored = append(restored, "nutrition")
	}
	if target.EstimatedCost > 0 {
		restored = append(restored, "estimated cost")
	}
	return restored
}

// DeleteVariation removes a variation snapshot. Deletion is the only
// permitted mutation of a variation and is owner-scoped.
func (s *Service) DeleteVariation(ctx context.Context, userID, variationID uuid.UUID) (err error) {
	defer func() { s.observe("delete", err) }()

	if err := s.variations.Delete(ctx, userID, variationID); err != nil {
		return err
	}

	s.logger.Info("variation deleted", zap.String("variation_id", variationID.String()))
	return nil
}

// SaveVariationAsNewRecipe promotes a variation snapshot into a standalone
// recipe that starts its own lineage.
func (s *Service) SaveVariationAsNewRecipe(ctx context.Context, userID, variationID uuid.UUID) (rec *recipe.Recipe, err error) {
	defer func() { s.observe("promote", err) }()

	v, err := s.variations.FindByID(ctx, userID, variationID)
	if err != nil {
		return nil, err
	}

	promoted := v.RecipeData.Clone()
	promoted.ID = uuid.New()
	promoted.UserID = userID
	promoted.CreatedAt = s.now()
	promoted.Name = fmt.Sprintf("%s (%s)", promoted.Name, v.Name)

	if err := s.recipes.Create(ctx, promoted); err != nil {
		return nil, errors.NewDatabaseError("save promoted recipe", err)
	}

	s.logger.Info("variation promoted to recipe",
		zap.String("variation_id", variationID.String()),
		zap.String("recipe_id", promoted.ID.String()),
	)
	return promoted, nil
}
