package variation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/un-earthly/cookish/internal/application/generation"
	"github.com/un-earthly/cookish/internal/domain/recipe"
	"github.com/un-earthly/cookish/internal/ports/inbound"
	"github.com/un-earthly/cookish/internal/ports/outbound"
	"github.com/un-earthly/cookish/pkg/errors"
)

const modificationResponse = `{
	"modified_recipe": {
		"recipe_name": "Spicy Beef Stew",
		"ingredients": [
			{"name": "beef", "quantity": "500g"},
			{"name": "carrots", "quantity": "3"},
			{"name": "chili", "quantity": "2"}
		],
		"nutrition": {"calories": 620, "protein": "45g", "carbs": "30g", "fat": "20g"}
	},
	"explanation": {
		"summary": "Added chili for heat",
		"changes": ["added chili"],
		"reason": "user asked for a spicy version"
	}
}`

type serviceFixture struct {
	service    *Service
	recipes    *fakeRecipeRepo
	variations *fakeVariationRepo
	provider   *fakeProvider
	resolver   *fakeResolver
	userID     uuid.UUID
	original   *recipe.Recipe
	now        time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	now := time.Date(2025, time.August, 10, 9, 0, 0, 0, time.UTC)
	userID := uuid.New()

	original := &recipe.Recipe{
		ID:     uuid.New(),
		UserID: userID,
		Name:   "Beef Stew",
		Ingredients: []recipe.Ingredient{
			{Name: "beef", Quantity: "500g"},
			{Name: "carrots", Quantity: "3"},
		},
		Instructions:    "Simmer for two hours.",
		PrepTimeMinutes: 20,
		CookTimeMinutes: 120,
		Servings:        4,
		EstimatedCost:   12.0,
		Nutrition:       recipe.NutritionSummary{Calories: 600, Protein: "45g", Carbs: "30g", Fat: "20g"},
		CreatedVia:      recipe.ChannelManual,
		CreatedAt:       now.Add(-72 * time.Hour),
		RecipeDate:      now.Add(-72 * time.Hour),
	}

	recipes := newFakeRecipeRepo()
	require.NoError(t, recipes.Create(context.Background(), original))

	variations := newFakeVariationRepo()
	provider := &fakeProvider{backend: recipe.BackendCloudBasic, response: modificationResponse}
	resolver := &fakeResolver{provider: provider}

	svc := NewService(
		recipes,
		variations,
		&fakePrefs{prefs: outbound.Preferences{Tier: outbound.TierFree, SkillLevel: "beginner"}},
		resolver,
		generation.NewPromptBuilderAt(func() time.Time { return now }),
		nil,
		zap.NewNop(),
	)
	// Advancing clock so successive writes get distinct timestamps.
	tick := 0
	svc.now = func() time.Time {
		tick++
		return now.Add(time.Duration(tick) * time.Minute)
	}

	return &serviceFixture{
		service:    svc,
		recipes:    recipes,
		variations: variations,
		provider:   provider,
		resolver:   resolver,
		userID:     userID,
		original:   original,
		now:        now,
	}
}

func TestService_CreateVariation(t *testing.T) {
	fx := newServiceFixture(t)

	result, err := fx.service.CreateVariation(context.Background(), inbound.CreateVariationCommand{
		UserID:           fx.userID,
		OriginalRecipeID: fx.original.ID,
		Request:          "make it spicy",
	})
	require.NoError(t, err)

	v := result.Variation
	assert.Equal(t, fx.original.ID, v.OriginalRecipeID)
	assert.Equal(t, recipe.VariationKindEdit, v.Kind)
	assert.Equal(t, "Spicy Version", v.Name)
	assert.Equal(t, "Added chili for heat", v.Description)
	assert.Equal(t, recipe.ChannelManual, v.CreatedVia)
	assert.Equal(t, "user asked for a spicy version", result.Explanation.Reason)

	// The snapshot merges model output over the original, keeping identity.
	snap := v.RecipeData
	assert.Equal(t, "Spicy Beef Stew", snap.Name)
	assert.Len(t, snap.Ingredients, 3)
	assert.Equal(t, 620, snap.Nutrition.Calories)
	assert.Equal(t, fx.original.ID, snap.ID)
	assert.Equal(t, fx.original.UserID, snap.UserID)
	assert.Equal(t, fx.original.CreatedAt, snap.CreatedAt)
	// Fields the response omitted survive from the original.
	assert.Equal(t, "Simmer for two hours.", snap.Instructions)
	assert.Equal(t, 120, snap.CookTimeMinutes)

	// The original row is untouched.
	stored, err := fx.recipes.FindByID(context.Background(), fx.userID, fx.original.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beef Stew", stored.Name)
	assert.Len(t, stored.Ingredients, 2)
}

func TestService_CreateVariation_PromptCarriesOriginal(t *testing.T) {
	fx := newServiceFixture(t)

	_, err := fx.service.CreateVariation(context.Background(), inbound.CreateVariationCommand{
		UserID:           fx.userID,
		OriginalRecipeID: fx.original.ID,
		Request:          "make it spicy",
	})
	require.NoError(t, err)

	require.Len(t, fx.provider.prompts, 1)
	assert.Contains(t, fx.provider.prompts[0], "Beef Stew")
	assert.Contains(t, fx.provider.prompts[0], "make it spicy")
	assert.Contains(t, fx.provider.prompts[0], generation.DietaryExclusionClause)
}

func TestService_CreateVariation_ChatChannel(t *testing.T) {
	fx := newServiceFixture(t)
	sessionID := uuid.New()

	result, err := fx.service.CreateVariation(context.Background(), inbound.CreateVariationCommand{
		UserID:           fx.userID,
		OriginalRecipeID: fx.original.ID,
		Request:          "make it vegan",
		ChatSessionID:    &sessionID,
	})
	require.NoError(t, err)

	assert.Equal(t, recipe.ChannelChat, result.Variation.CreatedVia)
	require.NotNil(t, result.Variation.ChatSessionID)
	assert.Equal(t, sessionID, *result.Variation.ChatSessionID)
}

func TestService_CreateVariation_RecipeNotFound(t *testing.T) {
	fx := newServiceFixture(t)

	_, err := fx.service.CreateVariation(context.Background(), inbound.CreateVariationCommand{
		UserID:           fx.userID,
		OriginalRecipeID: uuid.New(),
		Request:          "make it spicy",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestService_CreateVariation_OtherUsersRecipeNotFound(t *testing.T) {
	fx := newServiceFixture(t)

	_, err := fx.service.CreateVariation(context.Background(), inbound.CreateVariationCommand{
		UserID:           uuid.New(),
		OriginalRecipeID: fx.original.ID,
		Request:          "make it spicy",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestService_CreateVariation_MissingExplanationIsParseError(t *testing.T) {
	fx := newServiceFixture(t)
	fx.provider.response = `{"modified_recipe": {"recipe_name": "X", "ingredients": [{"name": "y", "quantity": "1"}]}}`

	_, err := fx.service.CreateVariation(context.Background(), inbound.CreateVariationCommand{
		UserID:           fx.userID,
		OriginalRecipeID: fx.original.ID,
		Request:          "anything",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeParseError))
}

func TestService_CreateVariation_ProviderErrorSurfaces(t *testing.T) {
	fx := newServiceFixture(t)
	fx.provider.err = errors.NewProviderError("anthropic", nil)

	_, err := fx.service.CreateVariation(context.Background(), inbound.CreateVariationCommand{
		UserID:           fx.userID,
		OriginalRecipeID: fx.original.ID,
		Request:          "anything",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeProviderError))
}

func TestService_CreateVariation_NoServiceAvailable(t *testing.T) {
	fx := newServiceFixture(t)
	fx.resolver.err = errors.NewNoServiceAvailableError()

	_, err := fx.service.CreateVariation(context.Background(), inbound.CreateVariationCommand{
		UserID:           fx.userID,
		OriginalRecipeID: fx.original.ID,
		Request:          "anything",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNoServiceAvailable))
}

func TestService_GetRecipeHistoryTimeline(t *testing.T) {
	fx := newServiceFixture(t)

	_, err := fx.service.CreateVariation(context.Background(), inbound.CreateVariationCommand{
		UserID:           fx.userID,
		OriginalRecipeID: fx.original.ID,
		Request:          "make it spicy",
	})
	require.NoError(t, err)

	result, err := fx.service.GetRecipeHistoryTimeline(context.Background(), fx.userID, fx.original.ID)
	require.NoError(t, err)

	require.Len(t, result.Timeline, 2)
	assert.Equal(t, inbound.TimelineEntryOriginal, result.Timeline[0].Kind)
	assert.Equal(t, inbound.TimelineEntryVariation, result.Timeline[1].Kind)
	assert.Equal(t, 1, result.Statistics.TotalVariations)
	assert.Equal(t, []string{"spicy"}, result.Statistics.TopCategories)
}

func TestService_CompareRecipeVersions(t *testing.T) {
	fx := newServiceFixture(t)

	t.Run("no variations yields empty diff", func(t *testing.T) {
		diff, err := fx.service.CompareRecipeVersions(context.Background(), fx.userID, fx.original.ID)
		require.NoError(t, err)
		assert.Equal(t, fx.original.ID, diff.OriginalID)
		assert.Empty(t, diff.Ingredients.Added)
		assert.Empty(t, diff.Ingredients.Removed)
		assert.Zero(t, diff.Nutrition.CalorieDiff)
	})

	result, err := fx.service.CreateVariation(context.Background(), inbound.CreateVariationCommand{
		UserID:           fx.userID,
		OriginalRecipeID: fx.original.ID,
		Request:          "make it spicy",
	})
	require.NoError(t, err)

	t.Run("latest variation compared by default", func(t *testing.T) {
		diff, err := fx.service.CompareRecipeVersions(context.Background(), fx.userID, fx.original.ID)
		require.NoError(t, err)
		require.Len(t, diff.Ingredients.Added, 1)
		assert.Equal(t, "chili", diff.Ingredients.Added[0].Name)
		assert.Equal(t, 20, diff.Nutrition.CalorieDiff)
	})

	t.Run("explicit variation id", func(t *testing.T) {
		id := result.Variation.ID
		diff, err := fx.service.GetDetailedRecipeComparison(context.Background(), fx.userID, fx.original.ID, &id)
		require.NoError(t, err)
		require.Len(t, diff.Ingredients.Added, 1)
	})

	t.Run("variation from another lineage rejected", func(t *testing.T) {
		other := &recipe.Recipe{
			ID:          uuid.New(),
			UserID:      fx.userID,
			Name:        "Other",
			Ingredients: []recipe.Ingredient{{Name: "x", Quantity: "1"}},
			CreatedAt:   fx.now,
		}
		require.NoError(t, fx.recipes.Create(context.Background(), other))

		id := result.Variation.ID
		_, err := fx.service.GetDetailedRecipeComparison(context.Background(), fx.userID, other.ID, &id)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeNotFound))
	})
}

func TestService_RollbackToVersion(t *testing.T) {
	fx := newServiceFixture(t)

	created, err := fx.service.CreateVariation(context.Background(), inbound.CreateVariationCommand{
		UserID:           fx.userID,
		OriginalRecipeID: fx.original.ID,
		Request:          "make it spicy",
	})
	require.NoError(t, err)

	result, err := fx.service.RollbackToVersion(context.Background(), inbound.RollbackCommand{
		UserID:           fx.userID,
		OriginalRecipeID: fx.original.ID,
		Reason:           "too spicy",
	})
	require.NoError(t, err)

	// The restored recipe is a new row carrying the original's content.
	restored := result.Recipe
	assert.NotEqual(t, fx.original.ID, restored.ID)
	assert.Equal(t, "Beef Stew (Rolled Back)", restored.Name)
	assert.Len(t, restored.Ingredients, 2)
	assert.Equal(t, recipe.ChannelChat, restored.CreatedVia)
	assert.True(t, restored.CreatedAt.After(fx.original.CreatedAt))

	stored, err := fx.recipes.FindByID(context.Background(), fx.userID, restored.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beef Stew (Rolled Back)", stored.Name)

	assert.Equal(t, "Spicy Version", result.RollbackInfo.RolledBackFrom)
	assert.Equal(t, "Beef Stew (original)", result.RollbackInfo.RolledBackTo)
	assert.Contains(t, result.RollbackInfo.ThingsRestored, "ingredients")
	assert.Contains(t, result.RollbackInfo.ThingsRestored, "nutrition")

	// Rollback appends to the lineage instead of rewriting it.
	variations, err := fx.variations.FindByOriginalRecipe(context.Background(), fx.userID, fx.original.ID)
	require.NoError(t, err)
	require.Len(t, variations, 2)
	assert.Equal(t, recipe.VariationKindEdit, variations[0].Kind)
	assert.Equal(t, recipe.VariationKindRollback, variations[1].Kind)
	assert.Contains(t, variations[1].Description, "too spicy")

	_ = created
}

func TestService_RollbackToSpecificVariation(t *testing.T) {
	fx := newServiceFixture(t)

	created, err := fx.service.CreateVariation(context.Background(), inbound.CreateVariationCommand{
		UserID:           fx.userID,
		OriginalRecipeID: fx.original.ID,
		Request:          "make it spicy",
	})
	require.NoError(t, err)

	id := created.Variation.ID
	result, err := fx.service.RollbackToVersion(context.Background(), inbound.RollbackCommand{
		UserID:           fx.userID,
		OriginalRecipeID: fx.original.ID,
		TargetVersionID:  &id,
	})
	require.NoError(t, err)

	assert.Equal(t, "Spicy Beef Stew (Rolled Back)", result.Recipe.Name)
	assert.Equal(t, "Spicy Version", result.RollbackInfo.RolledBackTo)
}

func TestService_DeleteVariation(t *testing.T) {
	fx := newServiceFixture(t)

	created, err := fx.service.CreateVariation(context.Background(), inbound.CreateVariationCommand{
		UserID:           fx.userID,
		OriginalRecipeID: fx.original.ID,
		Request:          "make it spicy",
	})
	require.NoError(t, err)

	require.NoError(t, fx.service.DeleteVariation(context.Background(), fx.userID, created.Variation.ID))

	err = fx.service.DeleteVariation(context.Background(), fx.userID, created.Variation.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestService_SaveVariationAsNewRecipe(t *testing.T) {
	fx := newServiceFixture(t)

	created, err := fx.service.CreateVariation(context.Background(), inbound.CreateVariationCommand{
		UserID:           fx.userID,
		OriginalRecipeID: fx.original.ID,
		Request:          "make it spicy",
	})
	require.NoError(t, err)

	promoted, err := fx.service.SaveVariationAsNewRecipe(context.Background(), fx.userID, created.Variation.ID)
	require.NoError(t, err)

	assert.NotEqual(t, fx.original.ID, promoted.ID)
	assert.Equal(t, "Spicy Beef Stew (Spicy Version)", promoted.Name)
	assert.Equal(t, fx.userID, promoted.UserID)

	stored, err := fx.recipes.FindByID(context.Background(), fx.userID, promoted.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Ingredients, 3)
}
