// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/un-earthly/cookish/internal/domain/recipe"
)

// RecipeFactory creates randomized but valid recipes for tests.
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory creates a recipe factory with a seeded faker so failing
// tests reproduce the same data.
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{
		faker: gofakeit.New(seed),
	}
}

// Recipe builds a fully populated recipe owned by the given user.
func (f *RecipeFactory) Recipe(userID uuid.UUID) *recipe.Recipe {
	ingredients := make([]recipe.Ingredient, 0, 4)
	for i := 0; i < 4; i++ {
		ingredients = append(ingredients, recipe.Ingredient{
			Name:     f.faker.Vegetable(),
			Quantity: fmt.Sprintf("%d cups", f.faker.Number(1, 4)),
		})
	}

	return &recipe.Recipe{
		ID:              uuid.New(),
		UserID:          userID,
		RecipeDate:      time.Now().Truncate(24 * time.Hour),
		MealType:        f.faker.RandomString([]string{"breakfast", "lunch", "dinner"}),
		Name:            f.faker.Dinner(),
		Ingredients:     ingredients,
		Instructions:    f.faker.Paragraph(1, 3, 8, " "),
		PrepTimeMinutes: f.faker.Number(5, 30),
		CookTimeMinutes: f.faker.Number(10, 90),
		Servings:        f.faker.Number(1, 8),
		EstimatedCost:   float64(f.faker.Number(5, 40)),
		Nutrition: recipe.NutritionSummary{
			Calories: f.faker.Number(200, 900),
			Protein:  fmt.Sprintf("%dg", f.faker.Number(10, 60)),
			Carbs:    fmt.Sprintf("%dg", f.faker.Number(20, 90)),
			Fat:      fmt.Sprintf("%dg", f.faker.Number(5, 40)),
		},
		Difficulty:  f.faker.RandomString([]string{"easy", "medium", "hard"}),
		CuisineType: f.faker.RandomString([]string{"italian", "mexican", "thai", "french"}),
		Tags:        []string{f.faker.Word(), f.faker.Word()},
		CreatedVia:  recipe.ChannelManual,
		GeneratedBy: recipe.BackendCloudPremium,
		CreatedAt:   time.Now(),
	}
}

// Variation builds an edit variation whose snapshot derives from the original.
func (f *RecipeFactory) Variation(original *recipe.Recipe) *recipe.Variation {
	snapshot := original.Clone()
	snapshot.Name = original.Name + " (" + f.faker.Adjective() + ")"

	return &recipe.Variation{
		ID:               uuid.New(),
		OriginalRecipeID: original.ID,
		Kind:             recipe.VariationKindEdit,
		Name:             snapshot.Name,
		Description:      f.faker.Sentence(6),
		RecipeData:       snapshot,
		CreatedVia:       recipe.ChannelManual,
		CreatedAt:        original.CreatedAt.Add(time.Hour),
	}
}
