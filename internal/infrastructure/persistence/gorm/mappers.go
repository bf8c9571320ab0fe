package gorm

import (
	"github.com/un-earthly/cookish/internal/domain/recipe"
)

// RecipeToModel converts a domain recipe to its GORM model.
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	return &RecipeModel{
		ID:                   r.ID,
		UserID:               r.UserID,
		RecipeDate:           r.RecipeDate,
		MealType:             r.MealType,
		Name:                 r.Name,
		Ingredients:          IngredientList(r.Ingredients),
		Instructions:         r.Instructions,
		PrepTimeMinutes:      r.PrepTimeMinutes,
		CookTimeMinutes:      r.CookTimeMinutes,
		Servings:             r.Servings,
		EstimatedCost:        r.EstimatedCost,
		Nutrition:            NutritionJSON(r.Nutrition),
		Difficulty:           r.Difficulty,
		CuisineType:          r.CuisineType,
		Tags:                 StringSlice(r.Tags),
		VariationSuggestions: StringSlice(r.VariationSuggestions),
		CookingTips:          StringSlice(r.CookingTips),
		CreatedVia:           string(r.CreatedVia),
		GeneratedBy:          string(r.GeneratedBy),
		FallbackUsed:         r.FallbackUsed,
		ChatSessionID:        r.ChatSessionID,
		CreatedAt:            r.CreatedAt,
	}
}

// ModelToRecipe converts a GORM model back to the domain recipe.
func ModelToRecipe(m *RecipeModel) *recipe.Recipe {
	return &recipe.Recipe{
		ID:                   m.ID,
		UserID:               m.UserID,
		RecipeDate:           m.RecipeDate,
		MealType:             m.MealType,
		Name:                 m.Name,
		Ingredients:          []recipe.Ingredient(m.Ingredients),
		Instructions:         m.Instructions,
		PrepTimeMinutes:      m.PrepTimeMinutes,
		CookTimeMinutes:      m.CookTimeMinutes,
		Servings:             m.Servings,
		EstimatedCost:        m.EstimatedCost,
		Nutrition:            recipe.NutritionSummary(m.Nutrition),
		Difficulty:           m.Difficulty,
		CuisineType:          m.CuisineType,
		Tags:                 []string(m.Tags),
		VariationSuggestions: []string(m.VariationSuggestions),
		CookingTips:          []string(m.CookingTips),
		CreatedVia:           recipe.Channel(m.CreatedVia),
		GeneratedBy:          recipe.Backend(m.GeneratedBy),
		FallbackUsed:         m.FallbackUsed,
		ChatSessionID:        m.ChatSessionID,
		CreatedAt:            m.CreatedAt,
	}
}

// VariationToModel converts a domain variation to its GORM model. The owner
// column is denormalized from the embedded snapshot.
func VariationToModel(v *recipe.Variation) *VariationModel {
	m := &VariationModel{
		ID:               v.ID,
		OriginalRecipeID: v.OriginalRecipeID,
		Kind:             string(v.Kind),
		Name:             v.Name,
		Description:      v.Description,
		CreatedVia:       string(v.CreatedVia),
		ChatSessionID:    v.ChatSessionID,
		CreatedAt:        v.CreatedAt,
	}
	if v.RecipeData != nil {
		m.UserID = v.RecipeData.UserID
		m.RecipeData = RecipeSnapshot(*v.RecipeData)
	}
	return m
}

// ModelToVariation converts a GORM model back to the domain variation.
func ModelToVariation(m *VariationModel) *recipe.Variation {
	data := recipe.Recipe(m.RecipeData)
	return &recipe.Variation{
		ID:               m.ID,
		OriginalRecipeID: m.OriginalRecipeID,
		Kind:             recipe.VariationKind(m.Kind),
		Name:             m.Name,
		Description:      m.Description,
		RecipeData:       &data,
		CreatedVia:       recipe.Channel(m.CreatedVia),
		ChatSessionID:    m.ChatSessionID,
		CreatedAt:        m.CreatedAt,
	}
}
