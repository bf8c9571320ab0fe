package variation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/un-earthly/cookish/internal/domain/recipe"
	"github.com/un-earthly/cookish/internal/ports/inbound"
)

func TestDiffIngredients(t *testing.T) {
	from := []recipe.Ingredient{
		{Name: "Chicken Breast", Quantity: "2"},
		{Name: "olive oil", Quantity: "2 tbsp"},
		{Name: "butter", Quantity: "1 tbsp"},
		{Name: "salt", Quantity: "a pinch"},
	}
	to := []recipe.Ingredient{
		{Name: "chicken breast", Quantity: "3"},
		{Name: "olive oil", Quantity: "2 tbsp"},
		{Name: "tofu", Quantity: "200g"},
		{Name: "salt", Quantity: "1 tsp"},
	}

	diff := diffIngredients(from, to)

	require.Len(t, diff.Added, 1)
	assert.Equal(t, "tofu", diff.Added[0].Name)

	require.Len(t, diff.Removed, 1)
	assert.Equal(t, "butter", diff.Removed[0].Name)

	assert.Equal(t, []string{"olive oil"}, diff.Unchanged)

	require.Len(t, diff.Modified, 2)
	byName := map[string]inbound.IngredientModification{}
	for _, m := range diff.Modified {
		byName[m.Name] = m
	}
	assert.Equal(t, inbound.IngredientIncreased, byName["chicken breast"].Direction)
	assert.Equal(t, inbound.IngredientUnitChanged, byName["salt"].Direction)
}

func TestClassifyQuantityChange(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want inbound.IngredientChangeDirection
	}{
		{"increase", "2 cups", "3 cups", inbound.IngredientIncreased},
		{"decrease", "3 cups", "1.5 cups", inbound.IngredientDecreased},
		{"fractional increase", "0.5 lb", "1 lb", inbound.IngredientIncreased},
		{"non numeric from", "a pinch", "1 tsp", inbound.IngredientUnitChanged},
		{"non numeric to", "1 tsp", "to taste", inbound.IngredientUnitChanged},
		{"same number different unit", "2 tbsp", "2 tsp", inbound.IngredientUnitChanged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := classifyQuantityChange(
				recipe.Ingredient{Name: "x", Quantity: tt.from},
				recipe.Ingredient{Name: "x", Quantity: tt.to},
			)
			assert.Equal(t, tt.want, mod.Direction)
		})
	}
}

func TestDiffNutrition_HealthImpact(t *testing.T) {
	tests := []struct {
		name string
		from int
		to   int
		want inbound.HealthImpact
	}{
		{"fewer calories improves", 500, 400, inbound.HealthImproved},
		{"slight increase is neutral", 500, 550, inbound.HealthNeutral},
		{"exactly 20 percent higher is neutral", 500, 600, inbound.HealthNeutral},
		{"past 20 percent decreases", 500, 601, inbound.HealthDecreased},
		{"zero compared calories is neutral", 500, 0, inbound.HealthNeutral},
		{"equal is neutral", 500, 500, inbound.HealthNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := diffNutrition(
				recipe.NutritionSummary{Calories: tt.from},
				recipe.NutritionSummary{Calories: tt.to},
			)
			assert.Equal(t, tt.want, diff.HealthImpact)
			assert.Equal(t, tt.to-tt.from, diff.CalorieDiff)
		})
	}
}

func TestDiffNutrition_MacroChanges(t *testing.T) {
	diff := diffNutrition(
		recipe.NutritionSummary{Calories: 400, Protein: "30g", Carbs: "40g", Fat: "15g"},
		recipe.NutritionSummary{Calories: 400, Protein: "45g", Carbs: "40g", Fat: "10g"},
	)

	assert.Len(t, diff.MacroChanges, 2)
	assert.Contains(t, diff.MacroChanges, "protein: 30g -> 45g")
	assert.Contains(t, diff.MacroChanges, "fat: 15g -> 10g")
}

func TestDiffTiming(t *testing.T) {
	base := &recipe.Recipe{PrepTimeMinutes: 15, CookTimeMinutes: 30}

	tests := []struct {
		name string
		prep int
		cook int
		want string
	}{
		{"unchanged", 15, 30, "No timing change"},
		{"five minutes faster", 15, 25, "Slightly faster"},
		{"thirty minutes faster", 5, 10, "Significantly faster"},
		{"ten minutes slower", 20, 35, "Slightly slower"},
		{"an hour slower", 45, 60, "Significantly slower"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := diffTiming(base, &recipe.Recipe{PrepTimeMinutes: tt.prep, CookTimeMinutes: tt.cook})
			assert.Equal(t, tt.want, diff.EfficiencyImpact)
		})
	}
}

func TestDiffDifficulty(t *testing.T) {
	easier := diffDifficulty("hard", "easy")
	assert.Equal(t, "Simplified preparation", easier.Explanation)

	harder := diffDifficulty("easy", "medium")
	assert.Equal(t, "Requires more advanced technique", harder.Explanation)

	same := diffDifficulty("medium", "medium")
	assert.Equal(t, "Difficulty unchanged", same.Explanation)

	unknown := diffDifficulty("", "hard")
	assert.Equal(t, "Difficulty unchanged", unknown.Explanation)
}

func TestDiffCost(t *testing.T) {
	cheaper := diffCost(10.0, 7.5)
	assert.Equal(t, -2.5, cheaper.CostDiff)
	assert.Equal(t, -25.0, cheaper.CostPercent)
	assert.Equal(t, []string{"Substituted with budget ingredients"}, cheaper.CostFactors)

	pricier := diffCost(10.0, 12.0)
	assert.Equal(t, []string{"Added premium ingredients"}, pricier.CostFactors)

	same := diffCost(10.0, 10.0)
	assert.Empty(t, same.CostFactors)
}
