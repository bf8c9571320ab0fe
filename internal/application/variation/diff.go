package variation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/un-earthly/cookish/internal/domain/recipe"
	"github.com/un-earthly/cookish/internal/ports/inbound"
)

// computeDiff derives the full comparison between two recipe versions. The
// result is computed on demand and never stored.
func computeDiff(original, compared *recipe.Recipe) *inbound.DiffResult {
	return &inbound.DiffResult{
		OriginalID:  original.ID,
		ComparedID:  compared.ID,
		Ingredients: diffIngredients(original.Ingredients, compared.Ingredients),
		Nutrition:   diffNutrition(original.Nutrition, compared.Nutrition),
		Timing:      diffTiming(original, compared),
		Difficulty:  diffDifficulty(original.Difficulty, compared.Difficulty),
		Cost:        diffCost(original.EstimatedCost, compared.EstimatedCost),
	}
}

// diffIngredients matches entries by lowercase name. A rename therefore shows
// up as a removal plus an addition, not a modification.
func diffIngredients(from, to []recipe.Ingredient) inbound.IngredientDiff {
	diff := inbound.IngredientDiff{
		Added:     []recipe.Ingredient{},
		Removed:   []recipe.Ingredient{},
		Modified:  []inbound.IngredientModification{},
		Unchanged: []string{},
	}

	fromByName := make(map[string]recipe.Ingredient, len(from))
	for _, ing := range from {
		fromByName[strings.ToLower(ing.Name)] = ing
	}

	seen := make(map[string]bool, len(to))
	for _, ing := range to {
		key := strings.ToLower(ing.Name)
		seen[key] = true

		orig, ok := fromByName[key]
		if !ok {
			diff.Added = append(diff.Added, ing)
			continue
		}
		if orig.Quantity == ing.Quantity {
			diff.Unchanged = append(diff.Unchanged, ing.Name)
			continue
		}
		diff.Modified = append(diff.Modified, classifyQuantityChange(orig, ing))
	}

	for _, ing := range from {
		if !seen[strings.ToLower(ing.Name)] {
			diff.Removed = append(diff.Removed, ing)
		}
	}

	return diff
}

// classifyQuantityChange compares the leading numeric portion of the two
// quantity strings. When either side does not start with a number the change
// is reported as unit_changed.
func classifyQuantityChange(from, to recipe.Ingredient) inbound.IngredientModification {
	mod := inbound.IngredientModification{
		Name:         to.Name,
		FromQuantity: from.Quantity,
		ToQuantity:   to.Quantity,
	}

	fromVal, fromOK := leadingNumber(from.Quantity)
	toVal, toOK := leadingNumber(to.Quantity)

	switch {
	case !fromOK || !toOK:
		mod.Direction = inbound.IngredientUnitChanged
		mod.Impact = "Measurement changed"
	case toVal > fromVal:
		mod.Direction = inbound.IngredientIncreased
		mod.Impact = fmt.Sprintf("Uses more %s", strings.ToLower(to.Name))
	case toVal < fromVal:
		mod.Direction = inbound.IngredientDecreased
		mod.Impact = fmt.Sprintf("Uses less %s", strings.ToLower(to.Name))
	default:
		mod.Direction = inbound.IngredientUnitChanged
		mod.Impact = "Measurement changed"
	}

	return mod
}

// leadingNumber parses the numeric prefix of a quantity string ("2 cups" -> 2,
// "1.5 lb" -> 1.5). Fractions and words ("a pinch") do not parse.
func leadingNumber(quantity string) (float64, bool) {
	s := strings.TrimSpace(quantity)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.') {
		end++
	}
	if end == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// diffNutrition reports calorie movement. Health impact improves on any
// calorie reduction to a nonzero value and degrades only past a 20% increase.
func diffNutrition(from, to recipe.NutritionSummary) inbound.NutritionDiff {
	diff := inbound.NutritionDiff{
		CalorieDiff:  to.Calories - from.Calories,
		HealthImpact: inbound.HealthNeutral,
	}
	if from.Calories > 0 {
		diff.CaloriePercent = round1(float64(diff.CalorieDiff) / float64(from.Calories) * 100)
	}

	switch {
	case to.Calories > 0 && to.Calories < from.Calories:
		diff.HealthImpact = inbound.HealthImproved
	case from.Calories > 0 && float64(to.Calories) > float64(from.Calories)*1.2:
		diff.HealthImpact = inbound.HealthDecreased
	}

	for _, macro := range []struct {
		label    string
		from, to string
	}{
		{"protein", from.Protein, to.Protein},
		{"carbs", from.Carbs, to.Carbs},
		{"fat", from.Fat, to.Fat},
	} {
		if macro.from != macro.to && macro.to != "" {
			diff.MacroChanges = append(diff.MacroChanges,
				fmt.Sprintf("%s: %s -> %s", macro.label, macro.from, macro.to))
		}
	}

	return diff
}

// diffTiming reports prep and cook time movement in minutes. Changes within
// ten minutes either way are "slight".
func diffTiming(from, to *recipe.Recipe) inbound.TimingDiff {
	diff := inbound.TimingDiff{
		PrepTimeDiff:  to.PrepTimeMinutes - from.PrepTimeMinutes,
		CookTimeDiff:  to.CookTimeMinutes - from.CookTimeMinutes,
		TotalTimeDiff: to.TotalTimeMinutes() - from.TotalTimeMinutes(),
	}

	switch {
	case diff.TotalTimeDiff == 0:
		diff.EfficiencyImpact = "No timing change"
	case diff.TotalTimeDiff < 0 && diff.TotalTimeDiff >= -10:
		diff.EfficiencyImpact = "Slightly faster"
	case diff.TotalTimeDiff < -10:
		diff.EfficiencyImpact = "Significantly faster"
	case diff.TotalTimeDiff <= 10:
		diff.EfficiencyImpact = "Slightly slower"
	default:
		diff.EfficiencyImpact = "Significantly slower"
	}

	return diff
}

// difficultyRank orders the known difficulty labels for the explanation text.
func difficultyRank(d string) int {
	switch strings.ToLower(d) {
	case "easy":
		return 1
	case "medium":
		return 2
	case "hard":
		return 3
	default:
		return 0
	}
}

func diffDifficulty(from, to string) inbound.DifficultyDiff {
	diff := inbound.DifficultyDiff{From: from, To: to}

	fromRank, toRank := difficultyRank(from), difficultyRank(to)
	switch {
	case from == to || fromRank == 0 || toRank == 0:
		diff.Explanation = "Difficulty unchanged"
	case toRank < fromRank:
		diff.Explanation = "Simplified preparation"
	default:
		diff.Explanation = "Requires more advanced technique"
	}

	return diff
}

func diffCost(from, to float64) inbound.CostDiff {
	diff := inbound.CostDiff{CostDiff: round2(to - from)}
	if from > 0 {
		diff.CostPercent = round1((to - from) / from * 100)
	}

	switch {
	case diff.CostDiff < 0:
		diff.CostFactors = []string{"Substituted with budget ingredients"}
	case diff.CostDiff > 0:
		diff.CostFactors = []string{"Added premium ingredients"}
	}

	return diff
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
