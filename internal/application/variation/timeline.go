package variation

import (
	"fmt"
	"sort"
	"time"

	"github.com/un-earthly/cookish/internal/domain/recipe"
	"github.com/un-earthly/cookish/internal/ports/inbound"
)

// buildTimeline projects a lineage root and its variations into the history
// view. Entry order is the original followed by variations in creation order.
func buildTimeline(original *recipe.Recipe, variations []*recipe.Variation, now time.Time) *inbound.TimelineResult {
	timeline := make([]inbound.TimelineEntry, 0, len(variations)+1)

	timeline = append(timeline, inbound.TimelineEntry{
		Kind:        inbound.TimelineEntryOriginal,
		ID:          original.ID,
		Name:        original.Name,
		Description: "Original recipe",
		Timestamp:   original.CreatedAt,
		CreatedVia:  original.CreatedVia,
	})

	prev := original
	for _, v := range variations {
		kind := inbound.TimelineEntryVariation
		if v.Kind == recipe.VariationKindRollback {
			kind = inbound.TimelineEntryRollback
		}

		entry := inbound.TimelineEntry{
			Kind:        kind,
			ID:          v.ID,
			Name:        v.Name,
			Description: v.Description,
			Timestamp:   v.CreatedAt,
			CreatedVia:  v.CreatedVia,
		}
		if v.RecipeData != nil {
			entry.Changes = summarizeChanges(prev, v.RecipeData)
			prev = v.RecipeData
		}
		timeline = append(timeline, entry)
	}

	return &inbound.TimelineResult{
		Original:   original,
		Timeline:   timeline,
		Statistics: buildStatistics(variations, now),
	}
}

// summarizeChanges produces the short per-entry change list shown in the
// timeline, derived from the diff against the previous version.
func summarizeChanges(prev, next *recipe.Recipe) []string {
	var changes []string

	ing := diffIngredients(prev.Ingredients, next.Ingredients)
	if n := len(ing.Added); n > 0 {
		changes = append(changes, fmt.Sprintf("%d ingredient(s) added", n))
	}
	if n := len(ing.Removed); n > 0 {
		changes = append(changes, fmt.Sprintf("%d ingredient(s) removed", n))
	}
	if n := len(ing.Modified); n > 0 {
		changes = append(changes, fmt.Sprintf("%d ingredient quantity change(s)", n))
	}

	if d := next.TotalTimeMinutes() - prev.TotalTimeMinutes(); d != 0 {
		changes = append(changes, fmt.Sprintf("total time %+d min", d))
	}
	if next.Nutrition.Calories != prev.Nutrition.Calories {
		changes = append(changes, fmt.Sprintf("calories %+d", next.Nutrition.Calories-prev.Nutrition.Calories))
	}
	if next.Name != prev.Name {
		changes = append(changes, "renamed to "+next.Name)
	}

	return changes
}

// buildStatistics aggregates modification activity. The per-day rate window
// runs from the first variation to now, with a minimum one-day denominator so
// a recipe modified twice in its first hour reads as two per day, not
// infinity.
func buildStatistics(variations []*recipe.Variation, now time.Time) inbound.TimelineStatistics {
	stats := inbound.TimelineStatistics{TotalVariations: len(variations)}
	if len(variations) == 0 {
		return stats
	}

	last := variations[len(variations)-1].CreatedAt
	stats.LastModified = &last

	days := now.Sub(variations[0].CreatedAt).Hours() / 24
	if days < 1 {
		days = 1
	}
	stats.ModificationsPerDay = round2(float64(len(variations)) / days)

	stats.TopCategories = topCategories(variations, 3)
	return stats
}

// topCategories ranks variation categories by frequency, ties broken
// alphabetically for stable output.
func topCategories(variations []*recipe.Variation, limit int) []string {
	counts := make(map[string]int)
	for _, v := range variations {
		if v.Kind == recipe.VariationKindEdit {
			counts[categoryOf(v.Name)]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if counts[cats[i]] != counts[cats[j]] {
			return counts[cats[i]] > counts[cats[j]]
		}
		return cats[i] < cats[j]
	})

	if len(cats) > limit {
		cats = cats[:limit]
	}
	return cats
}
