// Package variation implements the versioning side of the engine: AI-assisted
// edits, history timelines, version diffing and rollback.
package variation

import (
	"fmt"
	"strings"
)

// classification keywords are checked in order; the first hit wins.
var nameCategories = []struct {
	keyword string
	name    string
}{
	{"vegan", "Vegan Version"},
	{"gluten", "Gluten-Free Version"},
	{"spicy", "Spicy Version"},
	{"health", "Healthier Version"},
	{"quick", "Quick Version"},
	{"substitut", "Ingredient Substitution"},
	{"replace", "Ingredient Substitution"},
	{"swap", "Ingredient Substitution"},
}

// classifyName derives a short variation name from the modification request.
// Unrecognized requests get a generic sequenced name.
func classifyName(request string, existingCount int) string {
	lower := strings.ToLower(request)
	for _, c := range nameCategories {
		if strings.Contains(lower, c.keyword) {
			return c.name
		}
	}
	return fmt.Sprintf("Custom Variation %d", existingCount+1)
}

// categoryOf maps a variation name back to its statistics bucket.
func categoryOf(name string) string {
	switch {
	case strings.Contains(name, "Vegan"):
		return "vegan"
	case strings.Contains(name, "Gluten"):
		return "gluten-free"
	case strings.Contains(name, "Spicy"):
		return "spicy"
	case strings.Contains(name, "Health"):
		return "healthy"
	case strings.Contains(name, "Quick"):
		return "quick"
	case strings.Contains(name, "Substitution"):
		return "substitution"
	default:
		return "custom"
	}
}
