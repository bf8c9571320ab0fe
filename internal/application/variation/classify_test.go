package variation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyName(t *testing.T) {
	tests := []struct {
		request string
		want    string
	}{
		{"make it vegan please", "Vegan Version"},
		{"I need a gluten-free version", "Gluten-Free Version"},
		{"make it really spicy", "Spicy Version"},
		{"make this healthier", "Healthier Version"},
		{"quicker weeknight take", "Quick Version"},
		{"substitute the chicken for tofu", "Ingredient Substitution"},
		{"replace butter with oil", "Ingredient Substitution"},
		{"swap rice for quinoa", "Ingredient Substitution"},
		{"add a bit more garlic", "Custom Variation 1"},
	}

	for _, tt := range tests {
		t.Run(tt.request, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyName(tt.request, 0))
		})
	}
}

func TestClassifyName_SequencesCustomNames(t *testing.T) {
	assert.Equal(t, "Custom Variation 3", classifyName("double the garlic", 2))
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, "vegan", categoryOf("Vegan Version"))
	assert.Equal(t, "gluten-free", categoryOf("Gluten-Free Version"))
	assert.Equal(t, "substitution", categoryOf("Ingredient Substitution"))
	assert.Equal(t, "custom", categoryOf("Custom Variation 2"))
}
