// Package recipejson decodes the canonical recipe JSON that every generation
// backend is prompted to produce. All providers share this decoder so their
// behavior on sloppy model output is identical: the first balanced JSON
// object wins, missing optional fields default to empty collections, and the
// common model quirks (numeric quantities, step arrays) are tolerated.
package recipejson

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/un-earthly/cookish/internal/domain/recipe"
	"github.com/un-earthly/cookish/internal/infrastructure/ai/jsonextract"
)

// ErrMissingModification is returned when a modification response lacks the
// modified_recipe or explanation object.
var ErrMissingModification = errors.New("response must contain both modified_recipe and explanation")

// FlexString decodes JSON strings and bare numbers into a string. Models
// frequently emit `"quantity": 2` where the schema asks for "2 cups".
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}
	return errors.New("value is neither string nor number")
}

// StepText decodes either a single string or an array of step strings into
// newline-joined free text.
type StepText string

// UnmarshalJSON implements json.Unmarshaler.
func (s *StepText) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = StepText(one)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*s = StepText(strings.Join(many, "\n"))
		return nil
	}
	return errors.New("instructions are neither string nor string array")
}

// IngredientPayload is one ingredient as the model reports it.
type IngredientPayload struct {
	Name     string     `json:"name"`
	Quantity FlexString `json:"quantity"`
	Notes    string     `json:"notes"`
}

// NutritionPayload is the nutrition block as the model reports it.
type NutritionPayload struct {
	Calories   int        `json:"calories"`
	Protein    FlexString `json:"protein"`
	Carbs      FlexString `json:"carbs"`
	Fat        FlexString `json:"fat"`
	Highlights string     `json:"highlights"`
}

// Payload is the canonical partial recipe every provider parses into.
// Fields absent from the response stay at their zero value; ApplyTo treats
// zero values as "not provided".
type Payload struct {
	RecipeName    string              `json:"recipe_name"`
	MealType      string              `json:"meal_type"`
	Ingredients   []IngredientPayload `json:"ingredients"`
	Instructions  StepText            `json:"instructions"`
	PrepTime      int                 `json:"prep_time"`
	CookTime      int                 `json:"cook_time"`
	Servings      int                 `json:"servings"`
	EstimatedCost float64             `json:"estimated_cost"`
	Nutrition     *NutritionPayload   `json:"nutrition"`

	// Extended (premium) fields
	Difficulty           string   `json:"difficulty"`
	CuisineType          string   `json:"cuisine_type"`
	Tags                 []string `json:"tags"`
	VariationSuggestions []string `json:"variations"`
	CookingTips          []string `json:"cooking_tips"`
}

// Parse extracts the first balanced JSON object from raw model output and
// decodes it into a Payload.
func Parse(text string) (*Payload, error) {
	obj, err := jsonextract.FirstObject(text)
	if err != nil {
		return nil, err
	}

	var p Payload
	if err := json.Unmarshal([]byte(obj), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ApplyTo overlays the payload's provided fields onto r. Zero values are
// skipped, so the same code serves fresh generation (onto an empty recipe)
// and variation merging (over the original's snapshot). Collections are
// replaced wholesale, never element-merged.
func (p *Payload) ApplyTo(r *recipe.Recipe) {
	if p.RecipeName != "" {
		r.Name = p.RecipeName
	}
	if p.MealType != "" {
		r.MealType = p.MealType
	}
	if len(p.Ingredients) > 0 {
		r.Ingredients = make([]recipe.Ingredient, len(p.Ingredients))
		for i, ing := range p.Ingredients {
			r.Ingredients[i] = recipe.Ingredient{
				Name:     ing.Name,
				Quantity: string(ing.Quantity),
				Notes:    ing.Notes,
			}
		}
	}
	if p.Instructions != "" {
		r.Instructions = string(p.Instructions)
	}
	if p.PrepTime > 0 {
		r.PrepTimeMinutes = p.PrepTime
	}
	if p.CookTime > 0 {
		r.CookTimeMinutes = p.CookTime
	}
	if p.Servings > 0 {
		r.Servings = p.Servings
	}
	if p.EstimatedCost > 0 {
		r.EstimatedCost = p.EstimatedCost
	}
	if p.Nutrition != nil {
		r.Nutrition = recipe.NutritionSummary{
			Calories:   p.Nutrition.Calories,
			Protein:    string(p.Nutrition.Protein),
			Carbs:      string(p.Nutrition.Carbs),
			Fat:        string(p.Nutrition.Fat),
			Highlights: p.Nutrition.Highlights,
		}
	}
	if p.Difficulty != "" {
		r.Difficulty = p.Difficulty
	}
	if p.CuisineType != "" {
		r.CuisineType = p.CuisineType
	}
	if len(p.Tags) > 0 {
		r.Tags = append([]string(nil), p.Tags...)
	}
	if len(p.VariationSuggestions) > 0 {
		r.VariationSuggestions = append([]string(nil), p.VariationSuggestions...)
	}
	if len(p.CookingTips) > 0 {
		r.CookingTips = append([]string(nil), p.CookingTips...)
	}
}

// ToRecipe builds a fresh recipe from the payload with empty-collection
// defaults for anything the model left out.
func (p *Payload) ToRecipe() *recipe.Recipe {
	r := &recipe.Recipe{
		Ingredients: []recipe.Ingredient{},
		Tags:        []string{},
	}
	p.ApplyTo(r)
	return r
}

// Explanation is the model-authored account of a modification.
type Explanation struct {
	Summary string   `json:"summary"`
	Changes []string `json:"changes"`
	Reason  string   `json:"reason"`
}

// modificationEnvelope is the required shape of a variation response.
type modificationEnvelope struct {
	ModifiedRecipe *Payload     `json:"modified_recipe"`
	Explanation    *Explanation `json:"explanation"`
}

// ParseModification decodes a variation response. The envelope must contain
// both the modified_recipe and explanation objects; anything less is a parse
// failure, not a partial success.
func ParseModification(text string) (*Payload, *Explanation, error) {
	obj, err := jsonextract.FirstObject(text)
	if err != nil {
		return nil, nil, err
	}

	var env modificationEnvelope
	if err := json.Unmarshal([]byte(obj), &env); err != nil {
		return nil, nil, err
	}
	if env.ModifiedRecipe == nil || env.Explanation == nil {
		return nil, nil, ErrMissingModification
	}
	return env.ModifiedRecipe, env.Explanation, nil
}
