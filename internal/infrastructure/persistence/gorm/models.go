// Package gorm provides the GORM models and repository implementations
// backing the recipe store.
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/un-earthly/cookish/internal/domain/recipe"
)

// RecipeModel is the GORM model for recipe rows. Rows are immutable: the
// engine inserts, reads and deletes but never updates.
type RecipeModel struct {
	ID     uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID uuid.UUID `gorm:"type:char(36);not null;index"`

	RecipeDate time.Time `gorm:"index"`
	MealType   string    `gorm:"type:varchar(50);index"`
	Name       string    `gorm:"type:varchar(255);not null"`

	Ingredients     IngredientList `gorm:"type:json"`
	Instructions    string         `gorm:"type:text"`
	PrepTimeMinutes int            `gorm:"default:0"`
	CookTimeMinutes int            `gorm:"default:0"`
	Servings        int            `gorm:"default:0"`
	EstimatedCost   float64        `gorm:"default:0"`
	Nutrition       NutritionJSON  `gorm:"type:json"`

	Difficulty           string      `gorm:"type:varchar(20)"`
	CuisineType          string      `gorm:"type:varchar(50)"`
	Tags                 StringSlice `gorm:"type:json"`
	VariationSuggestions StringSlice `gorm:"type:json"`
	CookingTips          StringSlice `gorm:"type:json"`

	CreatedVia    string     `gorm:"type:varchar(20)"`
	GeneratedBy   string     `gorm:"type:varchar(20)"`
	FallbackUsed  bool       `gorm:"default:false"`
	ChatSessionID *uuid.UUID `gorm:"type:char(36)"`

	CreatedAt time.Time `gorm:"index"`
}

// TableName overrides the GORM table name.
func (RecipeModel) TableName() string {
	return "recipes"
}

// BeforeCreate hook for RecipeModel
func (r *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// VariationModel is the GORM model for variation rows. UserID is denormalized
// from the snapshot so lookups can be owner-scoped without a join.
type VariationModel struct {
	ID               uuid.UUID `gorm:"type:char(36);primaryKey"`
	OriginalRecipeID uuid.UUID `gorm:"type:char(36);not null;index"`
	UserID           uuid.UUID `gorm:"type:char(36);not null;index"`
	Kind             string    `gorm:"type:varchar(20);not null"`

	Name        string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`

	RecipeData RecipeSnapshot `gorm:"type:json"`

	CreatedVia    string     `gorm:"type:varchar(20)"`
	ChatSessionID *uuid.UUID `gorm:"type:char(36)"`
	CreatedAt     time.Time  `gorm:"index"`
}

// TableName overrides the GORM table name.
func (VariationModel) TableName() string {
	return "recipe_variations"
}

// BeforeCreate hook for VariationModel
func (v *VariationModel) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// UserPreferencesModel stores per-user generation context.
type UserPreferencesModel struct {
	UserID              uuid.UUID   `gorm:"type:char(36);primaryKey"`
	DietaryRestrictions StringSlice `gorm:"type:json"`
	SkillLevel          string      `gorm:"type:varchar(50)"`
	PreferredCuisines   StringSlice `gorm:"type:json"`
	Location            string      `gorm:"type:varchar(255)"`
	APIKey              string      `gorm:"type:varchar(255)"`
	Tier                string      `gorm:"type:varchar(20);default:'free'"`
	PreferredProvider   string      `gorm:"type:varchar(50)"`
	UpdatedAt           time.Time
}

// TableName overrides the GORM table name.
func (UserPreferencesModel) TableName() string {
	return "user_preferences"
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// IngredientList custom type for the JSON ingredient column
type IngredientList []recipe.Ingredient

// Scan implements the sql.Scanner interface
func (l *IngredientList) Scan(value interface{}) error {
	if value == nil {
		*l = IngredientList{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into IngredientList", value)
	}
}

// Value implements the driver.Valuer interface
func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// NutritionJSON custom type for the JSON nutrition column
type NutritionJSON recipe.NutritionSummary

// Scan implements the sql.Scanner interface
func (n *NutritionJSON) Scan(value interface{}) error {
	if value == nil {
		*n = NutritionJSON{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, n)
	case string:
		return json.Unmarshal([]byte(v), n)
	default:
		return fmt.Errorf("cannot scan %T into NutritionJSON", value)
	}
}

// Value implements the driver.Valuer interface
func (n NutritionJSON) Value() (driver.Value, error) {
	return json.Marshal(n)
}

// RecipeSnapshot custom type for the full recipe snapshot a variation carries
type RecipeSnapshot recipe.Recipe

// Scan implements the sql.Scanner interface
func (r *RecipeSnapshot) Scan(value interface{}) error {
	if value == nil {
		*r = RecipeSnapshot{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("cannot scan %T into RecipeSnapshot", value)
	}
}

// Value implements the driver.Valuer interface
func (r RecipeSnapshot) Value() (driver.Value, error) {
	return json.Marshal(r)
}
