package recipe

import "errors"

var (
	ErrEmptyName        = errors.New("recipe name must not be empty")
	ErrNoIngredients    = errors.New("recipe must have at least one ingredient")
	ErrNegativeTime     = errors.New("prep and cook times must not be negative")
	ErrNegativeServings = errors.New("servings must not be negative")
	ErrNegativeCost     = errors.New("estimated cost must not be negative")
)
