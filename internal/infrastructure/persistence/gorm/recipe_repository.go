package gorm

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/un-earthly/cookish/internal/domain/recipe"
	"github.com/un-earthly/cookish/internal/ports/outbound"
	"github.com/un-earthly/cookish/pkg/errors"
)

// RecipeRepository implements the recipe repository interface using GORM.
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository.
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create inserts a new recipe row.
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)

	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID finds a recipe by ID, scoped to its owner. A row owned by someone
// else is indistinguishable from a missing one.
func (r *RecipeRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel

	result := r.db.WithContext(ctx).
		First(&model, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("recipe", id.String())
		}
		return nil, errors.NewDatabaseError("find recipe", result.Error)
	}

	return ModelToRecipe(&model), nil
}

// Delete removes a recipe row, scoped to its owner.
func (r *RecipeRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&RecipeModel{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return errors.NewDatabaseError("delete recipe", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("recipe", id.String())
	}
	return nil
}
