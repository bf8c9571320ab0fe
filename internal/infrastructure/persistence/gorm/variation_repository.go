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

// VariationRepository implements the variation repository interface using GORM.
type VariationRepository struct {
	db *gorm.DB
}

// NewVariationRepository creates a new variation repository.
func NewVariationRepository(db *gorm.DB) outbound.VariationRepository {
	return &VariationRepository{db: db}
}

// Create inserts a new variation row.
func (r *VariationRepository) Create(ctx context.Context, v *recipe.Variation) error {
	model := VariationToModel(v)

	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID finds a variation by ID, scoped to its owner.
func (r *VariationRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*recipe.Variation, error) {
	var model VariationModel

	result := r.db.WithContext(ctx).
		First(&model, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("variation", id.String())
		}
		return nil, errors.NewDatabaseError("find variation", result.Error)
	}

	return ModelToVariation(&model), nil
}

// FindByOriginalRecipe returns all variations of a lineage root in creation
// order.
func (r *VariationRepository) FindByOriginalRecipe(ctx context.Context, userID, originalRecipeID uuid.UUID) ([]*recipe.Variation, error) {
	var models []VariationModel

	result := r.db.WithContext(ctx).
		Where("original_recipe_id = ? AND user_id = ?", originalRecipeID, userID).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	variations := make([]*recipe.Variation, len(models))
	for i := range models {
		variations[i] = ModelToVariation(&models[i])
	}
	return variations, nil
}

// Delete removes a variation row, scoped to its owner.
func (r *VariationRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&VariationModel{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return errors.NewDatabaseError("delete variation", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("variation", id.String())
	}
	return nil
}
