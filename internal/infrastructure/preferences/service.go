// Package preferences reads per-user generation context from the database
// with a cache in front.
package preferences

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	gormdb "gorm.io/gorm"

	gormModels "github.com/un-earthly/cookish/internal/infrastructure/persistence/gorm"
	"github.com/un-earthly/cookish/internal/ports/outbound"
)

const cacheTTL = 5 * time.Minute

// Service implements the preference service on GORM with read-through caching.
// A user with no stored row gets free-tier defaults rather than an error.
type Service struct {
	db     *gormdb.DB
	cache  outbound.CacheRepository
	logger *zap.Logger
}

// NewService creates a preference service. cache may be nil.
func NewService(db *gormdb.DB, cache outbound.CacheRepository, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		cache:  cache,
		logger: logger.Named("preference-service"),
	}
}

var _ outbound.PreferenceService = (*Service)(nil)

func cacheKey(userID uuid.UUID) string {
	return "prefs:" + userID.String()
}

// Preferences returns the stored preferences for a user, falling back to
// free-tier defaults when none exist.
func (s *Service) Preferences(ctx context.Context, userID uuid.UUID) (*outbound.Preferences, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey(userID)); err == nil {
			var prefs outbound.Preferences
			if err := json.Unmarshal(data, &prefs); err == nil {
				return &prefs, nil
			}
		}
	}

	var model gormModels.UserPreferencesModel
	result := s.db.WithContext(ctx).First(&model, "user_id = ?", userID)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return &outbound.Preferences{Tier: outbound.TierFree}, nil
		}
		return nil, result.Error
	}

	prefs := &outbound.Preferences{
		DietaryRestrictions: []string(model.DietaryRestrictions),
		SkillLevel:          model.SkillLevel,
		PreferredCuisines:   []string(model.PreferredCuisines),
		Location:            model.Location,
		APIKey:              model.APIKey,
		Tier:                outbound.SubscriptionTier(model.Tier),
		PreferredProvider:   model.PreferredProvider,
	}
	if prefs.Tier == "" {
		prefs.Tier = outbound.TierFree
	}

	if s.cache != nil {
		if data, err := json.Marshal(prefs); err == nil {
			if err := s.cache.Set(ctx, cacheKey(userID), data, cacheTTL); err != nil {
				s.logger.Debug("preference cache write failed", zap.Error(err))
			}
		}
	}

	return prefs, nil
}

// EnhancedDietaryPrompt builds the per-user dietary clause interpolated into
// conversational prompts.
func (s *Service) EnhancedDietaryPrompt(ctx context.Context, userID uuid.UUID) (string, error) {
	prefs, err := s.Preferences(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(prefs.DietaryRestrictions) == 0 {
		return "", nil
	}

	return fmt.Sprintf("IMPORTANT: the user follows these dietary restrictions: %s. Every ingredient must comply.",
		strings.Join(prefs.DietaryRestrictions, ", ")), nil
}

// Invalidate drops the cached preferences for a user.
func (s *Service) Invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(userID)); err != nil {
		s.logger.Debug("preference cache invalidation failed", zap.Error(err))
	}
}

// isNotFound unwraps before matching so decorated gorm errors still read as
// a missing row.
func isNotFound(err error) bool {
	return stderrors.Is(err, gormdb.ErrRecordNotFound)
}
