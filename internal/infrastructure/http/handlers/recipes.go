// Package handlers provides the HTTP handlers for the recipe API.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/un-earthly/cookish/internal/infrastructure/http/middleware"
	"github.com/un-earthly/cookish/internal/ports/inbound"
	"github.com/un-earthly/cookish/pkg/errors"
)

// RecipeHandlers handles recipe generation and versioning requests.
type RecipeHandlers struct {
	generation inbound.GenerationService
	variations inbound.VariationService
	logger     *zap.Logger
}

// NewRecipeHandlers creates the recipe API handlers.
func NewRecipeHandlers(
	generation inbound.GenerationService,
	variations inbound.VariationService,
	logger *zap.Logger,
) *RecipeHandlers {
	return &RecipeHandlers{
		generation: generation,
		variations: variations,
		logger:     logger.Named("recipe-handlers"),
	}
}

// GenerateRecipeRequest is the POST /recipes/generate payload.
type GenerateRecipeRequest struct {
	Query         string     `json:"query"`
	MealType      string     `json:"meal_type,omitempty"`
	RecipeDate    *time.Time `json:"recipe_date,omitempty"`
	Servings      int        `json:"servings,omitempty"`
	ChatSessionID *uuid.UUID `json:"chat_session_id,omitempty"`
}

// CreateVariationRequest is the POST /recipes/{id}/variations payload.
type CreateVariationRequest struct {
	Request       string     `json:"request"`
	ChatSessionID *uuid.UUID `json:"chat_session_id,omitempty"`
}

// RollbackRequest is the POST /recipes/{id}/rollback payload.
type RollbackRequest struct {
	TargetVersionID *uuid.UUID `json:"target_version_id,omitempty"`
	Reason          string     `json:"reason,omitempty"`
}

// Generate handles POST /api/v1/recipes/generate
func (h *RecipeHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.writeError(w, r, errors.NewAppError(errors.CodeAuthFailed, "Not authenticated", ""))
		return
	}

	var req GenerateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, errors.NewBadRequestError("Invalid JSON payload"))
		return
	}
	if req.Query == "" {
		h.writeError(w, r, errors.NewValidationError("query is required"))
		return
	}

	cmd := inbound.GenerateRecipeCommand{
		UserID:        userID,
		Query:         req.Query,
		MealType:      req.MealType,
		Servings:      req.Servings,
		ChatSessionID: req.ChatSessionID,
	}
	if req.RecipeDate != nil {
		cmd.RecipeDate = *req.RecipeDate
	}

	rec, err := h.generation.Generate(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, errors.Wrap(err, "generation failed"))
		return
	}

	h.writeJSON(w, http.StatusCreated, rec)
}

// Availability handles GET /api/v1/recipes/availability
func (h *RecipeHandlers) Availability(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]bool{
		"premium_available": h.generation.IsPremiumAvailable(),
		"cloud_available":   h.generation.IsCloudAvailable(),
		"local_available":   h.generation.IsLocalAvailable(),
	})
}

// CreateVariation handles POST /api/v1/recipes/{recipeID}/variations
func (h *RecipeHandlers) CreateVariation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.writeError(w, r, errors.NewAppError(errors.CodeAuthFailed, "Not authenticated", ""))
		return
	}
	recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
	if err != nil {
		h.writeError(w, r, errors.NewBadRequestError("Invalid recipe ID"))
		return
	}

	var req CreateVariationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, errors.NewBadRequestError("Invalid JSON payload"))
		return
	}
	if req.Request == "" {
		h.writeError(w, r, errors.NewValidationError("request is required"))
		return
	}

	result, err := h.variations.CreateVariation(r.Context(), inbound.CreateVariationCommand{
		UserID:           userID,
		OriginalRecipeID: recipeID,
		Request:          req.Request,
		ChatSessionID:    req.ChatSessionID,
	})
	if err != nil {
		h.writeError(w, r, errors.Wrap(err, "variation failed"))
		return
	}

	h.writeJSON(w, http.StatusCreated, result)
}

// Timeline handles GET /api/v1/recipes/{recipeID}/timeline
func (h *RecipeHandlers) Timeline(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.writeError(w, r, errors.NewAppError(errors.CodeAuthFailed, "Not authenticated", ""))
		return
	}
	recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
	if err != nil {
		h.writeError(w, r, errors.NewBadRequestError("Invalid recipe ID"))
		return
	}

	result, err := h.variations.GetRecipeHistoryTimeline(r.Context(), userID, recipeID)
	if err != nil {
		h.writeError(w, r, errors.Wrap(err, "timeline failed"))
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// Comparison handles GET /api/v1/recipes/{recipeID}/comparison?variation_id=
func (h *RecipeHandlers) Comparison(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.writeError(w, r, errors.NewAppError(errors.CodeAuthFailed, "Not authenticated", ""))
		return
	}
	recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
	if err != nil {
		h.writeError(w, r, errors.NewBadRequestError("Invalid recipe ID"))
		return
	}

	var variationID *uuid.UUID
	if raw := r.URL.Query().Get("variation_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.writeError(w, r, errors.NewBadRequestError("Invalid variation ID"))
			return
		}
		variationID = &id
	}

	result, err := h.variations.GetDetailedRecipeComparison(r.Context(), userID, recipeID, variationID)
	if err != nil {
		h.writeError(w, r, errors.Wrap(err, "comparison failed"))
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// Rollback handles POST /api/v1/recipes/{recipeID}/rollback
func (h *RecipeHandlers) Rollback(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.writeError(w, r, errors.NewAppError(errors.CodeAuthFailed, "Not authenticated", ""))
		return
	}
	recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
	if err != nil {
		h.writeError(w, r, errors.NewBadRequestError("Invalid recipe ID"))
		return
	}

	// Both fields are optional, so an empty body means "restore the original".
	var req RollbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		h.writeError(w, r, errors.NewBadRequestError("Invalid JSON payload"))
		return
	}

	result, err := h.variations.RollbackToVersion(r.Context(), inbound.RollbackCommand{
		UserID:           userID,
		OriginalRecipeID: recipeID,
		TargetVersionID:  req.TargetVersionID,
		Reason:           req.Reason,
	})
	if err != nil {
		h.writeError(w, r, errors.Wrap(err, "rollback failed"))
		return
	}

	h.writeJSON(w, http.StatusCreated, result)
}

// DeleteVariation handles DELETE /api/v1/variations/{variationID}
func (h *RecipeHandlers) DeleteVariation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.writeError(w, r, errors.NewAppError(errors.CodeAuthFailed, "Not authenticated", ""))
		return
	}
	variationID, err := uuid.Parse(chi.URLParam(r, "variationID"))
	if err != nil {
		h.writeError(w, r, errors.NewBadRequestError("Invalid variation ID"))
		return
	}

	if err := h.variations.DeleteVariation(r.Context(), userID, variationID); err != nil {
		h.writeError(w, r, errors.Wrap(err, "delete failed"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SaveVariation handles POST /api/v1/variations/{variationID}/save
func (h *RecipeHandlers) SaveVariation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.writeError(w, r, errors.NewAppError(errors.CodeAuthFailed, "Not authenticated", ""))
		return
	}
	variationID, err := uuid.Parse(chi.URLParam(r, "variationID"))
	if err != nil {
		h.writeError(w, r, errors.NewBadRequestError("Invalid variation ID"))
		return
	}

	rec, err := h.variations.SaveVariationAsNewRecipe(r.Context(), userID, variationID)
	if err != nil {
		h.writeError(w, r, errors.Wrap(err, "save failed"))
		return
	}

	h.writeJSON(w, http.StatusCreated, rec)
}

func (h *RecipeHandlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *RecipeHandlers) writeError(w http.ResponseWriter, r *http.Request, appErr *errors.AppError) {
	requestID := chimiddleware.GetReqID(r.Context())

	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("code", string(appErr.Code)),
			zap.String("request_id", requestID),
			zap.Error(appErr),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(errors.ToErrorResponse(appErr, requestID)); err != nil {
		h.logger.Error("failed to encode error response", zap.Error(err))
	}
}
