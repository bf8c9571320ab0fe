// Package generation routes recipe generation requests to a backend.
// Selection is re-evaluated on every call from the subscription tier, the
// connectivity probe and on-device model readiness; fallback policy is an
// explicit ordered candidate list rather than hardcoded retry branches.
package generation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/un-earthly/cookish/internal/domain/recipe"
	"github.com/un-earthly/cookish/internal/infrastructure/monitoring"
	"github.com/un-earthly/cookish/internal/ports/inbound"
	"github.com/un-earthly/cookish/internal/ports/outbound"
	"github.com/un-earthly/cookish/pkg/errors"
)

// Snapshot is the configuration triple selection derives from. Capability
// queries answer from the last-refreshed snapshot without performing I/O.
type Snapshot struct {
	Tier       outbound.SubscriptionTier
	Online     bool
	LocalReady bool
}

// Router chooses which provider serves a generation request and persists the
// resulting recipe. It is an explicit instance with injected collaborators,
// never process-wide state.
type Router struct {
	providers map[recipe.Backend]outbound.RecipeProvider
	recipes   outbound.RecipeRepository
	prefs     outbound.PreferenceService
	probe     outbound.ConnectivityProbe
	local     outbound.LocalModel
	builder   *PromptBuilder
	limiter   *Limiter
	metrics   *monitoring.Metrics
	logger    *zap.Logger

	mu   sync.RWMutex
	last Snapshot
}

// NewRouter creates a generation router.
func NewRouter(
	providers map[recipe.Backend]outbound.RecipeProvider,
	recipes outbound.RecipeRepository,
	prefs outbound.PreferenceService,
	probe outbound.ConnectivityProbe,
	local outbound.LocalModel,
	builder *PromptBuilder,
	limiter *Limiter,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) *Router {
	return &Router{
		providers: providers,
		recipes:   recipes,
		prefs:     prefs,
		probe:     probe,
		local:     local,
		builder:   builder,
		limiter:   limiter,
		metrics:   metrics,
		logger:    logger.Named("generation-router"),
	}
}

var _ inbound.GenerationService = (*Router)(nil)

// refresh re-reads connectivity and model readiness, storing the snapshot for
// capability queries.
func (r *Router) refresh(ctx context.Context, tier outbound.SubscriptionTier) Snapshot {
	snap := Snapshot{
		Tier:   tier,
		Online: r.probe.IsOnline(ctx),
	}
	if r.local != nil {
		snap.LocalReady = r.local.IsReady(ctx)
	}

	r.mu.Lock()
	r.last = snap
	r.mu.Unlock()

	return snap
}

// candidates returns the ordered backend list for a snapshot. The list is
// the fallback policy: entries are attempted in order until one succeeds.
func candidates(s Snapshot) []recipe.Backend {
	switch {
	case s.Tier == outbound.TierPremium && s.Online:
		if s.LocalReady {
			return []recipe.Backend{recipe.BackendCloudPremium, recipe.BackendLocal}
		}
		return []recipe.Backend{recipe.BackendCloudPremium, recipe.BackendCloudBasic}
	case s.Online:
		if s.LocalReady {
			return []recipe.Backend{recipe.BackendCloudBasic, recipe.BackendLocal}
		}
		return []recipe.Backend{recipe.BackendCloudBasic}
	case s.LocalReady:
		return []recipe.Backend{recipe.BackendLocal}
	default:
		return nil
	}
}

// Generate routes a request to the first working backend, stamps provenance
// and persists the recipe.
func (r *Router) Generate(ctx context.Context, cmd inbound.GenerateRecipeCommand) (*recipe.Recipe, error) {
	prefs, err := r.prefs.Preferences(ctx, cmd.UserID)
	if err != nil {
		return nil, errors.NewDatabaseError("read user preferences", err)
	}

	snap := r.refresh(ctx, prefs.Tier)
	cands := candidates(snap)
	if len(cands) == 0 {
		return nil, errors.NewNoServiceAvailableError()
	}

	kind := PromptTemplated
	pctx := PromptContext{
		Query:      cmd.Query,
		MealType:   cmd.MealType,
		RecipeDate: cmd.RecipeDate,
		Servings:   cmd.Servings,
		Premium:    snap.Tier == outbound.TierPremium,
	}
	if cmd.ChatSessionID != nil {
		kind = PromptConversational
		pctx.DietaryPreferences = prefs.DietaryRestrictions
		pctx.SkillLevel = prefs.SkillLevel
		pctx.PreferredCuisines = prefs.PreferredCuisines
		if clause, err := r.prefs.EnhancedDietaryPrompt(ctx, cmd.UserID); err == nil {
			pctx.EnhancedDietaryClause = clause
		} else {
			r.logger.Warn("enhanced dietary prompt unavailable", zap.Error(err))
		}
	}

	prompt := r.builder.Build(kind, pctx)

	var lastErr error
	for i, backend := range cands {
		provider, ok := r.providers[backend]
		if !ok {
			return nil, errors.NewInternalError("no provider registered for backend " + string(backend))
		}

		if err := r.limiter.Wait(ctx, backend); err != nil {
			return nil, errors.Wrap(err, "rate limit wait interrupted")
		}

		start := time.Now()
		rec, err := provider.GenerateRecipe(ctx, prompt)
		if r.metrics != nil {
			r.metrics.ObserveGeneration(string(backend), time.Since(start), err)
		}
		if err != nil {
			lastErr = err
			// Only backend failures advance the list. Auth and parse errors
			// surface immediately: retrying the same prompt elsewhere will
			// not fix credentials, and a parse failure is not a dead backend.
			if errors.Is(err, errors.CodeProviderError) && i+1 < len(cands) {
				r.logger.Warn("backend failed, trying fallback",
					zap.String("backend", string(backend)),
					zap.String("fallback", string(cands[i+1])),
					zap.Error(err),
				)
				continue
			}
			return nil, err
		}

		r.stampProvenance(rec, cmd, backend, i > 0)
		if i > 0 && r.metrics != nil {
			r.metrics.ObserveFallback()
		}

		if err := rec.Validate(); err != nil {
			return nil, errors.NewParseError(string(backend), err)
		}
		if err := r.recipes.Create(ctx, rec); err != nil {
			return nil, errors.NewDatabaseError("save generated recipe", err)
		}

		r.logger.Info("recipe generated",
			zap.String("recipe_id", rec.ID.String()),
			zap.String("backend", string(backend)),
			zap.Bool("fallback", rec.FallbackUsed),
		)
		return rec, nil
	}

	return nil, lastErr
}

// stampProvenance fills in identity, ownership and provenance on a freshly
// parsed recipe.
func (r *Router) stampProvenance(rec *recipe.Recipe, cmd inbound.GenerateRecipeCommand, backend recipe.Backend, fallback bool) {
	rec.ID = uuid.New()
	rec.UserID = cmd.UserID
	rec.CreatedAt = time.Now()
	rec.GeneratedBy = backend
	rec.FallbackUsed = fallback

	rec.RecipeDate = cmd.RecipeDate
	if rec.RecipeDate.IsZero() {
		rec.RecipeDate = time.Now()
	}
	if rec.MealType == "" {
		rec.MealType = cmd.MealType
	}

	if cmd.ChatSessionID != nil {
		rec.CreatedVia = recipe.ChannelChat
		id := *cmd.ChatSessionID
		rec.ChatSessionID = &id
	} else {
		rec.CreatedVia = recipe.ChannelManual
	}
}

// ModificationProvider resolves the provider the variation engine should use.
// Premium tier prefers the cloud premium backend regardless of the
// online/offline check performed upstream.
func (r *Router) ModificationProvider(ctx context.Context, tier outbound.SubscriptionTier) (outbound.RecipeProvider, error) {
	snap := r.refresh(ctx, tier)

	var backend recipe.Backend
	switch {
	case snap.Tier == outbound.TierPremium:
		backend = recipe.BackendCloudPremium
	case snap.Online:
		backend = recipe.BackendCloudBasic
	case snap.LocalReady:
		backend = recipe.BackendLocal
	default:
		return nil, errors.NewNoServiceAvailableError()
	}

	provider, ok := r.providers[backend]
	if !ok {
		return nil, errors.NewInternalError("no provider registered for backend " + string(backend))
	}
	return provider, nil
}

// IsPremiumAvailable reports whether the premium cloud backend would serve a
// request under the last-refreshed configuration.
func (r *Router) IsPremiumAvailable() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last.Tier == outbound.TierPremium && r.last.Online
}

// IsCloudAvailable reports whether any cloud backend is reachable.
func (r *Router) IsCloudAvailable() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last.Online
}

// IsLocalAvailable reports whether the on-device model is ready.
func (r *Router) IsLocalAvailable() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last.LocalReady
}
