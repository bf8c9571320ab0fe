package generation

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/un-earthly/cookish/internal/domain/recipe"
)

// Limiter throttles outbound generation calls per backend so a burst of
// requests cannot exhaust a provider quota.
type Limiter struct {
	limiters map[recipe.Backend]*rate.Limiter
}

// NewLimiter creates a limiter allowing rps requests per second with the
// given burst for every backend.
func NewLimiter(rps float64, burst int) *Limiter {
	backends := []recipe.Backend{recipe.BackendCloudPremium, recipe.BackendCloudBasic, recipe.BackendLocal}
	limiters := make(map[recipe.Backend]*rate.Limiter, len(backends))
	for _, b := range backends {
		limiters[b] = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return &Limiter{limiters: limiters}
}

// Wait blocks until the backend's limiter grants a slot or ctx is done.
func (l *Limiter) Wait(ctx context.Context, backend recipe.Backend) error {
	if l == nil {
		return nil
	}
	if lim, ok := l.limiters[backend]; ok {
		return lim.Wait(ctx)
	}
	return nil
}
