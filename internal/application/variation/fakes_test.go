package variation

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/un-earthly/cookish/internal/domain/recipe"
	"github.com/un-earthly/cookish/internal/ports/outbound"
	"github.com/un-earthly/cookish/pkg/errors"
)

type fakeRecipeRepo struct {
	mu      sync.Mutex
	recipes map[uuid.UUID]*recipe.Recipe
	err     error
}

func newFakeRecipeRepo() *fakeRecipeRepo {
	return &fakeRecipeRepo{recipes: make(map[uuid.UUID]*recipe.Recipe)}
}

func (f *fakeRecipeRepo) Create(ctx context.Context, r *recipe.Recipe) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recipes[r.ID] = r.Clone()
	return nil
}

func (f *fakeRecipeRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*recipe.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.recipes[id]
	if !ok || r.UserID != userID {
		return nil, errors.NewNotFoundError("recipe", id.String())
	}
	return r.Clone(), nil
}

func (f *fakeRecipeRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.recipes[id]
	if !ok || r.UserID != userID {
		return errors.NewNotFoundError("recipe", id.String())
	}
	delete(f.recipes, id)
	return nil
}

type fakeVariationRepo struct {
	mu         sync.Mutex
	variations map[uuid.UUID]*recipe.Variation
	owners     map[uuid.UUID]uuid.UUID
	err        error
}

func newFakeVariationRepo() *fakeVariationRepo {
	return &fakeVariationRepo{
		variations: make(map[uuid.UUID]*recipe.Variation),
		owners:     make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *fakeVariationRepo) Create(ctx context.Context, v *recipe.Variation) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *v
	if v.RecipeData != nil {
		cp.RecipeData = v.RecipeData.Clone()
	}
	f.variations[v.ID] = &cp
	if v.RecipeData != nil {
		f.owners[v.ID] = v.RecipeData.UserID
	}
	return nil
}

func (f *fakeVariationRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*recipe.Variation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.variations[id]
	if !ok || f.owners[id] != userID {
		return nil, errors.NewNotFoundError("variation", id.String())
	}
	return v, nil
}

func (f *fakeVariationRepo) FindByOriginalRecipe(ctx context.Context, userID, originalRecipeID uuid.UUID) ([]*recipe.Variation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*recipe.Variation
	for id, v := range f.variations {
		if v.OriginalRecipeID == originalRecipeID && f.owners[id] == userID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeVariationRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.variations[id]; !ok || f.owners[id] != userID {
		return errors.NewNotFoundError("variation", id.String())
	}
	delete(f.variations, id)
	delete(f.owners, id)
	return nil
}

type fakePrefs struct {
	prefs outbound.Preferences
}

func (f *fakePrefs) Preferences(ctx context.Context, userID uuid.UUID) (*outbound.Preferences, error) {
	p := f.prefs
	return &p, nil
}

func (f *fakePrefs) EnhancedDietaryPrompt(ctx context.Context, userID uuid.UUID) (string, error) {
	return "", nil
}

type fakeProvider struct {
	backend  recipe.Backend
	response string
	err      error
	prompts  []string
}

func (f *fakeProvider) Backend() recipe.Backend { return f.backend }

func (f *fakeProvider) GenerateRecipe(ctx context.Context, prompt string) (*recipe.Recipe, error) {
	return nil, errors.NewInternalError("not used in variation tests")
}

func (f *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeResolver struct {
	provider outbound.RecipeProvider
	err      error
}

func (f *fakeResolver) ModificationProvider(ctx context.Context, tier outbound.SubscriptionTier) (outbound.RecipeProvider, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.provider, nil
}
