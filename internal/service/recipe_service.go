package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/vbonduro/fridgekeep/internal/domain"
	"github.com/vbonduro/fridgekeep/internal/monitoring"
	"github.com/vbonduro/fridgekeep/internal/recipes"
)

// defaultMaxRecipes is how many drafts to request when the caller does not
// say.
const defaultMaxRecipes = 10

// itemLister is the subset of store.FoodItemStore that RecipeService requires.
type itemLister interface {
	ListWithTypes(ctx context.Context) ([]*domain.ItemView, error)
}

type RecipeService struct {
	items     itemLister
	generator recipes.Generator
	logger    *slog.Logger
	now       func() time.Time
}

// NewRecipeService wires the ranker to the store and the external generator.
// generator may be nil when no LLM is configured; suggestions then come back
// empty.
func NewRecipeService(items itemLister, generator recipes.Generator, logger *slog.Logger) *RecipeService {
	return &RecipeService{items: items, generator: generator, logger: logger, now: time.Now}
}

// SuggestionsForUser builds a fresh fridge snapshot, asks the generator for
// drafts, validates them, and returns them ranked by expiry urgency.
//
// Degradation rules: an empty fridge or a failing/absent generator yields an
// empty list, not an error. A draft missing a required field is a
// MalformedRecipeError, which does surface, since it means the generator
// broke its contract.
func (s *RecipeService) SuggestionsForUser(ctx context.Context, maxCount int) ([]recipes.Ranked, error) {
	monitoring.RecipeRequests.Inc()
	if maxCount <= 0 {
		maxCount = defaultMaxRecipes
	}

	rows, err := s.items.ListWithTypes(ctx)
	if err != nil {
		return nil, err
	}

	snap := recipes.BuildSnapshot(rows, s.now())
	if len(snap) == 0 {
		return []recipes.Ranked{}, nil
	}

	if s.generator == nil {
		s.logger.Warn("no recipe generator configured")
		return []recipes.Ranked{}, nil
	}

	drafts, err := s.generator.Generate(ctx, snap.Entries(), maxCount)
	if err != nil {
		s.logger.Error("recipe generation failed", "error", err)
		return []recipes.Ranked{}, nil
	}

	for i, d := range drafts {
		if err := recipes.ValidateDraft(i, d); err != nil {
			return nil, err
		}
	}

	return recipes.Rank(drafts, snap), nil
}
