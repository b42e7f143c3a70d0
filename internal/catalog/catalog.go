// Package catalog resolves free-text food names to canonical FoodType rows.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/vbonduro/fridgekeep/internal/domain"
)

// Normalize canonicalizes a food name: trimmed, inner whitespace collapsed,
// case-folded. Two inputs differing only by case or whitespace resolve to
// the same FoodType.
func Normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// typeRepository is the subset of store.FoodTypeStore the catalog requires.
type typeRepository interface {
	GetByName(ctx context.Context, name string) (*domain.FoodType, error)
	Create(ctx context.Context, name, category string, shelfLifeDays *int) (*domain.FoodType, error)
}

type Catalog struct {
	types    typeRepository
	defaults *Defaults
}

func New(types typeRepository, defaults *Defaults) *Catalog {
	return &Catalog{types: types, defaults: defaults}
}

// Resolve returns the FoodType for name, creating it on first reference.
// Category falls back to the defaults table and then to "other"; shelf life
// falls back to the defaults table and may stay nil. Repeated calls with the
// same name return the existing row; a conflicting category or shelf life on
// re-resolution is deliberately a no-op so a low-confidence camera label
// cannot rewrite curated data.
func (c *Catalog) Resolve(ctx context.Context, name string, category string, shelfLifeDays *int) (*domain.FoodType, error) {
	normalized := Normalize(name)
	if normalized == "" {
		return nil, fmt.Errorf("empty food name")
	}

	existing, err := c.types.GetByName(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to look up food type: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	if category == "" {
		category = c.defaults.Category(normalized)
	}
	if shelfLifeDays == nil {
		if days, ok := c.defaults.ShelfLifeDays(normalized); ok {
			shelfLifeDays = &days
		}
	}

	created, err := c.types.Create(ctx, normalized, category, shelfLifeDays)
	if err != nil {
		return nil, fmt.Errorf("failed to create food type: %w", err)
	}
	return created, nil
}
