// Package recipes turns externally generated recipe drafts into a ranking
// that favors ingredients close to expiring.
package recipes

import (
	"context"
	"fmt"
)

// Draft is a recipe as produced by the external generator. All three fields
// are required; ValidateDraft enforces that on ingress.
type Draft struct {
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
}

// Ranked is a Draft enriched with availability and urgency information.
type Ranked struct {
	Draft
	IngredientsAvailable []string `json:"ingredients_available"`
	IngredientsMissing   []string `json:"ingredients_missing"`
	ExpiryScore          int      `json:"expiry_score"`
}

// SnapshotEntry is one inventory name with its most urgent remaining days,
// as handed to the generator.
type SnapshotEntry struct {
	Name          string `json:"name"`
	ExpiresInDays int    `json:"expires_in_days"`
}

// Generator produces recipe drafts from a fridge snapshot. Implementations
// live behind this interface so the core never touches the LLM directly.
type Generator interface {
	Generate(ctx context.Context, snapshot []SnapshotEntry, maxCount int) ([]Draft, error)
}

// MalformedRecipeError reports a generator draft missing a required field.
// Drafts are rejected on ingress rather than silently defaulted.
type MalformedRecipeError struct {
	Index   int
	Missing string
}

func (e *MalformedRecipeError) Error() string {
	return fmt.Sprintf("recipe %d is missing required field %q", e.Index, e.Missing)
}

// ValidateDraft checks the strict draft contract: title, ingredients and
// steps must all be present and non-empty.
func ValidateDraft(index int, d Draft) error {
	switch {
	case d.Title == "":
		return &MalformedRecipeError{Index: index, Missing: "title"}
	case len(d.Ingredients) == 0:
		return &MalformedRecipeError{Index: index, Missing: "ingredients"}
	case len(d.Steps) == 0:
		return &MalformedRecipeError{Index: index, Missing: "steps"}
	}
	return nil
}
