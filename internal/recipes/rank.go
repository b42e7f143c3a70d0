package recipes

import (
	"sort"
	"time"

	"github.com/vbonduro/fridgekeep/internal/catalog"
	"github.com/vbonduro/fridgekeep/internal/domain"
	"github.com/vbonduro/fridgekeep/internal/expiry"
)

// ExpiryWindowDays is the urgency window: an available ingredient expiring
// in d days contributes max(0, ExpiryWindowDays − d) to a recipe's score.
const ExpiryWindowDays = 7

// FrozenHorizonDays stands in for "never expires": frozen items appear in
// the snapshot but never count as urgent.
const FrozenHorizonDays = 365

// Snapshot maps a normalized inventory name to its most urgent remaining
// days. It is built fresh for every ranking call.
type Snapshot map[string]int

// BuildSnapshot folds inventory rows into a Snapshot as of today. Rows from
// both storage locations with positive quantity are included; items without
// an expiration date get the frozen horizon; duplicate names keep the
// minimum (most urgent) value.
func BuildSnapshot(rows []*domain.ItemView, today time.Time) Snapshot {
	snap := make(Snapshot)
	for _, row := range rows {
		if row.Quantity <= 0 {
			continue
		}
		days := FrozenHorizonDays
		if row.ExpirationDate != nil {
			days = expiry.DaysUntil(*row.ExpirationDate, today)
			if days < 0 {
				days = 0
			}
		}
		name := catalog.Normalize(row.FoodName)
		if existing, ok := snap[name]; !ok || days < existing {
			snap[name] = days
		}
	}
	return snap
}

// Entries returns the snapshot in the generator's wire shape, sorted by
// urgency then name so prompts are deterministic.
func (s Snapshot) Entries() []SnapshotEntry {
	entries := make([]SnapshotEntry, 0, len(s))
	for name, days := range s {
		entries = append(entries, SnapshotEntry{Name: name, ExpiresInDays: days})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ExpiresInDays != entries[j].ExpiresInDays {
			return entries[i].ExpiresInDays < entries[j].ExpiresInDays
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Rank splits each draft's ingredients into available/missing against the
// snapshot and sorts by expiry score, descending. The sort is stable: ties
// keep the generator's original order. Recipes with nothing available are
// kept with a zero score, never filtered.
func Rank(drafts []Draft, snap Snapshot) []Ranked {
	ranked := make([]Ranked, 0, len(drafts))
	for _, d := range drafts {
		r := Ranked{
			Draft:                d,
			IngredientsAvailable: []string{},
			IngredientsMissing:   []string{},
		}
		for _, ing := range d.Ingredients {
			days, ok := snap[catalog.Normalize(ing)]
			if !ok {
				r.IngredientsMissing = append(r.IngredientsMissing, ing)
				continue
			}
			r.IngredientsAvailable = append(r.IngredientsAvailable, ing)
			if contribution := ExpiryWindowDays - days; contribution > 0 {
				r.ExpiryScore += contribution
			}
		}
		ranked = append(ranked, r)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ExpiryScore > ranked[j].ExpiryScore
	})
	return ranked
}
