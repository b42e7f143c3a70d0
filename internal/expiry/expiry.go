// Package expiry derives expiration dates and freshness status. Everything
// here is pure: status is recomputed on every read and never persisted.
package expiry

import (
	"time"

	"github.com/vbonduro/fridgekeep/internal/domain"
)

// DefaultShelfLifeDays is used when the catalog has no shelf life for a type.
const DefaultShelfLifeDays = 7

// ExpiringSoonDays is the inclusive window, in days, within which a fridge
// item counts as expiring_soon.
const ExpiringSoonDays = 2

// ExpirationDate computes the stored expiration date for a new item.
// Priority order: an explicit date wins verbatim, freezer items never
// expire, otherwise dateAdded plus the shelf life (defaulting to
// DefaultShelfLifeDays when the catalog has none).
func ExpirationDate(storage domain.Storage, dateAdded time.Time, shelfLifeDays *int, explicit *time.Time) *time.Time {
	if explicit != nil {
		d := Day(*explicit)
		return &d
	}
	if storage == domain.StorageFreezer {
		return nil
	}
	days := DefaultShelfLifeDays
	if shelfLifeDays != nil {
		days = *shelfLifeDays
	}
	d := Day(dateAdded).AddDate(0, 0, days)
	return &d
}

// StatusOn maps (storage, expiration, today) to a freshness label. Freezer
// beats everything, even a stray expiration date.
func StatusOn(storage domain.Storage, expiration *time.Time, today time.Time) domain.Status {
	if storage == domain.StorageFreezer {
		return domain.StatusFrozen
	}
	if expiration == nil {
		return domain.StatusUnknown
	}
	days := DaysUntil(*expiration, today)
	switch {
	case days < 0:
		return domain.StatusExpired
	case days <= ExpiringSoonDays:
		return domain.StatusExpiringSoon
	default:
		return domain.StatusFresh
	}
}

// DaysUntil returns the whole civil days from today until expiration.
// Negative when already past.
func DaysUntil(expiration, today time.Time) int {
	return int(Day(expiration).Sub(Day(today)).Hours() / 24)
}

// Day truncates t to its calendar date in UTC. All date arithmetic in this
// package goes through here so wall-clock components never leak into
// comparisons.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
