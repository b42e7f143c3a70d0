package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vbonduro/fridgekeep/internal/db"
	"github.com/vbonduro/fridgekeep/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

// seedItem inserts a type (if missing) and an item for it, returning both.
func seedItem(t *testing.T, d *sql.DB, name string, quantity float64, storage domain.Storage, expiration *time.Time) (*domain.FoodType, *domain.FoodItem) {
	t.Helper()
	ctx := context.Background()
	types := NewFoodTypeStore(d)
	items := NewFoodItemStore(d)

	ft, err := types.GetByName(ctx, name)
	require.NoError(t, err)
	if ft == nil {
		ft, err = types.Create(ctx, name, "other", nil)
		require.NoError(t, err)
	}

	item, err := items.Create(ctx, domain.FoodItem{
		FoodTypeID:     ft.ID,
		Quantity:       quantity,
		Unit:           "pcs",
		DateAdded:      mustDate(t, "2024-01-01"),
		ExpirationDate: expiration,
		Storage:        storage,
		AddedBy:        domain.AddedByUser,
	})
	require.NoError(t, err)
	return ft, item
}
