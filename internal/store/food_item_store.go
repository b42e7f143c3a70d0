package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/vbonduro/fridgekeep/internal/domain"
)

// dateLayout is how civil dates are stored. Kept as TEXT so the driver never
// second-guesses timezone or wall-clock components.
const dateLayout = "2006-01-02"

type FoodItemStore struct {
	db *sql.DB
}

func NewFoodItemStore(db *sql.DB) *FoodItemStore {
	return &FoodItemStore{db: db}
}

const itemColumns = `item_id, food_type_id, quantity, unit, date_added, expiration_date,
	detection_label, confidence_score, image_path, location_slot, added_by, storage`

func (s *FoodItemStore) Create(ctx context.Context, item domain.FoodItem) (*domain.FoodItem, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO food_items
			(food_type_id, quantity, unit, date_added, expiration_date,
			 detection_label, confidence_score, image_path, location_slot, added_by, storage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.FoodTypeID, item.Quantity, item.Unit, formatDate(item.DateAdded), formatDatePtr(item.ExpirationDate),
		item.DetectionLabel, item.Confidence, item.ImagePath, item.LocationSlot, string(item.AddedBy), string(item.Storage))
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *FoodItemStore) GetByID(ctx context.Context, id int64) (*domain.FoodItem, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM food_items WHERE item_id = ?
	`, id)

	item, err := scanItem(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

// ListByTypeName returns all items of the given normalized food name,
// soonest-expiring first with NULL expirations last. The ordering biases
// auto-selection during consumption toward first-expiring stock.
func (s *FoodItemStore) ListByTypeName(ctx context.Context, name string) ([]*domain.FoodItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.item_id, i.food_type_id, i.quantity, i.unit, i.date_added, i.expiration_date,
			i.detection_label, i.confidence_score, i.image_path, i.location_slot, i.added_by, i.storage
		FROM food_items i
		JOIN food_types t ON i.food_type_id = t.food_type_id
		WHERE t.name = ?
		ORDER BY i.expiration_date IS NULL, i.expiration_date, i.item_id
	`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list items by name: %w", err)
	}
	defer closeRows(rows)

	var items []*domain.FoodItem
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// ListWithTypes returns every item joined with its food type, soonest
// expiration first with NULLs last. Status is not part of the row: it is
// derived by the caller against the current date.
func (s *FoodItemStore) ListWithTypes(ctx context.Context) ([]*domain.ItemView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.item_id, i.food_type_id, i.quantity, i.unit, i.date_added, i.expiration_date,
			i.detection_label, i.confidence_score, i.image_path, i.location_slot, i.added_by, i.storage,
			t.name, t.category
		FROM food_items i
		JOIN food_types t ON i.food_type_id = t.food_type_id
		ORDER BY i.expiration_date IS NULL, i.expiration_date, i.item_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer closeRows(rows)

	var views []*domain.ItemView
	for rows.Next() {
		view := &domain.ItemView{}
		var dateAdded string
		var expiration, detectionLabel sql.NullString
		if err := rows.Scan(&view.ID, &view.FoodTypeID, &view.Quantity, &view.Unit, &dateAdded, &expiration,
			&detectionLabel, &view.Confidence, &view.ImagePath, &view.LocationSlot, &view.AddedBy, &view.Storage,
			&view.FoodName, &view.FoodCategory); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		view.DetectionLabel = detectionLabel.String
		if view.DateAdded, err = time.Parse(dateLayout, dateAdded); err != nil {
			return nil, fmt.Errorf("failed to parse date_added: %w", err)
		}
		if view.ExpirationDate, err = parseDatePtr(expiration); err != nil {
			return nil, fmt.Errorf("failed to parse expiration_date: %w", err)
		}
		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return views, nil
}

// DecrementQuantityIf subtracts used from the item's quantity only if the
// quantity still equals expected. Returns false when another writer got
// there first (or the row vanished); the caller decides whether to retry.
// The result is rounded to two decimals so REAL arithmetic drift never
// accumulates across repeated fractional consumes.
func (s *FoodItemStore) DecrementQuantityIf(ctx context.Context, id int64, expected, used float64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE food_items SET quantity = ROUND(quantity - ?, 2) WHERE item_id = ? AND quantity = ?
	`, used, id, expected)
	if err != nil {
		return false, fmt.Errorf("failed to decrement quantity: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected > 0, nil
}

// DeleteIf removes the item only if its quantity still equals expected.
// Same conditional-write contract as DecrementQuantityIf.
func (s *FoodItemStore) DeleteIf(ctx context.Context, id int64, expected float64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM food_items WHERE item_id = ? AND quantity = ?
	`, id, expected)
	if err != nil {
		return false, fmt.Errorf("failed to delete item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected > 0, nil
}

func (s *FoodItemStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM food_items WHERE item_id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("item not found")
	}

	return nil
}

func (s *FoodItemStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM food_items`); err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}
	return nil
}

func scanItem(scan func(dest ...any) error) (*domain.FoodItem, error) {
	item := &domain.FoodItem{}
	var dateAdded string
	var expiration, detectionLabel sql.NullString
	if err := scan(&item.ID, &item.FoodTypeID, &item.Quantity, &item.Unit, &dateAdded, &expiration,
		&detectionLabel, &item.Confidence, &item.ImagePath, &item.LocationSlot, &item.AddedBy, &item.Storage); err != nil {
		return nil, err
	}

	item.DetectionLabel = detectionLabel.String

	var err error
	if item.DateAdded, err = time.Parse(dateLayout, dateAdded); err != nil {
		return nil, fmt.Errorf("failed to parse date_added: %w", err)
	}
	if item.ExpirationDate, err = parseDatePtr(expiration); err != nil {
		return nil, fmt.Errorf("failed to parse expiration_date: %w", err)
	}

	return item, nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatDatePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func parseDatePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("failed to close rows", "error", err)
	}
}
