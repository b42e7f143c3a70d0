package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vbonduro/fridgekeep/internal/domain"
)

type FoodTypeStore struct {
	db *sql.DB
}

func NewFoodTypeStore(db *sql.DB) *FoodTypeStore {
	return &FoodTypeStore{db: db}
}

// Create inserts a food type. Name must already be normalized; the UNIQUE
// constraint on name is the backstop against duplicates.
func (s *FoodTypeStore) Create(ctx context.Context, name, category string, shelfLifeDays *int) (*domain.FoodType, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO food_types (name, category, shelf_life_days) VALUES (?, ?, ?)
	`, name, category, shelfLifeDays)
	if err != nil {
		return nil, fmt.Errorf("failed to create food type: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *FoodTypeStore) GetByID(ctx context.Context, id int64) (*domain.FoodType, error) {
	ft := &domain.FoodType{}
	err := s.db.QueryRowContext(ctx, `
		SELECT food_type_id, name, category, shelf_life_days, created_at FROM food_types WHERE food_type_id = ?
	`, id).Scan(&ft.ID, &ft.Name, &ft.Category, &ft.ShelfLifeDays, &ft.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get food type: %w", err)
	}

	return ft, nil
}

func (s *FoodTypeStore) GetByName(ctx context.Context, name string) (*domain.FoodType, error) {
	ft := &domain.FoodType{}
	err := s.db.QueryRowContext(ctx, `
		SELECT food_type_id, name, category, shelf_life_days, created_at FROM food_types WHERE name = ?
	`, name).Scan(&ft.ID, &ft.Name, &ft.Category, &ft.ShelfLifeDays, &ft.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get food type by name: %w", err)
	}

	return ft, nil
}

// DeleteAll removes every food type. Items cascade via the foreign key;
// callers that want an empty inventory should clear items first anyway so
// the two deletes are observable in order.
func (s *FoodTypeStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM food_types`); err != nil {
		return fmt.Errorf("failed to delete food types: %w", err)
	}
	return nil
}
