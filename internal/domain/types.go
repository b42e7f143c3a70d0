package domain

import (
	"fmt"
	"time"
)

// Storage is where an item physically lives. Freezer items never expire in
// this model.
type Storage string

const (
	StorageFridge  Storage = "fridge"
	StorageFreezer Storage = "freezer"
)

// ParseStorage validates a storage value from external input.
func ParseStorage(s string) (Storage, error) {
	switch Storage(s) {
	case StorageFridge, StorageFreezer:
		return Storage(s), nil
	default:
		return "", fmt.Errorf("unrecognized storage %q", s)
	}
}

// AddedBy records how an item entered the inventory.
type AddedBy string

const (
	AddedByUser    AddedBy = "user"
	AddedByCamera  AddedBy = "camera"
	AddedByBarcode AddedBy = "barcode"
)

// Status is the freshness label derived at read time. It is never stored:
// "today" changes independently of writes.
type Status string

const (
	StatusFrozen       Status = "frozen"
	StatusUnknown      Status = "unknown"
	StatusExpired      Status = "expired"
	StatusExpiringSoon Status = "expiring_soon"
	StatusFresh        Status = "fresh"
)

// FoodType is a catalog entry: one row per normalized food name.
type FoodType struct {
	ID            int64
	Name          string // normalized: trimmed, lower-cased, globally unique
	Category      string
	ShelfLifeDays *int // default shelf life; nil when unknown
	CreatedAt     time.Time
}

// FoodItem is a stored unit of food. Quantity is positive while the row
// exists; consuming it down to zero deletes the row.
type FoodItem struct {
	ID             int64
	FoodTypeID     int64
	Quantity       float64
	Unit           string
	DateAdded      time.Time
	ExpirationDate *time.Time // nil for freezer items and unknown expiries
	Storage        Storage
	AddedBy        AddedBy
	DetectionLabel string
	Confidence     *float64 // 0..1, set only for camera inserts
	ImagePath      string
	LocationSlot   string
}

// ItemView is a FoodItem joined with its type, plus the lazily derived
// status, as returned by list endpoints.
type ItemView struct {
	FoodItem
	FoodName     string
	FoodCategory string
	Status       Status
}
