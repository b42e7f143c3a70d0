package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/vbonduro/fridgekeep/internal/catalog"
	"github.com/vbonduro/fridgekeep/internal/domain"
	"github.com/vbonduro/fridgekeep/internal/expiry"
	"github.com/vbonduro/fridgekeep/internal/monitoring"
	"github.com/vbonduro/fridgekeep/internal/photostore"
	"github.com/vbonduro/fridgekeep/internal/vision"
)

// consumeRetries bounds the optimistic-write loop in Consume. Each retry
// re-reads the item, so a retry only happens when a concurrent consumer
// touched the same row between our read and write.
const consumeRetries = 3

// minConfidence is the classifier confidence below which a detection is
// treated as unknown.
const minConfidence = 0.5

// roundQuantity clamps a quantity to two decimal places. Every quantity in
// the system carries at most two decimals, so consuming a displayed
// remainder compares exactly against the stored value instead of missing by
// a float epsilon.
func roundQuantity(q float64) float64 {
	return math.Round(q*100) / 100
}

// typeResolver is the subset of catalog.Catalog that InventoryService requires.
type typeResolver interface {
	Resolve(ctx context.Context, name, category string, shelfLifeDays *int) (*domain.FoodType, error)
}

// typeRepository is the subset of store.FoodTypeStore that InventoryService requires.
type typeRepository interface {
	DeleteAll(ctx context.Context) error
}

// itemRepository is the subset of store.FoodItemStore that InventoryService requires.
type itemRepository interface {
	Create(ctx context.Context, item domain.FoodItem) (*domain.FoodItem, error)
	ListByTypeName(ctx context.Context, name string) ([]*domain.FoodItem, error)
	ListWithTypes(ctx context.Context) ([]*domain.ItemView, error)
	DecrementQuantityIf(ctx context.Context, id int64, expected, used float64) (bool, error)
	DeleteIf(ctx context.Context, id int64, expected float64) (bool, error)
	DeleteAll(ctx context.Context) error
}

type InventoryService struct {
	catalog    typeResolver
	types      typeRepository
	items      itemRepository
	classifier vision.Classifier
	photos     photostore.PhotoStore
	logger     *slog.Logger

	// now is the clock used to derive status; overridable in tests so
	// "today" can be pinned.
	now func() time.Time
}

func NewInventoryService(
	cat typeResolver,
	types typeRepository,
	items itemRepository,
	classifier vision.Classifier,
	photos photostore.PhotoStore,
	logger *slog.Logger,
) *InventoryService {
	return &InventoryService{
		catalog:    cat,
		types:      types,
		items:      items,
		classifier: classifier,
		photos:     photos,
		logger:     logger,
		now:        time.Now,
	}
}

// AddItemParams describes a manual (or barcode) insert.
type AddItemParams struct {
	Name           string
	Quantity       float64
	Unit           string
	Storage        string
	ExpirationDate *time.Time // explicit override, taken verbatim
	Category       string
	ShelfLifeDays  *int
	LocationSlot   string
	AddedBy        domain.AddedBy
}

// AddItem resolves the food type, derives the expiration date, and inserts
// the item.
func (s *InventoryService) AddItem(ctx context.Context, p AddItemParams) (*domain.ItemView, error) {
	p.Quantity = roundQuantity(p.Quantity)
	if p.Quantity <= 0 {
		return nil, &ValidationError{Reason: fmt.Sprintf("quantity must be positive, got %g", p.Quantity)}
	}
	storage, err := domain.ParseStorage(p.Storage)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if catalog.Normalize(p.Name) == "" {
		return nil, &ValidationError{Reason: "food name is required"}
	}

	ft, err := s.catalog.Resolve(ctx, p.Name, p.Category, p.ShelfLifeDays)
	if err != nil {
		return nil, err
	}

	unit := p.Unit
	if unit == "" {
		unit = "pcs"
	}
	addedBy := p.AddedBy
	if addedBy == "" {
		addedBy = domain.AddedByUser
	}

	today := expiry.Day(s.now())
	item, err := s.items.Create(ctx, domain.FoodItem{
		FoodTypeID:     ft.ID,
		Quantity:       p.Quantity,
		Unit:           unit,
		DateAdded:      today,
		ExpirationDate: expiry.ExpirationDate(storage, today, ft.ShelfLifeDays, p.ExpirationDate),
		Storage:        storage,
		AddedBy:        addedBy,
		DetectionLabel: ft.Name,
		LocationSlot:   p.LocationSlot,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item added", "name", ft.Name, "quantity", p.Quantity, "storage", storage, "item_id", item.ID)
	monitoring.ItemsAdded.WithLabelValues(string(addedBy)).Inc()
	return s.view(item, ft), nil
}

// AddItemFromPhoto classifies the image, stores the photo, and inserts the
// detected item. Classifier failures and low-confidence verdicts degrade to
// the "unknown" label; they never abort the insert.
func (s *InventoryService) AddItemFromPhoto(ctx context.Context, image []byte, mimeType string, quantity float64, unit, storage, locationSlot string) (*domain.ItemView, error) {
	quantity = roundQuantity(quantity)
	if quantity <= 0 {
		return nil, &ValidationError{Reason: fmt.Sprintf("quantity must be positive, got %g", quantity)}
	}
	st, err := domain.ParseStorage(storage)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	det := vision.Detection{Label: vision.UnknownLabel}
	if s.classifier == nil {
		s.logger.Warn("no classifier configured, labeling as unknown")
	} else if d, err := s.classifier.Classify(ctx, bytes.NewReader(image), mimeType); err != nil {
		s.logger.Error("classification failed, labeling as unknown", "error", err)
	} else if d.Confidence < minConfidence {
		s.logger.Info("low-confidence detection, labeling as unknown", "label", d.Label, "confidence", d.Confidence)
		det.Confidence = d.Confidence
	} else {
		det = d
	}

	ft, err := s.catalog.Resolve(ctx, det.Label, "", nil)
	if err != nil {
		return nil, err
	}

	imagePath := ""
	if s.photos != nil {
		imagePath, err = s.photos.Save(ctx, ft.Name, mimeType, bytes.NewReader(image))
		if err != nil {
			return nil, fmt.Errorf("failed to save photo: %w", err)
		}
	}

	if unit == "" {
		unit = "pcs"
	}
	confidence := det.Confidence
	today := expiry.Day(s.now())
	item, err := s.items.Create(ctx, domain.FoodItem{
		FoodTypeID:     ft.ID,
		Quantity:       quantity,
		Unit:           unit,
		DateAdded:      today,
		ExpirationDate: expiry.ExpirationDate(st, today, ft.ShelfLifeDays, nil),
		Storage:        st,
		AddedBy:        domain.AddedByCamera,
		DetectionLabel: det.Label,
		Confidence:     &confidence,
		ImagePath:      imagePath,
		LocationSlot:   locationSlot,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("camera item added", "label", det.Label, "confidence", det.Confidence, "item_id", item.ID)
	monitoring.ItemsAdded.WithLabelValues(string(domain.AddedByCamera)).Inc()
	return s.view(item, ft), nil
}

// ListWithStatus returns all items with their freshness derived against the
// current date. Pass an empty storage to list everything.
func (s *InventoryService) ListWithStatus(ctx context.Context, storage string) ([]*domain.ItemView, error) {
	var filter domain.Storage
	if storage != "" {
		st, err := domain.ParseStorage(storage)
		if err != nil {
			return nil, &ValidationError{Reason: err.Error()}
		}
		filter = st
	}

	rows, err := s.items.ListWithTypes(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now()
	views := make([]*domain.ItemView, 0, len(rows))
	for _, row := range rows {
		if filter != "" && row.Storage != filter {
			continue
		}
		row.Status = expiry.StatusOn(row.Storage, row.ExpirationDate, today)
		views = append(views, row)
	}
	return views, nil
}

// ExpiringWithin returns fridge items whose expiration falls within the next
// `days` days (inclusive, not yet expired), soonest first.
func (s *InventoryService) ExpiringWithin(ctx context.Context, days int) ([]*domain.ItemView, error) {
	if days < 0 {
		return nil, &ValidationError{Reason: fmt.Sprintf("days must be non-negative, got %d", days)}
	}

	rows, err := s.ListWithStatus(ctx, string(domain.StorageFridge))
	if err != nil {
		return nil, err
	}

	today := s.now()
	expiring := make([]*domain.ItemView, 0)
	for _, row := range rows {
		if row.ExpirationDate == nil {
			continue
		}
		until := expiry.DaysUntil(*row.ExpirationDate, today)
		if until >= 0 && until <= days {
			expiring = append(expiring, row)
		}
	}
	return expiring, nil
}

// ConsumeOutcome says how a consume resolved.
type ConsumeOutcome string

const (
	ConsumeDeleted ConsumeOutcome = "deleted"
	ConsumeUpdated ConsumeOutcome = "updated"
)

// ConsumeResult reports which item was consumed and what is left of it.
type ConsumeResult struct {
	Outcome   ConsumeOutcome
	ItemID    int64
	Remaining float64
}

// Consume removes quantityUsed of the named food. With itemID the target is
// explicit; without it the name must match exactly one item. Consuming the
// full quantity deletes the row; less leaves the remainder.
//
// The write is an atomic conditional update keyed on the last-read quantity,
// retried a bounded number of times, so a concurrent consumer cannot cause a
// lost update.
func (s *InventoryService) Consume(ctx context.Context, name string, quantityUsed float64, itemID *int64) (*ConsumeResult, error) {
	quantityUsed = roundQuantity(quantityUsed)
	if quantityUsed <= 0 {
		return nil, &ValidationError{Reason: fmt.Sprintf("quantity to consume must be positive, got %g", quantityUsed)}
	}
	normalized := catalog.Normalize(name)
	if normalized == "" {
		return nil, &ValidationError{Reason: "food name is required"}
	}

	for attempt := 0; attempt < consumeRetries; attempt++ {
		item, err := s.resolveTarget(ctx, normalized, itemID)
		if err != nil {
			return nil, err
		}

		if quantityUsed > item.Quantity {
			return nil, &InsufficientQuantityError{ItemID: item.ID, Requested: quantityUsed, Available: item.Quantity}
		}

		if quantityUsed == item.Quantity {
			ok, err := s.items.DeleteIf(ctx, item.ID, item.Quantity)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue // quantity moved under us, re-resolve
			}
			s.logger.Info("item consumed", "name", normalized, "item_id", item.ID, "outcome", ConsumeDeleted)
			monitoring.ItemsConsumed.WithLabelValues(string(ConsumeDeleted)).Inc()
			return &ConsumeResult{Outcome: ConsumeDeleted, ItemID: item.ID}, nil
		}

		ok, err := s.items.DecrementQuantityIf(ctx, item.ID, item.Quantity, quantityUsed)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		// Rounded the same way the store rounds the row, so the reported
		// remainder equals the stored one.
		remaining := roundQuantity(item.Quantity - quantityUsed)
		s.logger.Info("item consumed", "name", normalized, "item_id", item.ID, "outcome", ConsumeUpdated,
			"remaining", remaining)
		monitoring.ItemsConsumed.WithLabelValues(string(ConsumeUpdated)).Inc()
		return &ConsumeResult{Outcome: ConsumeUpdated, ItemID: item.ID, Remaining: remaining}, nil
	}

	return nil, fmt.Errorf("failed to consume %q after %d attempts: %w", normalized, consumeRetries, ErrConflict)
}

// resolveTarget picks the item a consume request refers to. Matches come
// back soonest-expiring first, which biases any future auto-selection toward
// first-expiring stock; today auto-selection only fires when unambiguous.
func (s *InventoryService) resolveTarget(ctx context.Context, normalized string, itemID *int64) (*domain.FoodItem, error) {
	matches, err := s.items.ListByTypeName(ctx, normalized)
	if err != nil {
		return nil, err
	}

	if itemID != nil {
		for _, m := range matches {
			if m.ID == *itemID {
				return m, nil
			}
		}
		return nil, &NotFoundError{Name: normalized, ItemID: *itemID}
	}

	switch len(matches) {
	case 0:
		return nil, &NotFoundError{Name: normalized}
	case 1:
		return matches[0], nil
	default:
		ids := make([]int64, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return nil, &AmbiguousTargetError{Name: normalized, CandidateIDs: ids}
	}
}

// Reset wipes the whole inventory: every item, then every food type.
func (s *InventoryService) Reset(ctx context.Context) error {
	if err := s.items.DeleteAll(ctx); err != nil {
		return err
	}
	if err := s.types.DeleteAll(ctx); err != nil {
		return err
	}
	s.logger.Info("inventory reset")
	return nil
}

func (s *InventoryService) view(item *domain.FoodItem, ft *domain.FoodType) *domain.ItemView {
	return &domain.ItemView{
		FoodItem:     *item,
		FoodName:     ft.Name,
		FoodCategory: ft.Category,
		Status:       expiry.StatusOn(item.Storage, item.ExpirationDate, s.now()),
	}
}
