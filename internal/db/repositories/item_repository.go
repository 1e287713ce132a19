package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "the-code-sage/guildhall/internal/models/gorm"

	"gorm.io/gorm"
)

type ItemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new GORM-based item repository
func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// GetByID retrieves a catalog item. Returns (nil, nil) when absent.
func (r *ItemRepository) GetByID(ctx context.Context, itemID int64) (*gormModels.Item, error) {
	var item gormModels.Item

	err := r.db.WithContext(ctx).First(&item, "id = ?", itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch item %d: %w", itemID, err)
	}

	return &item, nil
}

// ListAll returns the full catalog, cheapest first.
func (r *ItemRepository) ListAll(ctx context.Context) ([]gormModels.Item, error) {
	var items []gormModels.Item

	err := r.db.WithContext(ctx).Order("price").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	return items, nil
}

// Create inserts a catalog item, used by the seeder and admin tooling.
// Effects are validated before they reach the database.
func (r *ItemRepository) Create(ctx context.Context, item *gormModels.Item) (bool, error) {
	if item.Effect != nil {
		if err := item.Effect.Validate(); err != nil {
			return false, fmt.Errorf("invalid effect on item %d: %w", item.ID, err)
		}
	}
	for _, passive := range item.PassiveEffects {
		if err := passive.Validate(); err != nil {
			return false, fmt.Errorf("invalid passive effect on item %d: %w", item.ID, err)
		}
	}

	err := r.db.WithContext(ctx).Create(item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create item %d: %w", item.ID, err)
	}
	return true, nil
}
