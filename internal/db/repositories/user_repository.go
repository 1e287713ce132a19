package repositories

import (
	"context"
	"errors"
	"fmt"

	"the-code-sage/guildhall/internal/constants"
	gormModels "the-code-sage/guildhall/internal/models/gorm"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new GORM-based user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a ledger account by platform member ID. Returns
// (nil, nil) when the account does not exist.
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user %d: %w", userID, err)
	}

	return &user, nil
}

// Create inserts a new ledger account. Returns false when the account
// already exists.
func (r *UserRepository) Create(ctx context.Context, user *gormModels.User) (bool, error) {
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create user %d: %w", user.ID, err)
	}
	return true, nil
}

// IncrementAndFetch atomically applies signed XP and coin deltas and returns
// the updated account, clamping both balances at zero so a negative
// adjustment can never be persisted as a negative balance. Returns
// (nil, nil) when the account does not exist.
func (r *UserRepository) IncrementAndFetch(ctx context.Context, userID, xpDelta, coinsDelta int64) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&gormModels.User{}).
			Where("id = ?", userID).
			Updates(map[string]any{
				"xp":    gorm.Expr("CASE WHEN xp + ? < 0 THEN 0 ELSE xp + ? END", xpDelta, xpDelta),
				"coins": gorm.Expr("CASE WHEN coins + ? < 0 THEN 0 ELSE coins + ? END", coinsDelta, coinsDelta),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&user, "id = ?", userID).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to increment ledger for user %d: %w", userID, err)
	}

	return &user, nil
}

// SetEquipped sets or clears the equipped item.
func (r *UserRepository) SetEquipped(ctx context.Context, userID int64, itemID *int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&gormModels.User{}).
		Where("id = ?", userID).
		Update("equipped_item_id", itemID)
	if res.Error != nil {
		return false, fmt.Errorf("failed to set equipped item for user %d: %w", userID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SetStatus updates the membership status.
func (r *UserRepository) SetStatus(ctx context.Context, userID int64, status constants.UserStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&gormModels.User{}).
		Where("id = ?", userID).
		Update("status", status)
	if res.Error != nil {
		return false, fmt.Errorf("failed to set status for user %d: %w", userID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// MutateInventory applies a signed quantity delta to one inventory slot.
// Quantities never go below zero; a slot reaching zero is removed. Returns
// false when the user is missing or the removal exceeds the held quantity.
func (r *UserRepository) MutateInventory(ctx context.Context, userID, itemID, delta int64) (bool, error) {
	if delta == 0 {
		return true, nil
	}

	ok := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user gormModels.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		key := gormModels.InventoryKey(itemID)
		inventory := user.Inventory
		if inventory == nil {
			inventory = map[string]int64{}
		}

		next := inventory[key] + delta
		if next < 0 {
			return nil
		}
		if next == 0 {
			delete(inventory, key)
		} else {
			inventory[key] = next
		}

		if err := tx.Model(&user).Update("inventory", inventory).Error; err != nil {
			return err
		}
		ok = true
		return nil
	})

	if err != nil {
		return false, fmt.Errorf("failed to mutate inventory for user %d: %w", userID, err)
	}
	return ok, nil
}

// AddRoleMarker records a role id on the account so it can be restored on
// rejoin. Adding an already-present marker is a no-op success.
func (r *UserRepository) AddRoleMarker(ctx context.Context, userID, roleID int64) (bool, error) {
	return r.mutateRoleMarkers(ctx, userID, func(roles []int64) []int64 {
		for _, id := range roles {
			if id == roleID {
				return roles
			}
		}
		return append(roles, roleID)
	})
}

// RemoveRoleMarker drops a role id from the account.
func (r *UserRepository) RemoveRoleMarker(ctx context.Context, userID, roleID int64) (bool, error) {
	return r.mutateRoleMarkers(ctx, userID, func(roles []int64) []int64 {
		next := roles[:0]
		for _, id := range roles {
			if id != roleID {
				next = append(next, id)
			}
		}
		return next
	})
}

func (r *UserRepository) mutateRoleMarkers(ctx context.Context, userID int64, mutate func([]int64) []int64) (bool, error) {
	ok := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user gormModels.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		roles := mutate(user.RoleIDs)
		if roles == nil {
			roles = []int64{}
		}
		if err := tx.Model(&user).Update("role_ids", roles).Error; err != nil {
			return err
		}
		ok = true
		return nil
	})

	if err != nil {
		return false, fmt.Errorf("failed to mutate role markers for user %d: %w", userID, err)
	}
	return ok, nil
}
