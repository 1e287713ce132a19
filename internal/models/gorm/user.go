package gorm

import (
	"time"

	"the-code-sage/guildhall/internal/constants"
)

// User is a member's ledger account. The ID is the platform member ID, so
// there is no generated key.
type User struct {
	ID             int64                 `gorm:"column:id;primaryKey;autoIncrement:false"`
	Username       string                `gorm:"column:username"`
	XP             int64                 `gorm:"column:xp;default:0"`
	Coins          int64                 `gorm:"column:coins;default:0"`
	Inventory      map[string]int64      `gorm:"column:inventory;serializer:json"`
	EquippedItemID *int64                `gorm:"column:equipped_item_id"`
	Status         constants.UserStatus  `gorm:"column:status;default:ACTIVE"`
	JoinedAt       time.Time             `gorm:"column:joined_at"`
	RoleIDs        []int64               `gorm:"column:role_ids;serializer:json"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// OwnsItem reports whether the inventory holds at least one of the item.
func (u *User) OwnsItem(itemID int64) bool {
	if u.Inventory == nil {
		return false
	}
	return u.Inventory[InventoryKey(itemID)] > 0
}

// HasRoleMarker reports whether the role id is recorded on the account.
func (u *User) HasRoleMarker(roleID int64) bool {
	for _, id := range u.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}
