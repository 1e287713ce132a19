package gorm

import (
	"the-code-sage/guildhall/internal/constants"
	"the-code-sage/guildhall/internal/models/entities"
)

// Item is a shop catalog entry. Effects are stored as JSON documents with a
// closed kind discriminator (see entities.Effect / entities.PassiveEffect).
type Item struct {
	ID             int64                    `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name           string                   `gorm:"column:name"`
	Description    string                   `gorm:"column:description"`
	Price          int64                    `gorm:"column:price"`
	Type           constants.ItemType       `gorm:"column:item_type"`
	Effect         *entities.Effect         `gorm:"column:effect;serializer:json"`
	PassiveEffects []entities.PassiveEffect `gorm:"column:passive_effects;serializer:json"`
}

// TableName specifies the table name for GORM
func (Item) TableName() string {
	return "items"
}
