package gorm

import "strconv"

// InventoryKey converts an item id to its JSON inventory key. The inventory
// column is a JSON object, so keys are strings.
func InventoryKey(itemID int64) string {
	return strconv.FormatInt(itemID, 10)
}

// ItemIDFromKey is the inverse of InventoryKey.
func ItemIDFromKey(key string) (int64, error) {
	return strconv.ParseInt(key, 10, 64)
}
