package dtos

import (
	"time"

	"the-code-sage/guildhall/internal/constants"
	"the-code-sage/guildhall/internal/models/entities"
)

// APIResponse is the standard envelope for every endpoint.
type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	ResponseTime string `json:"response_time,omitempty"`
	Data         any    `json:"data,omitempty"`
}

// EvaluationResult is returned by a successful /evaluate, for the bot to
// render.
type EvaluationResult struct {
	Rank      constants.EvaluationRank `json:"rank"`
	XP        int64                    `json:"xp"`
	Coins     int64                    `json:"coins"`
	Bonus     string                   `json:"bonus,omitempty"`
	LeveledUp bool                     `json:"leveled_up"`
	Level     int                      `json:"level"`
}

// AdjustmentResult reports the signed ledger deltas of a re-rating.
type AdjustmentResult struct {
	OldRank   constants.EvaluationRank `json:"old_rank"`
	NewRank   constants.EvaluationRank `json:"new_rank"`
	XPDiff    int64                    `json:"xp_diff"`
	CoinsDiff int64                    `json:"coins_diff"`
}

// CloseResult reports whether the close call transitioned the mission.
type CloseResult struct {
	Closed bool `json:"closed"`
}

// ProfileResponse carries the ledger view of one member.
type ProfileResponse struct {
	UserID       int64                  `json:"user_id"`
	Username     string                 `json:"username"`
	XP           int64                  `json:"xp"`
	Coins        int64                  `json:"coins"`
	Status       constants.UserStatus   `json:"status"`
	JoinedAt     time.Time              `json:"joined_at"`
	EquippedItem *EquippedItemView      `json:"equipped_item,omitempty"`
	Progress     entities.LevelProgress `json:"progress"`
}

type EquippedItemView struct {
	ItemID int64  `json:"item_id"`
	Name   string `json:"name"`
}

// InventoryEntry is one line of the inventory view.
type InventoryEntry struct {
	ItemID      int64              `json:"item_id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Type        constants.ItemType `json:"type"`
	Quantity    int64              `json:"quantity"`
}

type InventoryResponse struct {
	Username     string           `json:"username"`
	EquippedItem *EquippedItemView `json:"equipped_item,omitempty"`
	Items        []InventoryEntry `json:"items"`
}

// LeaderboardEntry is one row of the XP leaderboard.
type LeaderboardEntry struct {
	Position int    `json:"position" db:"position"`
	UserID   int64  `json:"user_id" db:"user_id"`
	Username string `json:"username" db:"username"`
	XP       int64  `json:"xp" db:"xp"`
	Coins    int64  `json:"coins" db:"coins"`
}

// SyncMembersResponse summarizes a batch member sync.
type SyncMembersResponse struct {
	Created int `json:"created"`
	Ignored int `json:"ignored"`
}
