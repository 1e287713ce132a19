package dtos

import "time"

type RegisterMissionRequest struct {
	MissionID int64  `json:"mission_id"`
	Title     string `json:"title"`
	CreatorID int64  `json:"creator_id"`
}

type EvaluateRequest struct {
	RateeID int64  `json:"ratee_id"`
	Rank    string `json:"rank"`
}

type AdjustEvaluationRequest struct {
	NewRank string `json:"new_rank"`
}

type ReportEvaluationRequest struct {
	Reason string `json:"reason"`
}

type MemberPayload struct {
	ID       int64     `json:"id"`
	Username string    `json:"username"`
	IsBot    bool      `json:"is_bot"`
	JoinedAt time.Time `json:"joined_at"`
	RoleIDs  []int64   `json:"role_ids"`
}

type SyncMembersRequest struct {
	Members []MemberPayload `json:"members"`
}

type BuyItemRequest struct {
	ItemID   int64 `json:"item_id"`
	Quantity int64 `json:"quantity"`
}

type EquipItemRequest struct {
	ItemID int64 `json:"item_id"`
}

type UseItemRequest struct {
	ItemID int64 `json:"item_id"`
}
