package api

import (
	"encoding/json"
	"net/http"
	"time"

	"the-code-sage/guildhall/internal/auth"
	"the-code-sage/guildhall/internal/common"
	"the-code-sage/guildhall/internal/models/dtos"
)

// ListShopHandler handles GET /api/v1/shop
func ListShopHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		items, err := deps.Services.User.ListShop(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "", items)
	}
}

// BuyItemHandler handles POST /api/v1/shop/buy
func BuyItemHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Missing actor", http.StatusUnauthorized)
			return
		}

		var req dtos.BuyItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		item, err := deps.Services.User.BuyItem(r.Context(), claims.ActorID(), req.ItemID, req.Quantity)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Purchase complete", item)
	}
}

// EquipItemHandler handles POST /api/v1/shop/equip
func EquipItemHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Missing actor", http.StatusUnauthorized)
			return
		}

		var req dtos.EquipItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		item, err := deps.Services.User.EquipItem(r.Context(), claims.ActorID(), req.ItemID)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Item equipped", item)
	}
}

// UnequipItemHandler handles POST /api/v1/shop/unequip
func UnequipItemHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Missing actor", http.StatusUnauthorized)
			return
		}

		if err := deps.Services.User.UnequipItem(r.Context(), claims.ActorID()); err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Item unequipped", nil)
	}
}

// UseItemHandler handles POST /api/v1/shop/use
func UseItemHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Missing actor", http.StatusUnauthorized)
			return
		}

		var req dtos.UseItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		item, err := deps.Services.User.UseItem(r.Context(), claims.ActorID(), req.ItemID)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Item used", item)
	}
}

// InventoryHandler handles GET /api/v1/users/{userID}/inventory
func InventoryHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		userID, err := userIDParam(r)
		if err != nil {
			common.RespondError(w, initTime, err, "Invalid user id", http.StatusBadRequest)
			return
		}

		inv, err := deps.Services.User.Inventory(r.Context(), userID)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "", inv)
	}
}
