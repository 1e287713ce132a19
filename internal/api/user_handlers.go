package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"the-code-sage/guildhall/internal/common"
	"the-code-sage/guildhall/internal/models/entities"
	"the-code-sage/guildhall/internal/workers"
)

func userIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
}

// ProfileHandler handles GET /api/v1/users/{userID}/profile
func ProfileHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		userID, err := userIDParam(r)
		if err != nil {
			common.RespondError(w, initTime, err, "Invalid user id", http.StatusBadRequest)
			return
		}

		profile, err := deps.Services.User.Profile(r.Context(), userID)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "", profile)
	}
}

// LeaderboardHandler handles GET /api/v1/leaderboard?limit=10
func LeaderboardHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		entries, err := deps.Services.Leaderboard.Top(r.Context(), limit)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "", entries)
	}
}

// LeaderboardPositionHandler handles GET /api/v1/users/{userID}/position
func LeaderboardPositionHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		userID, err := userIDParam(r)
		if err != nil {
			common.RespondError(w, initTime, err, "Invalid user id", http.StatusBadRequest)
			return
		}

		entry, err := deps.Services.Leaderboard.Position(r.Context(), userID)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "", entry)
	}
}

// SyncMembersHandler handles POST /api/v1/guild/sync. The batch is handed to
// the background worker; large guilds take longer than a request should.
func SyncMembersHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req struct {
			Members []entities.GuildMember `json:"members"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		select {
		case workers.MemberSyncQueue <- req.Members:
			common.RespondSuccess(w, initTime, "Sync queued", map[string]int{"queued": len(req.Members)}, http.StatusAccepted)
		default:
			common.RespondError(w, initTime, nil, "Sync queue is full, retry later", http.StatusServiceUnavailable)
		}
	}
}

// MemberJoinHandler handles POST /api/v1/guild/members
func MemberJoinHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var member entities.GuildMember
		if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := deps.Services.User.HandleMemberJoin(r.Context(), member); err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Member registered", nil)
	}
}

// MemberLeaveHandler handles DELETE /api/v1/guild/members/{userID}
func MemberLeaveHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		userID, err := userIDParam(r)
		if err != nil {
			common.RespondError(w, initTime, err, "Invalid user id", http.StatusBadRequest)
			return
		}

		if err := deps.Services.User.HandleMemberLeave(r.Context(), userID); err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Member marked inactive", nil)
	}
}
