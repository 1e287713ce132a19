package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"the-code-sage/guildhall/internal/auth"
	"the-code-sage/guildhall/internal/common"
	"the-code-sage/guildhall/internal/constants"
	"the-code-sage/guildhall/internal/models/dtos"
	"the-code-sage/guildhall/internal/services"
)

// respondServiceError maps the service error taxonomy onto HTTP codes.
func respondServiceError(w http.ResponseWriter, initTime time.Time, err error) {
	switch {
	case services.IsValidation(err):
		common.RespondError(w, initTime, err, "", http.StatusBadRequest)
	case services.IsNotFound(err):
		common.RespondError(w, initTime, err, "", http.StatusNotFound)
	default:
		common.RespondError(w, initTime, err, "Internal error", http.StatusInternalServerError)
	}
}

func missionIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "missionID"), 10, 64)
}

// RegisterMissionHandler handles POST /api/v1/missions
func RegisterMissionHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.RegisterMissionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		created, err := deps.Services.Mission.RegisterMission(r.Context(), req.MissionID, req.Title, req.CreatorID)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		if !created {
			common.RespondError(w, initTime, nil, constants.MsgMissionExists, http.StatusConflict)
			return
		}

		common.RespondSuccess(w, initTime, "Mission registered", nil, http.StatusCreated)
	}
}

// EvaluateHandler handles POST /api/v1/missions/{missionID}/evaluations.
// The acting member comes from the auth claims; a successful evaluation arms
// the auto-close timer.
func EvaluateHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		missionID, err := missionIDParam(r)
		if err != nil {
			common.RespondError(w, initTime, err, "Invalid mission id", http.StatusBadRequest)
			return
		}

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Missing actor", http.StatusUnauthorized)
			return
		}

		var req dtos.EvaluateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		result, err := deps.Services.Mission.EvaluateUser(r.Context(), missionID, claims.ActorID(), req.RateeID, req.Rank)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		deps.Scheduler.Schedule(missionID, constants.AutoCloseDelay, "auto")

		common.RespondSuccess(w, initTime, "Evaluation recorded", result)
	}
}

// AdjustEvaluationHandler handles PATCH /api/v1/missions/{missionID}/evaluations/{userID}
func AdjustEvaluationHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		missionID, err := missionIDParam(r)
		if err != nil {
			common.RespondError(w, initTime, err, "Invalid mission id", http.StatusBadRequest)
			return
		}

		userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			common.RespondError(w, initTime, err, "Invalid user id", http.StatusBadRequest)
			return
		}

		var req dtos.AdjustEvaluationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		result, err := deps.Services.Mission.AdjustEvaluation(r.Context(), missionID, userID, req.NewRank)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Evaluation adjusted", result)
	}
}

// ReportEvaluationHandler handles POST /api/v1/missions/{missionID}/reports.
// Returns the dispute payload plus a signed dashboard token for moderators.
func ReportEvaluationHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		missionID, err := missionIDParam(r)
		if err != nil {
			common.RespondError(w, initTime, err, "Invalid mission id", http.StatusBadRequest)
			return
		}

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Missing actor", http.StatusUnauthorized)
			return
		}

		var req dtos.ReportEvaluationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		report, err := deps.Services.Mission.ReportEvaluation(r.Context(), missionID, claims.ActorID(), req.Reason)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		token, err := deps.Services.Signer.Sign(report.ReporterID, report.ReportID, 24*time.Hour)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to sign review link", http.StatusInternalServerError)
			return
		}

		common.RespondSuccess(w, initTime, "Report filed", map[string]any{
			"report":       report,
			"review_token": token,
		})
	}
}

// CloseMissionHandler handles POST /api/v1/missions/{missionID}/close.
// An explicit close cancels any pending auto-close fuse and arms the short
// manual one.
func CloseMissionHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		missionID, err := missionIDParam(r)
		if err != nil {
			common.RespondError(w, initTime, err, "Invalid mission id", http.StatusBadRequest)
			return
		}

		deps.Scheduler.Cancel(missionID)
		deps.Scheduler.Schedule(missionID, constants.ManualCloseDelay, "manual")

		common.RespondSuccess(w, initTime, "Mission close scheduled", dtos.CloseResult{Closed: false}, http.StatusAccepted)
	}
}
