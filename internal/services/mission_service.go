package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"the-code-sage/guildhall/internal/constants"
	"the-code-sage/guildhall/internal/db/repositories"
	"the-code-sage/guildhall/internal/logging"
	"the-code-sage/guildhall/internal/metrics"
	"the-code-sage/guildhall/internal/models/dtos"
	"the-code-sage/guildhall/internal/models/entities"
	gormModels "the-code-sage/guildhall/internal/models/gorm"
)

// MissionService drives the mission lifecycle and the reward ledger
// operations built on it: evaluate, adjust, report, close.
type MissionService struct {
	missionRepo *repositories.MissionRepository
	userRepo    *repositories.UserRepository
	leveling    *LevelingService
	metrics     *metrics.MetricsRegistry
}

func NewMissionService(
	missionRepo *repositories.MissionRepository,
	userRepo *repositories.UserRepository,
	leveling *LevelingService,
	metricsReg *metrics.MetricsRegistry,
) *MissionService {
	return &MissionService{
		missionRepo: missionRepo,
		userRepo:    userRepo,
		leveling:    leveling,
		metrics:     metricsReg,
	}
}

// RegisterMission creates the mission record when the help thread is opened.
// Returns false when a mission with that id already exists.
func (s *MissionService) RegisterMission(ctx context.Context, missionID int64, title string, creatorID int64) (bool, error) {
	mission := &gormModels.Mission{
		ID:        missionID,
		Title:     title,
		CreatorID: creatorID,
		Status:    constants.MissionOpen,
		CreatedAt: time.Now(),
	}

	created, err := s.missionRepo.Create(ctx, mission)
	if err != nil {
		return false, err
	}
	if created {
		logging.Info("Mission registered", "mission_id", missionID, "creator_id", creatorID)
	}
	return created, nil
}

// EvaluateUser runs the full evaluation pipeline: lifecycle guards, reward
// table lookup, equipment bonus, ledger grant, role sync, and the evaluator
// record. Only the mission creator may evaluate, never themselves, and each
// helper at most once.
func (s *MissionService) EvaluateUser(ctx context.Context, missionID, raterID, rateeID int64, rankStr string) (*dtos.EvaluationResult, error) {
	ratee, err := s.userRepo.GetByID(ctx, rateeID)
	if err != nil {
		return nil, err
	}
	if ratee == nil {
		return nil, NotFound(constants.MsgRateeNotFound)
	}

	mission, err := s.missionRepo.GetByID(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if mission == nil {
		return nil, NotFound(constants.MsgMissionNotFound)
	}

	if mission.Status == constants.MissionClosed {
		return nil, Validation(constants.MsgMissionClosed)
	}
	if mission.CreatorID != raterID {
		return nil, Validation(constants.MsgNotMissionCreator)
	}
	if raterID == rateeID {
		return nil, Validation(constants.MsgSelfEvaluation)
	}
	if mission.EvaluatorFor(rateeID) != nil {
		return nil, Validation(constants.MsgAlreadyEvaluated)
	}

	rank, ok := constants.ParseRank(rankStr)
	if !ok {
		return nil, Validation(fmt.Sprintf("Select a valid rank: %s", constants.ValidRankList()))
	}
	base := constants.RankRewards[rank]

	finalXP, finalCoins, bonusText := s.leveling.CalculateBonus(ctx, ratee, base.XP, base.Coins)

	leveledUp, currentLevel := s.leveling.GrantReward(ctx, rateeID, finalXP, finalCoins)
	if currentLevel == nil {
		return nil, fmt.Errorf("%s", constants.MsgRewardDelivery)
	}

	evaluator := &gormModels.MissionEvaluator{
		MissionID:   missionID,
		UserID:      rateeID,
		Username:    ratee.Username,
		Rank:        rank,
		XPEarned:    finalXP,
		CoinsEarned: finalCoins,
		LevelAtTime: *currentLevel,
		EvaluatedAt: time.Now(),
	}

	added, err := s.missionRepo.AddEvaluator(ctx, evaluator)
	if err != nil {
		return nil, err
	}
	if !added {
		// Lost the race against a concurrent evaluation of the same helper.
		return nil, Validation(constants.MsgAlreadyEvaluated)
	}

	s.metrics.EvaluationsTotal.WithLabelValues(string(rank)).Inc()
	logging.WithMission(missionID).Infow("Helper evaluated",
		"ratee_id", rateeID, "rank", string(rank), "xp", finalXP, "coins", finalCoins)

	return &dtos.EvaluationResult{
		Rank:      rank,
		XP:        finalXP,
		Coins:     finalCoins,
		Bonus:     bonusText,
		LeveledUp: leveledUp,
		Level:     *currentLevel,
	}, nil
}

// AdjustEvaluation re-rates a helper: the ledger receives the signed
// difference between the new reward and what was recorded, and the evaluator
// entry is overwritten in place. The bonus is recomputed against the
// helper's current equipment, not whatever was equipped at rating time.
func (s *MissionService) AdjustEvaluation(ctx context.Context, missionID, targetUserID int64, newRankStr string) (*dtos.AdjustmentResult, error) {
	mission, err := s.missionRepo.GetByID(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if mission == nil {
		return nil, NotFound(constants.MsgMissionNotFound)
	}
	if mission.Status == constants.MissionClosed {
		return nil, Validation(constants.MsgMissionClosed)
	}

	oldEval := mission.EvaluatorFor(targetUserID)
	if oldEval == nil {
		return nil, Validation(constants.MsgNoEvaluationToAdjust)
	}

	newRank, ok := constants.ParseRank(newRankStr)
	if !ok {
		return nil, Validation(fmt.Sprintf("Select a valid rank: %s", constants.ValidRankList()))
	}
	if oldEval.Rank == newRank {
		return nil, Validation(constants.MsgSameRank)
	}

	user, err := s.userRepo.GetByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound(constants.MsgUserNotFound)
	}

	newBase := constants.RankRewards[newRank]
	finalNewXP, finalNewCoins, _ := s.leveling.CalculateBonus(ctx, user, newBase.XP, newBase.Coins)

	xpDiff := finalNewXP - oldEval.XPEarned
	coinsDiff := finalNewCoins - oldEval.CoinsEarned

	if _, level := s.leveling.GrantReward(ctx, targetUserID, xpDiff, coinsDiff); level == nil {
		logging.Warn("Adjustment ledger grant reported failure",
			"mission_id", missionID, "user_id", targetUserID)
	}

	previousRank := oldEval.Rank
	oldEval.Rank = newRank
	oldEval.XPEarned = finalNewXP
	oldEval.CoinsEarned = finalNewCoins
	oldEval.EvaluatedAt = time.Now()

	updated, err := s.missionRepo.UpdateEvaluator(ctx, oldEval)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("failed to persist adjusted evaluation for user %d in mission %d", targetUserID, missionID)
	}

	s.metrics.AdjustmentsTotal.Inc()
	logging.WithMission(missionID).Infow("Evaluation adjusted",
		"user_id", targetUserID,
		"old_rank", string(previousRank), "new_rank", string(newRank),
		"xp_diff", xpDiff, "coins_diff", coinsDiff)

	return &dtos.AdjustmentResult{
		OldRank:   previousRank,
		NewRank:   newRank,
		XPDiff:    xpDiff,
		CoinsDiff: coinsDiff,
	}, nil
}

// ReportEvaluation captures a dispute from a rated helper and flags the
// mission for moderator review. No ledger mutation happens here.
func (s *MissionService) ReportEvaluation(ctx context.Context, missionID, reporterID int64, reason string) (*entities.DisputeReport, error) {
	mission, err := s.missionRepo.GetByID(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if mission == nil {
		return nil, NotFound(constants.MsgMissionNotFound)
	}

	participant := mission.EvaluatorFor(reporterID)
	if participant == nil {
		return nil, Validation(constants.MsgReporterNotEvaluated)
	}

	if mission.Status != constants.MissionClosed {
		if _, err := s.missionRepo.SetStatus(ctx, missionID, constants.MissionUnderReview, nil); err != nil {
			logging.Error("Failed to flag mission for review",
				"mission_id", missionID, "error", err.Error())
		}
	}

	s.metrics.ReportsTotal.Inc()
	logging.WithMission(missionID).Warnw("Evaluation reported",
		"reporter_id", reporterID, "reason", reason)

	return &entities.DisputeReport{
		ReportID:     uuid.New().String(),
		MissionID:    mission.ID,
		MissionTitle: mission.Title,
		ReporterID:   reporterID,
		ReporterName: participant.Username,
		CurrentRank:  string(participant.Rank),
		Reason:       reason,
	}, nil
}

// CloseMission marks the mission CLOSED. Returns true only for the call
// that performed the transition, so racing auto-close and manual close
// triggers resolve to a single winner.
func (s *MissionService) CloseMission(ctx context.Context, missionID int64, trigger string) (bool, error) {
	closed, err := s.missionRepo.CloseIfOpen(ctx, missionID, time.Now())
	if err != nil {
		return false, err
	}

	if closed {
		s.metrics.MissionsClosedTotal.WithLabelValues(trigger).Inc()
		logging.Info("Mission closed", "mission_id", missionID, "trigger", trigger)
	}
	return closed, nil
}
