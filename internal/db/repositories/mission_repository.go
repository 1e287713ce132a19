package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"the-code-sage/guildhall/internal/constants"
	gormModels "the-code-sage/guildhall/internal/models/gorm"

	"gorm.io/gorm"
)

type MissionRepository struct {
	db *gorm.DB
}

// NewMissionRepository creates a new GORM-based mission repository
func NewMissionRepository(db *gorm.DB) *MissionRepository {
	return &MissionRepository{db: db}
}

// Create inserts a new mission. Returns false when a mission with that id
// already exists.
func (r *MissionRepository) Create(ctx context.Context, mission *gormModels.Mission) (bool, error) {
	err := r.db.WithContext(ctx).Create(mission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create mission %d: %w", mission.ID, err)
	}
	return true, nil
}

// GetByID retrieves a mission with its evaluator entries. Returns (nil, nil)
// when the mission does not exist.
func (r *MissionRepository) GetByID(ctx context.Context, missionID int64) (*gormModels.Mission, error) {
	var mission gormModels.Mission

	err := r.db.WithContext(ctx).
		Preload("Evaluators").
		First(&mission, "id = ?", missionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch mission %d: %w", missionID, err)
	}

	return &mission, nil
}

// SetStatus updates the mission status and, when provided, the completion
// timestamp.
func (r *MissionRepository) SetStatus(ctx context.Context, missionID int64, status constants.MissionStatus, completedAt *time.Time) (bool, error) {
	updates := map[string]any{"status": status}
	if completedAt != nil {
		updates["completed_at"] = completedAt
	}

	res := r.db.WithContext(ctx).Model(&gormModels.Mission{}).
		Where("id = ?", missionID).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("failed to set status for mission %d: %w", missionID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CloseIfOpen marks the mission CLOSED unless it already is. Returns false
// when the mission is missing or was closed before this call, making close
// idempotent under racing triggers.
func (r *MissionRepository) CloseIfOpen(ctx context.Context, missionID int64, completedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&gormModels.Mission{}).
		Where("id = ? AND status <> ?", missionID, constants.MissionClosed).
		Updates(map[string]any{
			"status":       constants.MissionClosed,
			"completed_at": completedAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to close mission %d: %w", missionID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// AddEvaluator appends an evaluator entry. The unique (mission_id, user_id)
// index enforces one rating per helper; a duplicate returns false.
func (r *MissionRepository) AddEvaluator(ctx context.Context, evaluator *gormModels.MissionEvaluator) (bool, error) {
	err := r.db.WithContext(ctx).Create(evaluator).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to add evaluator %d to mission %d: %w", evaluator.UserID, evaluator.MissionID, err)
	}
	return true, nil
}

// UpdateEvaluator overwrites the recorded rating for one helper in place.
// The keyed UPDATE is the overwrite-not-append rule for adjustments.
func (r *MissionRepository) UpdateEvaluator(ctx context.Context, evaluator *gormModels.MissionEvaluator) (bool, error) {
	res := r.db.WithContext(ctx).Model(&gormModels.MissionEvaluator{}).
		Where("mission_id = ? AND user_id = ?", evaluator.MissionID, evaluator.UserID).
		Updates(map[string]any{
			"rank":          evaluator.Rank,
			"xp_earned":     evaluator.XPEarned,
			"coins_earned":  evaluator.CoinsEarned,
			"level_at_time": evaluator.LevelAtTime,
			"evaluated_at":  evaluator.EvaluatedAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update evaluator %d in mission %d: %w", evaluator.UserID, evaluator.MissionID, res.Error)
	}
	return res.RowsAffected > 0, nil
}
