package gorm

import (
	"time"

	"the-code-sage/guildhall/internal/constants"
)

// Mission tracks one help-request thread. The ID is the platform thread ID.
// Missions are never deleted; a closed mission is archived in place.
type Mission struct {
	ID          int64                    `gorm:"column:id;primaryKey;autoIncrement:false"`
	Title       string                   `gorm:"column:title"`
	CreatorID   int64                    `gorm:"column:creator_id;index"`
	Status      constants.MissionStatus  `gorm:"column:status;default:OPEN"`
	CreatedAt   time.Time                `gorm:"column:created_at"`
	CompletedAt *time.Time               `gorm:"column:completed_at"`

	Evaluators []MissionEvaluator `gorm:"foreignKey:MissionID"`
}

// TableName specifies the table name for GORM
func (Mission) TableName() string {
	return "missions"
}

// EvaluatorFor returns the evaluator entry for the given user, if any.
func (m *Mission) EvaluatorFor(userID int64) *MissionEvaluator {
	for i := range m.Evaluators {
		if m.Evaluators[i].UserID == userID {
			return &m.Evaluators[i]
		}
	}
	return nil
}

// MissionEvaluator records one helper's rating and the reward actually paid
// out. Adjustments overwrite the row; the unique index keeps one entry per
// helper per mission.
type MissionEvaluator struct {
	ID          int64                    `gorm:"column:id;primaryKey;autoIncrement"`
	MissionID   int64                    `gorm:"column:mission_id;uniqueIndex:idx_mission_evaluator"`
	UserID      int64                    `gorm:"column:user_id;uniqueIndex:idx_mission_evaluator"`
	Username    string                   `gorm:"column:username"`
	Rank        constants.EvaluationRank `gorm:"column:rank"`
	XPEarned    int64                    `gorm:"column:xp_earned"`
	CoinsEarned int64                    `gorm:"column:coins_earned"`
	LevelAtTime int                      `gorm:"column:level_at_time"`
	EvaluatedAt time.Time                `gorm:"column:evaluated_at"`
}

// TableName specifies the table name for GORM
func (MissionEvaluator) TableName() string {
	return "mission_evaluators"
}
