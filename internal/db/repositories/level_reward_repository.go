package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "the-code-sage/guildhall/internal/models/gorm"

	"gorm.io/gorm"
)

type LevelRewardRepository struct {
	db *gorm.DB
}

// NewLevelRewardRepository creates a new GORM-based level reward repository
func NewLevelRewardRepository(db *gorm.DB) *LevelRewardRepository {
	return &LevelRewardRepository{db: db}
}

// RuleForLevel resolves the rule with the greatest threshold at or below the
// level, treating the rule set as a sparse step function. Returns (nil, nil)
// when the level is below every threshold.
func (r *LevelRewardRepository) RuleForLevel(ctx context.Context, level int) (*gormModels.LevelReward, error) {
	var rule gormModels.LevelReward

	err := r.db.WithContext(ctx).
		Where("level_required <= ?", level).
		Order("level_required DESC").
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve reward rule for level %d: %w", level, err)
	}

	return &rule, nil
}

// AllRoleIDs lists every level-reward role id, for partitioning a member's
// roles during sync.
func (r *LevelRewardRepository) AllRoleIDs(ctx context.Context) ([]int64, error) {
	var ids []int64

	err := r.db.WithContext(ctx).Model(&gormModels.LevelReward{}).
		Pluck("role_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reward role ids: %w", err)
	}

	return ids, nil
}

// Create inserts a reward rule, used by the seeder.
func (r *LevelRewardRepository) Create(ctx context.Context, rule *gormModels.LevelReward) (bool, error) {
	err := r.db.WithContext(ctx).Create(rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create reward rule for level %d: %w", rule.LevelRequired, err)
	}
	return true, nil
}
