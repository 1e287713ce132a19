package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"the-code-sage/guildhall/internal/common"
	"the-code-sage/guildhall/internal/constants"
	"the-code-sage/guildhall/internal/db/repositories"
	"the-code-sage/guildhall/internal/logging"
	"the-code-sage/guildhall/internal/metrics"
	"the-code-sage/guildhall/internal/models/entities"
	gormModels "the-code-sage/guildhall/internal/models/gorm"
	"the-code-sage/guildhall/internal/platform"
)

// LevelingService owns the XP curve, equipment bonuses, level-role
// reconciliation, and the reward-grant pipeline that ties them together.
type LevelingService struct {
	userRepo   *repositories.UserRepository
	rewardRepo *repositories.LevelRewardRepository
	itemRepo   *repositories.ItemRepository
	gateway    platform.MembershipGateway
	cache      common.CacheInterface
	metrics    *metrics.MetricsRegistry
}

func NewLevelingService(
	userRepo *repositories.UserRepository,
	rewardRepo *repositories.LevelRewardRepository,
	itemRepo *repositories.ItemRepository,
	gateway platform.MembershipGateway,
	cache common.CacheInterface,
	metricsReg *metrics.MetricsRegistry,
) *LevelingService {
	return &LevelingService{
		userRepo:   userRepo,
		rewardRepo: rewardRepo,
		itemRepo:   itemRepo,
		gateway:    gateway,
		cache:      cache,
		metrics:    metricsReg,
	}
}

// CalculateLevel maps cumulative XP to a level on the square-root curve:
// level n begins at BaseXPFactor * n^2 XP.
func (s *LevelingService) CalculateLevel(totalXP int64) int {
	if totalXP < 0 {
		return 0
	}
	return int(math.Sqrt(float64(totalXP) / constants.BaseXPFactor))
}

// XPForNextLevel returns the cumulative XP at which the next level begins.
func (s *LevelingService) XPForNextLevel(currentLevel int) int64 {
	next := int64(currentLevel) + 1
	return constants.BaseXPFactor * next * next
}

// Progress locates totalXP between its level's floor and ceiling, for the
// profile progress bar. relative < needed and percentage stays in 0..99
// under normal progression.
func (s *LevelingService) Progress(totalXP int64) entities.LevelProgress {
	if totalXP < 0 {
		totalXP = 0
	}

	level := s.CalculateLevel(totalXP)
	floor := constants.BaseXPFactor * int64(level) * int64(level)
	ceiling := s.XPForNextLevel(level)

	relative := totalXP - floor
	needed := ceiling - floor

	return entities.LevelProgress{
		Level:      level,
		RelativeXP: relative,
		NeededXP:   needed,
		Percentage: int(100 * relative / needed),
	}
}

// CalculateBonus applies the equipped item's passive effects to a base
// reward. Multiple passives of the same kind stack additively on top of the
// 1.0 identity multiplier; final values are floored. A user with nothing
// equipped gets the base back untouched with an empty description.
func (s *LevelingService) CalculateBonus(ctx context.Context, user *gormModels.User, baseXP, baseCoins int64) (int64, int64, string) {
	if user == nil || user.EquippedItemID == nil {
		return baseXP, baseCoins, ""
	}

	item, err := s.fetchItem(ctx, *user.EquippedItemID)
	if err != nil {
		logging.Error("Failed to fetch equipped item, skipping bonus",
			"user_id", user.ID, "item_id", *user.EquippedItemID, "error", err.Error())
		return baseXP, baseCoins, ""
	}
	if item == nil {
		// Equipped id pointing at a removed item is a recognized transient
		// inconsistency; the reward falls back to base values.
		logging.Warn("Equipped item missing from catalog",
			"user_id", user.ID, "item_id", *user.EquippedItemID)
		return baseXP, baseCoins, ""
	}

	xpMult := 1.0
	coinMult := 1.0
	for _, passive := range item.PassiveEffects {
		switch passive.Kind {
		case constants.EffectXPBoost:
			xpMult += passive.Multiplier
		case constants.EffectCoinBoost:
			coinMult += passive.Multiplier
		default:
			logging.Warn("Unknown passive effect kind on item",
				"item_id", item.ID, "kind", string(passive.Kind))
		}
	}

	finalXP := int64(math.Floor(float64(baseXP) * xpMult))
	finalCoins := int64(math.Floor(float64(baseCoins) * coinMult))

	return finalXP, finalCoins, bonusDescription(item.Name, xpMult, coinMult)
}

func bonusDescription(itemName string, xpMult, coinMult float64) string {
	parts := []string{}
	if xpMult > 1.0 {
		parts = append(parts, fmt.Sprintf("+%d%% XP", int(math.Round((xpMult-1.0)*100))))
	}
	if coinMult > 1.0 {
		parts = append(parts, fmt.Sprintf("+%d%% coins", int(math.Round((coinMult-1.0)*100))))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("%s (%s)", itemName, strings.Join(parts, ", "))
}

// SyncRoles reconciles which level role the member should hold against the
// full set of level-reward roles. Non-reward roles are never touched. The
// returned bool is "did the role set gain the target role", which is the
// level-up signal callers display.
func (s *LevelingService) SyncRoles(ctx context.Context, userID int64, targetLevel int) (bool, error) {
	targetRule, err := s.rewardRepo.RuleForLevel(ctx, targetLevel)
	if err != nil {
		return false, err
	}

	allRoleIDs, err := s.allRewardRoleIDs(ctx)
	if err != nil {
		return false, err
	}

	member, err := s.gateway.GetMember(ctx, userID)
	if err != nil {
		return false, err
	}
	if member == nil {
		logging.Info("Member not found for role sync", "user_id", userID)
		return false, nil
	}

	rewardSet := make(map[int64]bool, len(allRoleIDs))
	for _, id := range allRoleIDs {
		rewardSet[id] = true
	}

	var targetRoleID int64
	if targetRule != nil {
		targetRoleID = targetRule.RoleID
	}

	hasTarget := false
	var toRemove []int64
	for _, roleID := range member.RoleIDs {
		if !rewardSet[roleID] {
			continue
		}
		if roleID == targetRoleID {
			hasTarget = true
		} else {
			toRemove = append(toRemove, roleID)
		}
	}

	if len(toRemove) > 0 {
		if err := s.gateway.RemoveRoles(ctx, userID, toRemove); err != nil {
			s.metrics.RoleSyncsTotal.WithLabelValues("failed").Inc()
			return false, err
		}
		logging.Info("Removed stale level roles",
			"user_id", userID, "count", len(toRemove))
	}

	changed := false
	if targetRule != nil && !hasTarget {
		if err := s.gateway.AddRoles(ctx, userID, []int64{targetRule.RoleID}); err != nil {
			s.metrics.RoleSyncsTotal.WithLabelValues("failed").Inc()
			return false, err
		}
		logging.Info("Granted level role",
			"user_id", userID, "role", targetRule.RoleName, "level", targetLevel)
		changed = true
	}

	if changed {
		s.metrics.RoleSyncsTotal.WithLabelValues("changed").Inc()
	} else {
		s.metrics.RoleSyncsTotal.WithLabelValues("unchanged").Inc()
	}
	return changed, nil
}

// GrantReward atomically commits signed XP/coin deltas, recomputes the
// level, and reconciles roles. Returns the level-up signal and the level
// after the grant, or (false, nil) when the user is missing or role sync
// fails. The ledger increment is never rolled back: a member keeps an
// awarded reward even if the role update lags, and the next sync self-heals
// since roles are re-derived from current XP.
func (s *LevelingService) GrantReward(ctx context.Context, userID, xpAmount, coinsAmount int64) (bool, *int) {
	user, err := s.userRepo.IncrementAndFetch(ctx, userID, xpAmount, coinsAmount)
	if err != nil {
		logging.Error("Ledger increment failed", "user_id", userID, "error", err.Error())
		return false, nil
	}
	if user == nil {
		logging.Warn("Reward grant for unknown user", "user_id", userID)
		return false, nil
	}

	s.metrics.XPGrantedTotal.Add(math.Abs(float64(xpAmount)))
	s.metrics.CoinsGrantedTotal.Add(math.Abs(float64(coinsAmount)))

	currentLevel := s.CalculateLevel(user.XP)

	leveledUp, err := s.SyncRoles(ctx, userID, currentLevel)
	if err != nil {
		logging.Error("Role sync failed after reward grant",
			"user_id", userID, "level", currentLevel, "error", err.Error())
		return false, nil
	}

	return leveledUp, &currentLevel
}

func (s *LevelingService) fetchItem(ctx context.Context, itemID int64) (*gormModels.Item, error) {
	key := fmt.Sprintf("%s%d", constants.CachePrefixItem, itemID)
	val, err := s.cache.GetOrSet(key, 10*time.Minute, func() (any, error) {
		return s.itemRepo.GetByID(ctx, itemID)
	})
	if err != nil {
		return nil, err
	}
	item, _ := val.(*gormModels.Item)
	return item, nil
}

func (s *LevelingService) allRewardRoleIDs(ctx context.Context) ([]int64, error) {
	val, err := s.cache.GetOrSet(string(constants.CachePrefixRewardRoles), 10*time.Minute, func() (any, error) {
		return s.rewardRepo.AllRoleIDs(ctx)
	})
	if err != nil {
		return nil, err
	}
	ids, _ := val.([]int64)
	return ids, nil
}
