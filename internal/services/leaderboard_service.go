package services

import (
	"context"
	"fmt"
	"time"

	"the-code-sage/guildhall/internal/common"
	"the-code-sage/guildhall/internal/constants"
	"the-code-sage/guildhall/internal/db/repositories"
	"the-code-sage/guildhall/internal/models/dtos"
)

const leaderboardCacheTTL = 30 * time.Second

// LeaderboardService serves the XP ranking with a short cache in front, since
// the leaderboard is the hottest read and positions barely move second to
// second.
type LeaderboardService struct {
	repo  *repositories.LeaderboardRepository
	cache common.CacheInterface
}

func NewLeaderboardService(repo *repositories.LeaderboardRepository, cache common.CacheInterface) *LeaderboardService {
	return &LeaderboardService{repo: repo, cache: cache}
}

// Top returns the highest-XP active members, at most limit rows.
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]dtos.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	key := fmt.Sprintf("%s_%d", constants.CachePrefixLeaderboard, limit)
	val, err := s.cache.GetOrSet(key, leaderboardCacheTTL, func() (any, error) {
		return s.repo.TopUsers(ctx, limit)
	})
	if err != nil {
		return nil, err
	}

	entries, _ := val.([]dtos.LeaderboardEntry)
	return entries, nil
}

// Position returns one member's ranking row.
func (s *LeaderboardService) Position(ctx context.Context, userID int64) (*dtos.LeaderboardEntry, error) {
	entry, err := s.repo.UserPosition(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, NotFound(constants.MsgUserNotFound)
	}
	return entry, nil
}
