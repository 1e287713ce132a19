package repositories

import (
	"context"
	"fmt"

	"the-code-sage/guildhall/internal/models/dtos"

	"github.com/jmoiron/sqlx"
)

// LeaderboardRepository runs the ranking queries over sqlx; window functions
// read better as raw SQL than as ORM chains.
type LeaderboardRepository struct {
	db *sqlx.DB
}

func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

const topUsersQuery = `
SELECT ROW_NUMBER() OVER (ORDER BY xp DESC, id) AS position,
       id AS user_id,
       username,
       xp,
       coins
FROM users
WHERE status = 'ACTIVE'
ORDER BY xp DESC, id
LIMIT $1`

// TopUsers returns the highest-XP active accounts with their positions.
func (r *LeaderboardRepository) TopUsers(ctx context.Context, limit int) ([]dtos.LeaderboardEntry, error) {
	entries := []dtos.LeaderboardEntry{}

	if err := r.db.SelectContext(ctx, &entries, topUsersQuery, limit); err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}

	return entries, nil
}

const userPositionQuery = `
SELECT position, user_id, username, xp, coins FROM (
    SELECT ROW_NUMBER() OVER (ORDER BY xp DESC, id) AS position,
           id AS user_id,
           username,
           xp,
           coins
    FROM users
    WHERE status = 'ACTIVE'
) ranked
WHERE user_id = $1`

// UserPosition returns one member's leaderboard row, or nil when the member
// is absent or inactive.
func (r *LeaderboardRepository) UserPosition(ctx context.Context, userID int64) (*dtos.LeaderboardEntry, error) {
	entries := []dtos.LeaderboardEntry{}

	if err := r.db.SelectContext(ctx, &entries, userPositionQuery, userID); err != nil {
		return nil, fmt.Errorf("failed to query leaderboard position for user %d: %w", userID, err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	return &entries[0], nil
}
