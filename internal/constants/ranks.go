package constants

import "strings"

// EvaluationRank is the letter grade a helper receives on a mission.
type EvaluationRank string

const (
	RankS EvaluationRank = "S"
	RankA EvaluationRank = "A"
	RankB EvaluationRank = "B"
	RankC EvaluationRank = "C"
	RankD EvaluationRank = "D"
	RankE EvaluationRank = "E"
)

// RankReward is the base payout attached to a rank, before item bonuses.
type RankReward struct {
	XP    int64
	Coins int64
}

// RankRewards maps each rank to its base reward.
var RankRewards = map[EvaluationRank]RankReward{
	RankS: {XP: 50, Coins: 125},
	RankA: {XP: 40, Coins: 100},
	RankB: {XP: 30, Coins: 75},
	RankC: {XP: 20, Coins: 50},
	RankD: {XP: 10, Coins: 25},
	RankE: {XP: 0, Coins: 0},
}

// RankScores carries the numeric score of each rank, used by admin tooling
// and moderation views, not by the reward pipeline.
var RankScores = map[EvaluationRank]int{
	RankS: 5,
	RankA: 4,
	RankB: 3,
	RankC: 2,
	RankD: 1,
	RankE: 0,
}

// RankOrder lists ranks from best to worst, for display and validation text.
var RankOrder = []EvaluationRank{RankS, RankA, RankB, RankC, RankD, RankE}

// ParseRank resolves a user-supplied rank string, case-insensitively.
// Returns ("", false) for anything outside S..E.
func ParseRank(s string) (EvaluationRank, bool) {
	rank := EvaluationRank(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := RankRewards[rank]; !ok {
		return "", false
	}
	return rank, true
}

// RankForScore is the inverse of RankScores.
func RankForScore(score int) (EvaluationRank, bool) {
	for rank, s := range RankScores {
		if s == score {
			return rank, true
		}
	}
	return "", false
}

// ValidRankList renders the accepted rank symbols for error messages.
func ValidRankList() string {
	parts := make([]string, 0, len(RankOrder))
	for _, r := range RankOrder {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, ", ")
}
