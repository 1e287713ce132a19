package constants

import "testing"

func TestParseRank(t *testing.T) {
	cases := []struct {
		in   string
		want EvaluationRank
		ok   bool
	}{
		{"S", RankS, true},
		{"s", RankS, true},
		{" b ", RankB, true},
		{"e", RankE, true},
		{"F", "", false},
		{"", "", false},
		{"SS", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseRank(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseRank(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestRankRewardsDescend(t *testing.T) {
	for i := 1; i < len(RankOrder); i++ {
		better := RankRewards[RankOrder[i-1]]
		worse := RankRewards[RankOrder[i]]
		if worse.XP > better.XP || worse.Coins > better.Coins {
			t.Errorf("Reward for %s exceeds %s", RankOrder[i], RankOrder[i-1])
		}
	}
}

func TestRankForScore(t *testing.T) {
	for rank, score := range RankScores {
		got, ok := RankForScore(score)
		if !ok || got != rank {
			t.Errorf("RankForScore(%d) = (%q, %v), want %q", score, got, ok, rank)
		}
	}
	if _, ok := RankForScore(42); ok {
		t.Error("Expected no rank for score 42")
	}
}
