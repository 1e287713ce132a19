package services

import (
	"context"
	"testing"

	"the-code-sage/guildhall/internal/constants"
	"the-code-sage/guildhall/internal/models/entities"
	gormModels "the-code-sage/guildhall/internal/models/gorm"
)

func TestRegisterMission_Duplicate(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	created, err := env.mission.RegisterMission(ctx, 100, "help with goroutines", 1)
	if err != nil || !created {
		t.Fatalf("First registration failed: created=%v err=%v", created, err)
	}

	created, err = env.mission.RegisterMission(ctx, 100, "help with goroutines", 1)
	if err != nil {
		t.Fatalf("Duplicate registration errored: %v", err)
	}
	if created {
		t.Error("Duplicate registration must not create a second mission")
	}
}

func TestEvaluateUser_HappyPath(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	env.createUser(t, 1, "asker")
	env.createUser(t, 2, "helper")
	env.createMission(t, 100, 1)

	result, err := env.mission.EvaluateUser(ctx, 100, 1, 2, "s")
	if err != nil {
		t.Fatalf("Evaluation failed: %v", err)
	}

	if result.Rank != constants.RankS {
		t.Errorf("Expected rank S, got %s", result.Rank)
	}
	if result.XP != 50 || result.Coins != 125 {
		t.Errorf("Expected S payout 50/125, got %d/%d", result.XP, result.Coins)
	}

	user := env.fetchUser(t, 2)
	if user.XP != 50 || user.Coins != 125 {
		t.Errorf("Ledger not credited: xp=%d coins=%d", user.XP, user.Coins)
	}

	mission, err := env.missionRepo.GetByID(ctx, 100)
	if err != nil {
		t.Fatalf("Failed to reload mission: %v", err)
	}
	entry := mission.EvaluatorFor(2)
	if entry == nil {
		t.Fatal("Evaluator entry not recorded")
	}
	if entry.XPEarned != 50 || entry.CoinsEarned != 125 {
		t.Errorf("Evaluator entry payout mismatch: %d/%d", entry.XPEarned, entry.CoinsEarned)
	}
}

func TestEvaluateUser_GuardOrder(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	env.createUser(t, 1, "asker")
	env.createUser(t, 2, "helper")
	env.createUser(t, 3, "bystander")
	env.createMission(t, 100, 1)

	// Unknown ratee
	if _, err := env.mission.EvaluateUser(ctx, 100, 1, 99, "A"); err == nil || err.Error() != constants.MsgRateeNotFound {
		t.Errorf("Expected ratee-not-found, got %v", err)
	}

	// Unknown mission
	if _, err := env.mission.EvaluateUser(ctx, 999, 1, 2, "A"); err == nil || err.Error() != constants.MsgMissionNotFound {
		t.Errorf("Expected mission-not-found, got %v", err)
	}

	// Not the creator
	if _, err := env.mission.EvaluateUser(ctx, 100, 3, 2, "A"); err == nil || err.Error() != constants.MsgNotMissionCreator {
		t.Errorf("Expected creator guard, got %v", err)
	}

	// Self-rating
	if _, err := env.mission.EvaluateUser(ctx, 100, 1, 1, "A"); err == nil || err.Error() != constants.MsgSelfEvaluation {
		t.Errorf("Expected self-evaluation guard, got %v", err)
	}

	// Bad rank
	if _, err := env.mission.EvaluateUser(ctx, 100, 1, 2, "F"); err == nil || !IsValidation(err) {
		t.Errorf("Expected rank validation error, got %v", err)
	}

	// Double rating
	if _, err := env.mission.EvaluateUser(ctx, 100, 1, 2, "A"); err != nil {
		t.Fatalf("First evaluation failed: %v", err)
	}
	if _, err := env.mission.EvaluateUser(ctx, 100, 1, 2, "B"); err == nil || err.Error() != constants.MsgAlreadyEvaluated {
		t.Errorf("Expected duplicate guard, got %v", err)
	}
}

func TestEvaluateUser_ClosedMission(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	env.createUser(t, 1, "asker")
	env.createUser(t, 2, "helper")
	env.createMission(t, 100, 1)

	if closed, err := env.mission.CloseMission(ctx, 100, "manual"); err != nil || !closed {
		t.Fatalf("Close failed: closed=%v err=%v", closed, err)
	}

	if _, err := env.mission.EvaluateUser(ctx, 100, 1, 2, "A"); err == nil || err.Error() != constants.MsgMissionClosed {
		t.Errorf("Expected closed guard, got %v", err)
	}
}

func TestAdjustEvaluation_SignedDeltas(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	env.createUser(t, 1, "asker")
	env.createUser(t, 2, "helper")
	env.createMission(t, 100, 1)

	if _, err := env.mission.EvaluateUser(ctx, 100, 1, 2, "C"); err != nil {
		t.Fatalf("Evaluation failed: %v", err)
	}

	// C -> S: +30 XP, +75 coins
	result, err := env.mission.AdjustEvaluation(ctx, 100, 2, "S")
	if err != nil {
		t.Fatalf("Adjustment failed: %v", err)
	}
	if result.XPDiff != 30 || result.CoinsDiff != 75 {
		t.Errorf("Expected deltas +30/+75, got %d/%d", result.XPDiff, result.CoinsDiff)
	}

	user := env.fetchUser(t, 2)
	if user.XP != 50 || user.Coins != 125 {
		t.Errorf("Ledger should land on the S payout, got xp=%d coins=%d", user.XP, user.Coins)
	}

	// S -> C: -30 XP, -75 coins, back to the original payout
	result, err = env.mission.AdjustEvaluation(ctx, 100, 2, "C")
	if err != nil {
		t.Fatalf("Downgrade failed: %v", err)
	}
	if result.XPDiff != -30 || result.CoinsDiff != -75 {
		t.Errorf("Expected deltas -30/-75, got %d/%d", result.XPDiff, result.CoinsDiff)
	}

	user = env.fetchUser(t, 2)
	if user.XP != 20 || user.Coins != 50 {
		t.Errorf("Ledger should land on the C payout, got xp=%d coins=%d", user.XP, user.Coins)
	}

	mission, _ := env.missionRepo.GetByID(ctx, 100)
	entry := mission.EvaluatorFor(2)
	if entry == nil || entry.Rank != constants.RankC {
		t.Fatalf("Evaluator entry not overwritten: %+v", entry)
	}
	if len(mission.Evaluators) != 1 {
		t.Errorf("Adjustment must overwrite, not append: %d entries", len(mission.Evaluators))
	}
}

func TestAdjustEvaluation_Guards(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	env.createUser(t, 1, "asker")
	env.createUser(t, 2, "helper")
	env.createMission(t, 100, 1)

	// No prior evaluation
	if _, err := env.mission.AdjustEvaluation(ctx, 100, 2, "A"); err == nil || err.Error() != constants.MsgNoEvaluationToAdjust {
		t.Errorf("Expected no-evaluation guard, got %v", err)
	}

	if _, err := env.mission.EvaluateUser(ctx, 100, 1, 2, "A"); err != nil {
		t.Fatalf("Evaluation failed: %v", err)
	}

	// Same rank
	if _, err := env.mission.AdjustEvaluation(ctx, 100, 2, "a"); err == nil || err.Error() != constants.MsgSameRank {
		t.Errorf("Expected same-rank guard, got %v", err)
	}
}

func TestReportEvaluation(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	env.createUser(t, 1, "asker")
	env.createUser(t, 2, "helper")
	env.createMission(t, 100, 1)

	// Reporter was never evaluated
	if _, err := env.mission.ReportEvaluation(ctx, 100, 2, "unfair"); err == nil || err.Error() != constants.MsgReporterNotEvaluated {
		t.Errorf("Expected reporter guard, got %v", err)
	}

	if _, err := env.mission.EvaluateUser(ctx, 100, 1, 2, "D"); err != nil {
		t.Fatalf("Evaluation failed: %v", err)
	}

	report, err := env.mission.ReportEvaluation(ctx, 100, 2, "I solved the whole thing")
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if report.ReportID == "" {
		t.Error("Expected a report id")
	}
	if report.CurrentRank != "D" {
		t.Errorf("Expected current rank D, got %s", report.CurrentRank)
	}

	mission, _ := env.missionRepo.GetByID(ctx, 100)
	if mission.Status != constants.MissionUnderReview {
		t.Errorf("Expected UNDER_REVIEW, got %s", mission.Status)
	}
}

func TestCloseMission_Idempotent(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	env.createUser(t, 1, "asker")
	env.createMission(t, 100, 1)

	closed, err := env.mission.CloseMission(ctx, 100, "auto")
	if err != nil || !closed {
		t.Fatalf("First close failed: closed=%v err=%v", closed, err)
	}

	closed, err = env.mission.CloseMission(ctx, 100, "manual")
	if err != nil {
		t.Fatalf("Second close errored: %v", err)
	}
	if closed {
		t.Error("Second close must be a no-op")
	}

	mission, _ := env.missionRepo.GetByID(ctx, 100)
	if mission.Status != constants.MissionClosed {
		t.Errorf("Expected CLOSED, got %s", mission.Status)
	}
	if mission.CompletedAt == nil {
		t.Error("Expected completion timestamp")
	}
}

func TestEvaluateUser_BonusAppliedToPayout(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	env.createUser(t, 1, "asker")
	env.createUser(t, 2, "helper")
	env.createMission(t, 100, 1)

	item := &gormModels.Item{
		ID:    10,
		Name:  "Sage's Amulet",
		Price: 100,
		Type:  constants.ItemEquippable,
		PassiveEffects: []entities.PassiveEffect{
			{Kind: constants.EffectXPBoost, Multiplier: 0.10},
		},
	}
	if _, err := env.itemRepo.Create(ctx, item); err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}
	if _, err := env.userRepo.SetEquipped(ctx, 2, &item.ID); err != nil {
		t.Fatalf("Failed to equip item: %v", err)
	}

	// A rank pays 40/100 base; +10% XP makes it 44/100.
	result, err := env.mission.EvaluateUser(ctx, 100, 1, 2, "A")
	if err != nil {
		t.Fatalf("Evaluation failed: %v", err)
	}
	if result.XP != 44 || result.Coins != 100 {
		t.Errorf("Expected boosted payout 44/100, got %d/%d", result.XP, result.Coins)
	}
	if result.Bonus == "" {
		t.Error("Expected a bonus description")
	}

	// The recorded entry keeps the boosted values, so a later adjustment
	// diffs against what was actually paid.
	mission, _ := env.missionRepo.GetByID(ctx, 100)
	entry := mission.EvaluatorFor(2)
	if entry == nil || entry.XPEarned != 44 {
		t.Fatalf("Evaluator entry should record the boosted payout: %+v", entry)
	}
}
