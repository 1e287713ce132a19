package services

import (
	"context"
	"testing"

	"the-code-sage/guildhall/internal/constants"
	"the-code-sage/guildhall/internal/models/entities"
	gormModels "the-code-sage/guildhall/internal/models/gorm"
)

func TestCalculateLevel_Curve(t *testing.T) {
	env := setupServices(t)

	cases := []struct {
		xp    int64
		level int
	}{
		{0, 0},
		{149, 0},
		{150, 1},
		{599, 1},
		{600, 2},
		{1350, 3},
		{15000, 10},
		{-50, 0},
	}

	for _, tc := range cases {
		if got := env.leveling.CalculateLevel(tc.xp); got != tc.level {
			t.Errorf("CalculateLevel(%d) = %d, want %d", tc.xp, got, tc.level)
		}
	}
}

func TestCalculateLevel_Monotonic(t *testing.T) {
	env := setupServices(t)

	prev := 0
	for xp := int64(0); xp <= 20000; xp += 37 {
		level := env.leveling.CalculateLevel(xp)
		if level < prev {
			t.Fatalf("Level decreased from %d to %d at xp=%d", prev, level, xp)
		}
		prev = level
	}
}

func TestProgress_RoundTrip(t *testing.T) {
	env := setupServices(t)

	for _, xp := range []int64{0, 149, 150, 400, 599, 600, 7777} {
		p := env.leveling.Progress(xp)

		if p.RelativeXP < 0 || p.RelativeXP >= p.NeededXP {
			t.Errorf("Progress(%d): relative %d out of range [0, %d)", xp, p.RelativeXP, p.NeededXP)
		}
		if p.Percentage < 0 || p.Percentage > 99 {
			t.Errorf("Progress(%d): percentage %d out of range", xp, p.Percentage)
		}

		floor := int64(constants.BaseXPFactor) * int64(p.Level) * int64(p.Level)
		if floor+p.RelativeXP != xp {
			t.Errorf("Progress(%d): floor %d + relative %d does not reconstruct xp", xp, floor, p.RelativeXP)
		}
	}
}

func TestCalculateBonus_NoEquipment(t *testing.T) {
	env := setupServices(t)
	user := &gormModels.User{ID: 1}

	xp, coins, desc := env.leveling.CalculateBonus(context.Background(), user, 40, 100)
	if xp != 40 || coins != 100 || desc != "" {
		t.Errorf("Expected identity bonus, got xp=%d coins=%d desc=%q", xp, coins, desc)
	}
}

func TestCalculateBonus_MissingItemFallsBack(t *testing.T) {
	env := setupServices(t)

	missing := int64(999)
	user := &gormModels.User{ID: 1, EquippedItemID: &missing}

	xp, coins, desc := env.leveling.CalculateBonus(context.Background(), user, 40, 100)
	if xp != 40 || coins != 100 || desc != "" {
		t.Errorf("Expected fallback to base, got xp=%d coins=%d desc=%q", xp, coins, desc)
	}
}

func TestCalculateBonus_StackingPassives(t *testing.T) {
	env := setupServices(t)

	item := &gormModels.Item{
		ID:    10,
		Name:  "Guilded Crest",
		Price: 100,
		Type:  constants.ItemEquippable,
		PassiveEffects: []entities.PassiveEffect{
			{Kind: constants.EffectXPBoost, Multiplier: 0.10},
			{Kind: constants.EffectXPBoost, Multiplier: 0.10},
			{Kind: constants.EffectCoinBoost, Multiplier: 0.05},
		},
	}
	if _, err := env.itemRepo.Create(context.Background(), item); err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}

	itemID := item.ID
	user := &gormModels.User{ID: 1, EquippedItemID: &itemID}

	// 40 * 1.2 = 48, 100 * 1.05 = 105
	xp, coins, desc := env.leveling.CalculateBonus(context.Background(), user, 40, 100)
	if xp != 48 {
		t.Errorf("Expected 48 XP, got %d", xp)
	}
	if coins != 105 {
		t.Errorf("Expected 105 coins, got %d", coins)
	}
	if desc != "Guilded Crest (+20% XP, +5% coins)" {
		t.Errorf("Unexpected bonus description: %q", desc)
	}
}

func TestGrantReward_LevelUpAddsRole(t *testing.T) {
	env := setupServices(t)
	env.createUser(t, 1, "helper")

	if _, err := env.rewardRepo.Create(context.Background(), &gormModels.LevelReward{
		LevelRequired: 1, RoleID: 500, RoleName: "Apprentice",
	}); err != nil {
		t.Fatalf("Failed to create reward rule: %v", err)
	}

	var added []int64
	env.gateway.getMemberFunc = func(ctx context.Context, userID int64) (*entities.GuildMember, error) {
		return &entities.GuildMember{ID: userID, RoleIDs: nil}, nil
	}
	env.gateway.addRolesFunc = func(ctx context.Context, userID int64, roleIDs []int64) error {
		added = append(added, roleIDs...)
		return nil
	}

	leveledUp, level := env.leveling.GrantReward(context.Background(), 1, 200, 50)
	if level == nil {
		t.Fatal("Expected a level, got nil")
	}
	if *level != 1 {
		t.Errorf("Expected level 1, got %d", *level)
	}
	if !leveledUp {
		t.Error("Expected level-up signal")
	}
	if len(added) != 1 || added[0] != 500 {
		t.Errorf("Expected role 500 granted, got %v", added)
	}

	user := env.fetchUser(t, 1)
	if user.XP != 200 || user.Coins != 50 {
		t.Errorf("Ledger mismatch: xp=%d coins=%d", user.XP, user.Coins)
	}
}

func TestGrantReward_NoLevelUpWhenRoleHeld(t *testing.T) {
	env := setupServices(t)
	env.createUser(t, 1, "helper")

	if _, err := env.rewardRepo.Create(context.Background(), &gormModels.LevelReward{
		LevelRequired: 1, RoleID: 500, RoleName: "Apprentice",
	}); err != nil {
		t.Fatalf("Failed to create reward rule: %v", err)
	}

	env.gateway.getMemberFunc = func(ctx context.Context, userID int64) (*entities.GuildMember, error) {
		return &entities.GuildMember{ID: userID, RoleIDs: []int64{500}}, nil
	}
	env.gateway.addRolesFunc = func(ctx context.Context, userID int64, roleIDs []int64) error {
		t.Errorf("Unexpected role add: %v", roleIDs)
		return nil
	}

	leveledUp, level := env.leveling.GrantReward(context.Background(), 1, 200, 0)
	if level == nil || *level != 1 {
		t.Fatalf("Expected level 1, got %v", level)
	}
	if leveledUp {
		t.Error("Holding the target role already must not signal a level-up")
	}
}

func TestGrantReward_RemovalAloneIsNotLevelUp(t *testing.T) {
	env := setupServices(t)
	env.createUser(t, 1, "helper")

	// Two rules so the member can hold a stale reward role.
	for _, rule := range []gormModels.LevelReward{
		{LevelRequired: 1, RoleID: 500, RoleName: "Apprentice"},
		{LevelRequired: 5, RoleID: 505, RoleName: "Journeyman"},
	} {
		r := rule
		if _, err := env.rewardRepo.Create(context.Background(), &r); err != nil {
			t.Fatalf("Failed to create reward rule: %v", err)
		}
	}

	var removed []int64
	env.gateway.getMemberFunc = func(ctx context.Context, userID int64) (*entities.GuildMember, error) {
		// Holds both the target and a stale reward role.
		return &entities.GuildMember{ID: userID, RoleIDs: []int64{500, 505}}, nil
	}
	env.gateway.removeRolesFunc = func(ctx context.Context, userID int64, roleIDs []int64) error {
		removed = append(removed, roleIDs...)
		return nil
	}

	// 200 XP keeps the member at level 1: 505 must go, 500 stays.
	leveledUp, level := env.leveling.GrantReward(context.Background(), 1, 200, 0)
	if level == nil || *level != 1 {
		t.Fatalf("Expected level 1, got %v", level)
	}
	if leveledUp {
		t.Error("A removal without an add must not signal a level-up")
	}
	if len(removed) != 1 || removed[0] != 505 {
		t.Errorf("Expected role 505 removed, got %v", removed)
	}
}

func TestGrantReward_UnknownUser(t *testing.T) {
	env := setupServices(t)

	leveledUp, level := env.leveling.GrantReward(context.Background(), 42, 100, 100)
	if leveledUp || level != nil {
		t.Errorf("Expected (false, nil) for unknown user, got (%v, %v)", leveledUp, level)
	}
}

func TestGrantReward_NegativeDeltaClampsAtZero(t *testing.T) {
	env := setupServices(t)
	env.createUser(t, 1, "helper")

	if _, level := env.leveling.GrantReward(context.Background(), 1, 100, 30); level == nil {
		t.Fatal("Initial grant failed")
	}
	if _, level := env.leveling.GrantReward(context.Background(), 1, -500, -500); level == nil {
		t.Fatal("Negative grant failed")
	}

	user := env.fetchUser(t, 1)
	if user.XP != 0 || user.Coins != 0 {
		t.Errorf("Expected clamped balances, got xp=%d coins=%d", user.XP, user.Coins)
	}
}
