package services

import (
	"context"
	"testing"
	"time"

	"the-code-sage/guildhall/internal/constants"
	"the-code-sage/guildhall/internal/models/entities"
	gormModels "the-code-sage/guildhall/internal/models/gorm"
)

func TestSyncGuildMembers_SkipsBotsAndExisting(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	env.createUser(t, 1, "veteran")

	resp, err := env.user.SyncGuildMembers(ctx, []entities.GuildMember{
		{ID: 1, Username: "veteran"},
		{ID: 2, Username: "newcomer"},
		{ID: 3, Username: "beep-boop", IsBot: true},
	})
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	if resp.Created != 1 {
		t.Errorf("Expected 1 created, got %d", resp.Created)
	}
	if resp.Ignored != 2 {
		t.Errorf("Expected 2 ignored, got %d", resp.Ignored)
	}
}

func TestHandleMemberJoin_RejoinRestoresRoles(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	user := env.createUser(t, 1, "returning")
	user.Status = constants.UserInactive
	user.RoleIDs = []int64{500, 501}
	if err := env.db.Save(user).Error; err != nil {
		t.Fatalf("Failed to update user: %v", err)
	}

	var restored []int64
	env.gateway.addRolesFunc = func(ctx context.Context, userID int64, roleIDs []int64) error {
		restored = append(restored, roleIDs...)
		return nil
	}

	err := env.user.HandleMemberJoin(ctx, entities.GuildMember{ID: 1, Username: "returning", JoinedAt: time.Now()})
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	reloaded := env.fetchUser(t, 1)
	if reloaded.Status != constants.UserActive {
		t.Errorf("Expected ACTIVE, got %s", reloaded.Status)
	}
	if len(restored) != 2 {
		t.Errorf("Expected 2 roles restored, got %v", restored)
	}
}

func TestHandleMemberLeave_KeepsLedger(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	env.createUser(t, 1, "leaver")
	if _, level := env.leveling.GrantReward(ctx, 1, 300, 200); level == nil {
		t.Fatal("Grant failed")
	}

	if err := env.user.HandleMemberLeave(ctx, 1); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}

	user := env.fetchUser(t, 1)
	if user.Status != constants.UserInactive {
		t.Errorf("Expected INACTIVE, got %s", user.Status)
	}
	if user.XP != 300 || user.Coins != 200 {
		t.Errorf("Ledger must survive leaving: xp=%d coins=%d", user.XP, user.Coins)
	}
}

func TestBuyItem(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	env.createUser(t, 1, "shopper")
	if _, level := env.leveling.GrantReward(ctx, 1, 0, 500); level == nil {
		t.Fatal("Grant failed")
	}

	item := &gormModels.Item{
		ID: 10, Name: "Pouch of Coins", Price: 150, Type: constants.ItemConsumable,
		Effect: &entities.Effect{Kind: constants.EffectAddCoins, Amount: 100},
	}
	if _, err := env.itemRepo.Create(ctx, item); err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}

	if _, err := env.user.BuyItem(ctx, 1, 10, 2); err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}

	user := env.fetchUser(t, 1)
	if user.Coins != 200 {
		t.Errorf("Expected 200 coins after paying 300, got %d", user.Coins)
	}
	if user.Inventory[gormModels.InventoryKey(10)] != 2 {
		t.Errorf("Expected 2 in inventory, got %v", user.Inventory)
	}

	// Balance now covers one more at most.
	if _, err := env.user.BuyItem(ctx, 1, 10, 2); err == nil || err.Error() != constants.MsgInsufficientFunds {
		t.Errorf("Expected insufficient-funds guard, got %v", err)
	}
}

func TestEquipItem_Guards(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	env.createUser(t, 1, "shopper")
	if _, level := env.leveling.GrantReward(ctx, 1, 0, 1000); level == nil {
		t.Fatal("Grant failed")
	}

	consumable := &gormModels.Item{
		ID: 10, Name: "Scroll", Price: 100, Type: constants.ItemConsumable,
		Effect: &entities.Effect{Kind: constants.EffectAddXP, Amount: 50},
	}
	amulet := &gormModels.Item{
		ID: 11, Name: "Amulet", Price: 100, Type: constants.ItemEquippable,
		PassiveEffects: []entities.PassiveEffect{{Kind: constants.EffectXPBoost, Multiplier: 0.1}},
	}
	for _, item := range []*gormModels.Item{consumable, amulet} {
		if _, err := env.itemRepo.Create(ctx, item); err != nil {
			t.Fatalf("Failed to create item: %v", err)
		}
	}

	// Not owned yet
	if _, err := env.user.EquipItem(ctx, 1, 11); err == nil || err.Error() != constants.MsgItemNotOwned {
		t.Errorf("Expected ownership guard, got %v", err)
	}

	if _, err := env.user.BuyItem(ctx, 1, 10, 1); err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}
	if _, err := env.user.BuyItem(ctx, 1, 11, 1); err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}

	// Wrong type
	if _, err := env.user.EquipItem(ctx, 1, 10); err == nil || err.Error() != constants.MsgItemNotEquippable {
		t.Errorf("Expected type guard, got %v", err)
	}

	if _, err := env.user.EquipItem(ctx, 1, 11); err != nil {
		t.Fatalf("Equip failed: %v", err)
	}
	user := env.fetchUser(t, 1)
	if user.EquippedItemID == nil || *user.EquippedItemID != 11 {
		t.Errorf("Expected item 11 equipped, got %v", user.EquippedItemID)
	}

	if err := env.user.UnequipItem(ctx, 1); err != nil {
		t.Fatalf("Unequip failed: %v", err)
	}
	if user := env.fetchUser(t, 1); user.EquippedItemID != nil {
		t.Error("Expected nothing equipped")
	}
}

func TestUseItem_ConsumesAndApplies(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	env.createUser(t, 1, "shopper")
	if _, level := env.leveling.GrantReward(ctx, 1, 0, 500); level == nil {
		t.Fatal("Grant failed")
	}

	scroll := &gormModels.Item{
		ID: 10, Name: "Scroll of Insight", Price: 100, Type: constants.ItemConsumable,
		Effect: &entities.Effect{Kind: constants.EffectAddXP, Amount: 200},
	}
	if _, err := env.itemRepo.Create(ctx, scroll); err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}
	if _, err := env.user.BuyItem(ctx, 1, 10, 1); err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}

	if _, err := env.user.UseItem(ctx, 1, 10); err != nil {
		t.Fatalf("Use failed: %v", err)
	}

	user := env.fetchUser(t, 1)
	if user.XP != 200 {
		t.Errorf("Expected 200 XP from the scroll, got %d", user.XP)
	}
	if user.OwnsItem(10) {
		t.Error("Consumable must be deducted after use")
	}

	// Used up: a second use must fail the ownership guard.
	if _, err := env.user.UseItem(ctx, 1, 10); err == nil || err.Error() != constants.MsgItemNotOwned {
		t.Errorf("Expected ownership guard, got %v", err)
	}
}

func TestUseItem_RoleGrant(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	env.createUser(t, 1, "shopper")
	if _, level := env.leveling.GrantReward(ctx, 1, 0, 500); level == nil {
		t.Fatal("Grant failed")
	}

	sigil := &gormModels.Item{
		ID: 10, Name: "Patron's Sigil", Price: 100, Type: constants.ItemConsumable,
		Effect: &entities.Effect{Kind: constants.EffectGiveRole, RoleID: 777},
	}
	if _, err := env.itemRepo.Create(ctx, sigil); err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}
	if _, err := env.user.BuyItem(ctx, 1, 10, 1); err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}

	var granted []int64
	env.gateway.addRolesFunc = func(ctx context.Context, userID int64, roleIDs []int64) error {
		granted = append(granted, roleIDs...)
		return nil
	}

	if _, err := env.user.UseItem(ctx, 1, 10); err != nil {
		t.Fatalf("Use failed: %v", err)
	}
	if len(granted) != 1 || granted[0] != 777 {
		t.Errorf("Expected role 777 granted, got %v", granted)
	}
}

func TestProfile(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	env.createUser(t, 1, "profiled")
	if _, level := env.leveling.GrantReward(ctx, 1, 400, 50); level == nil {
		t.Fatal("Grant failed")
	}

	profile, err := env.user.Profile(ctx, 1)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}

	if profile.XP != 400 || profile.Coins != 50 {
		t.Errorf("Balance mismatch: xp=%d coins=%d", profile.XP, profile.Coins)
	}
	if profile.Progress.Level != 1 {
		t.Errorf("Expected level 1, got %d", profile.Progress.Level)
	}
	if profile.Progress.RelativeXP != 250 {
		t.Errorf("Expected 250 XP into level 1, got %d", profile.Progress.RelativeXP)
	}
}
