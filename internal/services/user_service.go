package services

import (
	"context"
	"fmt"
	"time"

	"the-code-sage/guildhall/internal/constants"
	"the-code-sage/guildhall/internal/db/repositories"
	"the-code-sage/guildhall/internal/logging"
	"the-code-sage/guildhall/internal/metrics"
	"the-code-sage/guildhall/internal/models/dtos"
	"the-code-sage/guildhall/internal/models/entities"
	gormModels "the-code-sage/guildhall/internal/models/gorm"
	"the-code-sage/guildhall/internal/platform"
)

// UserService covers member lifecycle (join/leave/sync) and the shop economy
// built on the coin side of the ledger.
type UserService struct {
	userRepo *repositories.UserRepository
	itemRepo *repositories.ItemRepository
	leveling *LevelingService
	gateway  platform.MembershipGateway
	metrics  *metrics.MetricsRegistry
}

func NewUserService(
	userRepo *repositories.UserRepository,
	itemRepo *repositories.ItemRepository,
	leveling *LevelingService,
	gateway platform.MembershipGateway,
	metricsReg *metrics.MetricsRegistry,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		itemRepo: itemRepo,
		leveling: leveling,
		gateway:  gateway,
		metrics:  metricsReg,
	}
}

// SyncGuildMembers backfills ledger accounts for a batch of members. Bots are
// skipped; members that already hold an account are counted but untouched.
func (s *UserService) SyncGuildMembers(ctx context.Context, members []entities.GuildMember) (*dtos.SyncMembersResponse, error) {
	resp := &dtos.SyncMembersResponse{}

	for _, member := range members {
		if member.IsBot {
			resp.Ignored++
			continue
		}

		created, err := s.userRepo.Create(ctx, &gormModels.User{
			ID:       member.ID,
			Username: member.Username,
			Status:   constants.UserActive,
			JoinedAt: member.JoinedAt,
			RoleIDs:  member.RoleIDs,
		})
		if err != nil {
			return nil, err
		}
		if created {
			resp.Created++
		} else {
			resp.Ignored++
		}
	}

	logging.Info("Guild member sync finished",
		"created", resp.Created, "ignored", resp.Ignored)
	return resp, nil
}

// HandleMemberJoin opens a fresh ledger account, or reactivates an existing
// one and restores the role markers recorded before the member left.
func (s *UserService) HandleMemberJoin(ctx context.Context, member entities.GuildMember) error {
	if member.IsBot {
		return nil
	}

	existing, err := s.userRepo.GetByID(ctx, member.ID)
	if err != nil {
		return err
	}

	if existing == nil {
		joinedAt := member.JoinedAt
		if joinedAt.IsZero() {
			joinedAt = time.Now()
		}
		_, err := s.userRepo.Create(ctx, &gormModels.User{
			ID:       member.ID,
			Username: member.Username,
			Status:   constants.UserActive,
			JoinedAt: joinedAt,
			RoleIDs:  member.RoleIDs,
		})
		if err != nil {
			return err
		}
		logging.Info("New member account created", "user_id", member.ID)
		return nil
	}

	if _, err := s.userRepo.SetStatus(ctx, member.ID, constants.UserActive); err != nil {
		return err
	}

	if len(existing.RoleIDs) > 0 {
		if err := s.gateway.AddRoles(ctx, member.ID, existing.RoleIDs); err != nil {
			// The account is live either way. Role restoration self-heals on
			// the next reward grant.
			logging.Error("Failed to restore roles on rejoin",
				"user_id", member.ID, "error", err.Error())
		}
	}

	logging.Info("Returning member reactivated", "user_id", member.ID)
	return nil
}

// HandleMemberLeave freezes the account. XP, coins, inventory, and role
// markers are kept for a possible rejoin.
func (s *UserService) HandleMemberLeave(ctx context.Context, userID int64) error {
	updated, err := s.userRepo.SetStatus(ctx, userID, constants.UserInactive)
	if err != nil {
		return err
	}
	if updated {
		logging.Info("Member marked inactive", "user_id", userID)
	}
	return nil
}

// ListShop returns the purchasable catalog, cheapest first.
func (s *UserService) ListShop(ctx context.Context) ([]gormModels.Item, error) {
	return s.itemRepo.ListAll(ctx)
}

// BuyItem charges the member's coin balance and credits the inventory slot.
// The item is delivered before the charge; if the payment then fails the
// delivery is rolled back, so the member never pays for nothing.
func (s *UserService) BuyItem(ctx context.Context, userID, itemID, quantity int64) (*gormModels.Item, error) {
	if quantity <= 0 {
		quantity = 1
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound(constants.MsgUserNotFound)
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, NotFound(constants.MsgItemNotFound)
	}

	total := item.Price * quantity
	if user.Coins < total {
		return nil, Validation(constants.MsgInsufficientFunds)
	}

	delivered, err := s.userRepo.MutateInventory(ctx, userID, itemID, quantity)
	if err != nil {
		return nil, err
	}
	if !delivered {
		return nil, fmt.Errorf("%s", constants.MsgItemDeliveryFailed)
	}

	charged, err := s.userRepo.IncrementAndFetch(ctx, userID, 0, -total)
	if err != nil || charged == nil {
		if _, rbErr := s.userRepo.MutateInventory(ctx, userID, itemID, -quantity); rbErr != nil {
			logging.Error("Failed to roll back delivery after payment failure",
				"user_id", userID, "item_id", itemID, "error", rbErr.Error())
		}
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%s", constants.MsgPaymentFailed)
	}

	s.metrics.ItemPurchasesTotal.Inc()
	logging.Info("Item purchased",
		"user_id", userID, "item_id", itemID, "quantity", quantity, "cost", total)
	return item, nil
}

// EquipItem marks an owned EQUIPPABLE item as the active one. Its passive
// effects apply to every reward granted while it stays equipped.
func (s *UserService) EquipItem(ctx context.Context, userID, itemID int64) (*gormModels.Item, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound(constants.MsgUserNotFound)
	}
	if !user.OwnsItem(itemID) {
		return nil, Validation(constants.MsgItemNotOwned)
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, NotFound(constants.MsgItemNotFound)
	}
	if item.Type != constants.ItemEquippable {
		return nil, Validation(constants.MsgItemNotEquippable)
	}

	if _, err := s.userRepo.SetEquipped(ctx, userID, &itemID); err != nil {
		return nil, err
	}

	logging.Info("Item equipped", "user_id", userID, "item_id", itemID)
	return item, nil
}

// UnequipItem clears the active item.
func (s *UserService) UnequipItem(ctx context.Context, userID int64) error {
	updated, err := s.userRepo.SetEquipped(ctx, userID, nil)
	if err != nil {
		return err
	}
	if !updated {
		return NotFound(constants.MsgUserNotFound)
	}
	return nil
}

// UseItem consumes one unit of an owned CONSUMABLE and applies its one-shot
// effect. The unit is only deducted after the effect lands.
func (s *UserService) UseItem(ctx context.Context, userID, itemID int64) (*gormModels.Item, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound(constants.MsgUserNotFound)
	}
	if !user.OwnsItem(itemID) {
		return nil, Validation(constants.MsgItemNotOwned)
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, NotFound(constants.MsgItemNotFound)
	}
	if item.Type != constants.ItemConsumable || item.Effect == nil {
		return nil, Validation(constants.MsgItemNotConsumable)
	}

	switch item.Effect.Kind {
	case constants.EffectAddXP:
		if _, level := s.leveling.GrantReward(ctx, userID, item.Effect.Amount, 0); level == nil {
			return nil, fmt.Errorf("%s", constants.MsgRewardDelivery)
		}
	case constants.EffectAddCoins:
		if _, level := s.leveling.GrantReward(ctx, userID, 0, item.Effect.Amount); level == nil {
			return nil, fmt.Errorf("%s", constants.MsgRewardDelivery)
		}
	case constants.EffectGiveRole:
		if err := s.gateway.AddRoles(ctx, userID, []int64{item.Effect.RoleID}); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("item %d carries unknown effect kind %q", itemID, item.Effect.Kind)
	}

	if _, err := s.userRepo.MutateInventory(ctx, userID, itemID, -1); err != nil {
		logging.Error("Failed to deduct consumed item",
			"user_id", userID, "item_id", itemID, "error", err.Error())
	}

	logging.Info("Item used", "user_id", userID, "item_id", itemID, "effect", string(item.Effect.Kind))
	return item, nil
}

// Profile assembles the ledger view of one member: balances, progress on the
// level curve, and the equipped item if the catalog still carries it.
func (s *UserService) Profile(ctx context.Context, userID int64) (*dtos.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound(constants.MsgUserNotFound)
	}

	resp := &dtos.ProfileResponse{
		UserID:   user.ID,
		Username: user.Username,
		XP:       user.XP,
		Coins:    user.Coins,
		Status:   user.Status,
		JoinedAt: user.JoinedAt,
		Progress: s.leveling.Progress(user.XP),
	}

	if user.EquippedItemID != nil {
		if item, err := s.itemRepo.GetByID(ctx, *user.EquippedItemID); err == nil && item != nil {
			resp.EquippedItem = &dtos.EquippedItemView{ItemID: item.ID, Name: item.Name}
		}
	}

	return resp, nil
}

// Inventory lists the member's held items with catalog details. Slots whose
// item has since left the catalog are shown as unknown rather than dropped.
func (s *UserService) Inventory(ctx context.Context, userID int64) (*dtos.InventoryResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound(constants.MsgUserNotFound)
	}

	resp := &dtos.InventoryResponse{Username: user.Username}

	for key, quantity := range user.Inventory {
		itemID, err := gormModels.ItemIDFromKey(key)
		if err != nil {
			logging.Warn("Skipping malformed inventory key",
				"user_id", userID, "key", key)
			continue
		}

		entry := dtos.InventoryEntry{ItemID: itemID, Quantity: quantity, Name: "Unknown item"}
		if item, err := s.itemRepo.GetByID(ctx, itemID); err == nil && item != nil {
			entry.Name = item.Name
			entry.Description = item.Description
			entry.Type = item.Type
		}
		resp.Items = append(resp.Items, entry)
	}

	if user.EquippedItemID != nil {
		if item, err := s.itemRepo.GetByID(ctx, *user.EquippedItemID); err == nil && item != nil {
			resp.EquippedItem = &dtos.EquippedItemView{ItemID: item.ID, Name: item.Name}
		}
	}

	return resp, nil
}
