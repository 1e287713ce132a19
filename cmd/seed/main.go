package main

import (
	"context"
	"log"

	"the-code-sage/guildhall/internal/constants"
	"the-code-sage/guildhall/internal/db"
	"the-code-sage/guildhall/internal/db/repositories"
	"the-code-sage/guildhall/internal/models/entities"
	gormModels "the-code-sage/guildhall/internal/models/gorm"
)

// Seeds the schema, the level reward ladder, and a starter shop catalog.
// Safe to run repeatedly: existing rows are left alone.
func main() {
	orm, err := db.InitPostgresORM()
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}

	if err := orm.AutoMigrate(
		&gormModels.User{},
		&gormModels.Mission{},
		&gormModels.MissionEvaluator{},
		&gormModels.Item{},
		&gormModels.LevelReward{},
	); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	ctx := context.Background()
	rewardRepo := repositories.NewLevelRewardRepository(orm)
	itemRepo := repositories.NewItemRepository(orm)

	rewards := []gormModels.LevelReward{
		{LevelRequired: 1, RoleID: 100100, RoleName: "Apprentice"},
		{LevelRequired: 5, RoleID: 100105, RoleName: "Journeyman"},
		{LevelRequired: 10, RoleID: 100110, RoleName: "Adept"},
		{LevelRequired: 20, RoleID: 100120, RoleName: "Expert"},
		{LevelRequired: 35, RoleID: 100135, RoleName: "Master"},
		{LevelRequired: 50, RoleID: 100150, RoleName: "Grandmaster"},
	}
	for i := range rewards {
		created, err := rewardRepo.Create(ctx, &rewards[i])
		if err != nil {
			log.Fatalf("Failed to seed reward rule: %v", err)
		}
		if created {
			log.Printf("Seeded level reward: level %d -> %s", rewards[i].LevelRequired, rewards[i].RoleName)
		}
	}

	items := []gormModels.Item{
		{
			ID:          1,
			Name:        "Scroll of Insight",
			Description: "Grants 300 XP on use.",
			Price:       200,
			Type:        constants.ItemConsumable,
			Effect:      &entities.Effect{Kind: constants.EffectAddXP, Amount: 300},
		},
		{
			ID:          2,
			Name:        "Pouch of Coins",
			Description: "Adds 150 coins on use.",
			Price:       100,
			Type:        constants.ItemConsumable,
			Effect:      &entities.Effect{Kind: constants.EffectAddCoins, Amount: 150},
		},
		{
			ID:          3,
			Name:        "Sage's Amulet",
			Description: "While equipped, rewards grant 10% more XP.",
			Price:       1500,
			Type:        constants.ItemEquippable,
			PassiveEffects: []entities.PassiveEffect{
				{Kind: constants.EffectXPBoost, Multiplier: 0.10},
			},
		},
		{
			ID:          4,
			Name:        "Merchant's Ring",
			Description: "While equipped, rewards grant 15% more coins.",
			Price:       1200,
			Type:        constants.ItemEquippable,
			PassiveEffects: []entities.PassiveEffect{
				{Kind: constants.EffectCoinBoost, Multiplier: 0.15},
			},
		},
		{
			ID:          5,
			Name:        "Guilded Crest",
			Description: "While equipped, rewards grant 5% more XP and coins.",
			Price:       2500,
			Type:        constants.ItemEquippable,
			PassiveEffects: []entities.PassiveEffect{
				{Kind: constants.EffectXPBoost, Multiplier: 0.05},
				{Kind: constants.EffectCoinBoost, Multiplier: 0.05},
			},
		},
		{
			ID:          6,
			Name:        "Patron's Sigil",
			Description: "Grants the Patron role on use.",
			Price:       5000,
			Type:        constants.ItemConsumable,
			Effect:      &entities.Effect{Kind: constants.EffectGiveRole, RoleID: 100999},
		},
	}
	for i := range items {
		created, err := itemRepo.Create(ctx, &items[i])
		if err != nil {
			log.Fatalf("Failed to seed item: %v", err)
		}
		if created {
			log.Printf("Seeded item: %s", items[i].Name)
		}
	}

	log.Println("Seeding complete")
}
