package constants

import "time"

type (
	MissionStatus string
	UserStatus    string
	ItemType      string
	EffectKind    string
	APIStatus     string
	CachePrefix   string
)

const (
	MissionOpen        MissionStatus = "OPEN"
	MissionCompleted   MissionStatus = "COMPLETED"
	MissionClosed      MissionStatus = "CLOSED"
	MissionUnderReview MissionStatus = "UNDER_REVIEW"

	UserActive   UserStatus = "ACTIVE"
	UserInactive UserStatus = "INACTIVE"
	UserBanned   UserStatus = "BANNED"
	UserMuted    UserStatus = "MUTED"

	ItemConsumable ItemType = "CONSUMABLE"
	ItemEquippable ItemType = "EQUIPPABLE"
	ItemRoleGrant  ItemType = "ROLE"

	// One-shot effects applied when a consumable is used.
	EffectAddXP    EffectKind = "ADD_XP"
	EffectAddCoins EffectKind = "ADD_COINS"
	EffectGiveRole EffectKind = "GIVE_ROLE"

	// Passive effects active while an item is equipped.
	EffectXPBoost   EffectKind = "XP_BOOST"
	EffectCoinBoost EffectKind = "COIN_BOOST"

	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixItem        CachePrefix = "ITEM_"
	CachePrefixItemCatalog CachePrefix = "ITEM_CATALOG"
	CachePrefixRewardRoles CachePrefix = "REWARD_ROLE_IDS"
	CachePrefixLeaderboard CachePrefix = "LEADERBOARD"
)

const (
	// BaseXPFactor drives the square-root level curve: level n starts at
	// BaseXPFactor * n^2 XP.
	BaseXPFactor = 150

	// AutoCloseDelay is how long a mission stays open after a successful
	// evaluation before the scheduler archives it.
	AutoCloseDelay = 120 * time.Second

	// ManualCloseDelay is the grace period after an explicit close request.
	ManualCloseDelay = 5 * time.Second
)
