package entities

import (
	"fmt"

	"the-code-sage/guildhall/internal/constants"
)

// Effect is a one-shot item effect, discriminated by Kind. Only the fields
// relevant to the kind are populated: Amount for ADD_XP/ADD_COINS, RoleID
// for GIVE_ROLE.
type Effect struct {
	Kind   constants.EffectKind `json:"kind"`
	Amount int64                `json:"amount,omitempty"`
	RoleID int64                `json:"role_id,omitempty"`
}

// Validate rejects effects outside the closed kind set.
func (e Effect) Validate() error {
	switch e.Kind {
	case constants.EffectAddXP, constants.EffectAddCoins:
		if e.Amount <= 0 {
			return fmt.Errorf("effect %s requires a positive amount", e.Kind)
		}
		return nil
	case constants.EffectGiveRole:
		if e.RoleID == 0 {
			return fmt.Errorf("effect %s requires a role id", e.Kind)
		}
		return nil
	default:
		return fmt.Errorf("unknown effect kind %q", e.Kind)
	}
}

// PassiveEffect is a continuous multiplier active while the item carrying it
// is equipped. Multiplier is the additive contribution, e.g. 0.1 for +10%.
type PassiveEffect struct {
	Kind       constants.EffectKind `json:"kind"`
	Multiplier float64              `json:"multiplier"`
}

// Validate rejects passives outside the closed kind set.
func (e PassiveEffect) Validate() error {
	switch e.Kind {
	case constants.EffectXPBoost, constants.EffectCoinBoost:
		if e.Multiplier <= 0 {
			return fmt.Errorf("passive %s requires a positive multiplier", e.Kind)
		}
		return nil
	default:
		return fmt.Errorf("unknown passive effect kind %q", e.Kind)
	}
}
