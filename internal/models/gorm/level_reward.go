package gorm

// LevelReward grants a role at a level threshold. Thresholds are sparse: the
// applicable rule for a level is the one with the greatest threshold at or
// below it.
type LevelReward struct {
	LevelRequired int    `gorm:"column:level_required;primaryKey;autoIncrement:false"`
	RoleID        int64  `gorm:"column:role_id"`
	RoleName      string `gorm:"column:role_name"`
}

// TableName specifies the table name for GORM
func (LevelReward) TableName() string {
	return "level_rewards"
}
