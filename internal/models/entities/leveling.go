package entities

// LevelProgress describes where a total XP amount sits on the level curve,
// for progress-bar rendering.
type LevelProgress struct {
	Level      int   `json:"level"`
	RelativeXP int64 `json:"relative_xp"`
	NeededXP   int64 `json:"needed_xp"`
	Percentage int   `json:"percentage"`
}
