package entities

import "time"

// GuildMember is the platform-side view of a member, as supplied by the bot
// (join events, batch sync) or by the membership gateway.
type GuildMember struct {
	ID       int64     `json:"id"`
	Username string    `json:"username"`
	IsBot    bool      `json:"is_bot"`
	JoinedAt time.Time `json:"joined_at"`
	RoleIDs  []int64   `json:"role_ids"`
}

// DisputeReport is the payload handed to the moderation surface when a rated
// helper contests their evaluation. It carries no ledger mutation.
type DisputeReport struct {
	ReportID     string `json:"report_id"`
	MissionID    int64  `json:"mission_id"`
	MissionTitle string `json:"mission_title"`
	ReporterID   int64  `json:"reporter_id"`
	ReporterName string `json:"reporter_name"`
	CurrentRank  string `json:"current_rank"`
	Reason       string `json:"reason"`
}
