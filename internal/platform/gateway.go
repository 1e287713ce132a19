package platform

import (
	"context"

	"the-code-sage/guildhall/internal/models/entities"
)

// MembershipGateway is how the core reaches the chat platform's member and
// role surface. The bot is the only process with a live gateway session, so
// implementations either proxy through it or work from mirrored state.
type MembershipGateway interface {
	// GetMember returns the platform view of a member, or (nil, nil) when
	// the member is not in the guild.
	GetMember(ctx context.Context, userID int64) (*entities.GuildMember, error)

	// AddRoles grants the given roles to a member.
	AddRoles(ctx context.Context, userID int64, roleIDs []int64) error

	// RemoveRoles revokes the given roles from a member in one batch.
	RemoveRoles(ctx context.Context, userID int64, roleIDs []int64) error
}
