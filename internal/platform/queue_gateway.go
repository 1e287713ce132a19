package platform

import (
	"context"
	"fmt"

	"the-code-sage/guildhall/internal/common"
	"the-code-sage/guildhall/internal/db/repositories"
	"the-code-sage/guildhall/internal/models/entities"
)

// QueueGateway implements MembershipGateway without a live platform session:
// member state is read from the role markers mirrored on the ledger account,
// and mutations are dispatched to the bot over the Redis role stream. The
// marker mirror and the stream entry are written together so a restarted bot
// can reconcile from the markers.
type QueueGateway struct {
	userRepo *repositories.UserRepository
	queue    *common.RoleQueueService
}

func NewQueueGateway(userRepo *repositories.UserRepository, queue *common.RoleQueueService) *QueueGateway {
	return &QueueGateway{userRepo: userRepo, queue: queue}
}

var _ MembershipGateway = (*QueueGateway)(nil)

func (g *QueueGateway) GetMember(ctx context.Context, userID int64) (*entities.GuildMember, error) {
	user, err := g.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	return &entities.GuildMember{
		ID:       user.ID,
		Username: user.Username,
		JoinedAt: user.JoinedAt,
		RoleIDs:  user.RoleIDs,
	}, nil
}

func (g *QueueGateway) AddRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	if len(roleIDs) == 0 {
		return nil
	}

	for _, roleID := range roleIDs {
		if _, err := g.userRepo.AddRoleMarker(ctx, userID, roleID); err != nil {
			return fmt.Errorf("failed to record role marker: %w", err)
		}
	}

	return g.queue.Enqueue(ctx, &common.RoleMutation{
		UserID:   userID,
		AddRoles: roleIDs,
		Reason:   "level reward",
	})
}

func (g *QueueGateway) RemoveRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	if len(roleIDs) == 0 {
		return nil
	}

	for _, roleID := range roleIDs {
		if _, err := g.userRepo.RemoveRoleMarker(ctx, userID, roleID); err != nil {
			return fmt.Errorf("failed to drop role marker: %w", err)
		}
	}

	return g.queue.Enqueue(ctx, &common.RoleMutation{
		UserID:      userID,
		RemoveRoles: roleIDs,
		Reason:      "level reward",
	})
}
