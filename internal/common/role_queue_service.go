package common

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RoleMutationStream is the Redis stream the bot consumes to apply role
// changes on the platform.
const RoleMutationStream = "guildhall:role_mutations"

// RoleMutation is one role change the bot must apply to a member.
type RoleMutation struct {
	UserID      int64   `json:"user_id"`
	AddRoles    []int64 `json:"add_roles,omitempty"`
	RemoveRoles []int64 `json:"remove_roles,omitempty"`
	Reason      string  `json:"reason,omitempty"`
	QueuedAt    string  `json:"queued_at"`
}

// RoleQueueService dispatches role mutations to the bot over a Redis stream.
// The backend never talks to the chat platform directly; the bot is the only
// process holding a gateway session.
type RoleQueueService struct {
	client *redis.Client
}

// NewRoleQueueService creates a new role mutation queue service
func NewRoleQueueService(client *redis.Client) *RoleQueueService {
	return &RoleQueueService{client: client}
}

// Enqueue appends a mutation to the stream.
func (s *RoleQueueService) Enqueue(ctx context.Context, mutation *RoleMutation) error {
	mutation.QueuedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(mutation)
	if err != nil {
		return fmt.Errorf("failed to marshal role mutation: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: RoleMutationStream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}

	if _, err := s.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}

	return nil
}

// Dequeue reads one mutation using a consumer group, for the bot-side worker
// and for draining in tests. Returns (nil, "", nil) on timeout.
func (s *RoleQueueService) Dequeue(ctx context.Context, groupName, consumerName string, blockTime time.Duration) (*RoleMutation, string, error) {
	args := &redis.XReadGroupArgs{
		Group:    groupName,
		Consumer: consumerName,
		Streams:  []string{RoleMutationStream, ">"},
		Count:    1,
		Block:    blockTime,
	}

	streams, err := s.client.XReadGroup(ctx, args).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read from stream: %w", err)
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, "", nil
	}

	msg := streams[0].Messages[0]
	dataStr, ok := msg.Values["data"].(string)
	if !ok {
		return nil, msg.ID, fmt.Errorf("malformed stream entry %s", msg.ID)
	}

	var mutation RoleMutation
	if err := json.Unmarshal([]byte(dataStr), &mutation); err != nil {
		return nil, msg.ID, fmt.Errorf("failed to unmarshal role mutation: %w", err)
	}

	return &mutation, msg.ID, nil
}

// Ack acknowledges a processed stream entry.
func (s *RoleQueueService) Ack(ctx context.Context, groupName, messageID string) error {
	return s.client.XAck(ctx, RoleMutationStream, groupName, messageID).Err()
}

// EnsureGroup creates the consumer group if it does not exist yet.
func (s *RoleQueueService) EnsureGroup(ctx context.Context, groupName string) error {
	err := s.client.XGroupCreateMkStream(ctx, RoleMutationStream, groupName, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}
