package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/modules/ordering/models"
	"github.com/redis/go-redis/v9"
)

const conversationKeyPrefix = "cafe:conversation:"

// redisConversationRepo keeps states as JSON with a TTL equal to the session
// timeout, so Redis expires idle sessions on its own. Locking stays in
// process: one bot instance owns the WhatsApp session.
type redisConversationRepo struct {
	client *redis.Client
	ttl    time.Duration
	locks  *keyedMutex
}

func NewRedisConversationRepo(client *redis.Client, ttl time.Duration) ConversationRepo {
	return &redisConversationRepo{
		client: client,
		ttl:    ttl,
		locks:  newKeyedMutex(),
	}
}

// NewRedisClient connects and pings
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}

func (r *redisConversationRepo) Get(ctx context.Context, sender string) (*models.ConversationState, error) {
	raw, err := r.client.Get(ctx, conversationKeyPrefix+sender).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewConversationState(sender), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	var state models.ConversationState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to decode conversation: %w", err)
	}
	return &state, nil
}

func (r *redisConversationRepo) Save(ctx context.Context, state *models.ConversationState) error {
	saved := state.Clone()
	saved.UpdatedAt = time.Now()

	raw, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("failed to encode conversation: %w", err)
	}
	if err := r.client.Set(ctx, conversationKeyPrefix+state.Sender, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

func (r *redisConversationRepo) Delete(ctx context.Context, sender string) error {
	return r.client.Del(ctx, conversationKeyPrefix+sender).Err()
}

func (r *redisConversationRepo) Lock(sender string) func() {
	return r.locks.Lock(sender)
}

// CleanupExpired is handled by key expiry
func (r *redisConversationRepo) CleanupExpired(ctx context.Context, ttl time.Duration) (int, error) {
	return 0, nil
}
