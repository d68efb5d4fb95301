package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hirelink/backend/internal/models"
)

type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client: client,
		ctx:    ctx,
	}, nil
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Event publishing
//
// Downstream notification delivery (email, mobile push) is not this
// service's concern; publishing to these channels is the whole interface.

// MessageEvent is published on every accepted message.
type MessageEvent struct {
	ConversationID uuid.UUID          `json:"conversation_id"`
	MessageID      uuid.UUID          `json:"message_id"`
	SenderType     models.SenderType  `json:"sender_type"`
	MessageType    models.MessageType `json:"message_type"`
	FraudScore     int                `json:"fraud_score"`
	CreatedAt      time.Time          `json:"created_at"`
}

// ModerationEvent is published on every report and resolution.
type ModerationEvent struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	Action         string    `json:"action"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// PublishMessageEvent publishes a new-message event to the messages channel.
func (r *RedisClient) PublishMessageEvent(msg *models.Message) error {
	event := MessageEvent{
		ConversationID: msg.ConversationID,
		MessageID:      msg.ID,
		SenderType:     msg.SenderType,
		MessageType:    msg.MessageType,
		FraudScore:     msg.RiskAnalysis.FraudScore,
		CreatedAt:      msg.CreatedAt,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.client.Publish(r.ctx, "messages", data).Err()
}

// PublishModerationEvent publishes a moderation action to the moderation channel.
func (r *RedisClient) PublishModerationEvent(conversationID uuid.UUID, action string) error {
	data, err := json.Marshal(ModerationEvent{
		ConversationID: conversationID,
		Action:         action,
		OccurredAt:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return r.client.Publish(r.ctx, "moderation", data).Err()
}

// SubscribeToMessages subscribes to the messages channel.
func (r *RedisClient) SubscribeToMessages() *redis.PubSub {
	return r.client.Subscribe(r.ctx, "messages")
}

// SubscribeToModeration subscribes to the moderation channel.
func (r *RedisClient) SubscribeToModeration() *redis.PubSub {
	return r.client.Subscribe(r.ctx, "moderation")
}

// Unread summary cache

const unreadTTL = 30 * time.Second

func unreadKey(userID uuid.UUID) string {
	return fmt.Sprintf("unread:user:%s", userID.String())
}

// GetCachedUnread returns the cached unread summary for a user, if present.
func (r *RedisClient) GetCachedUnread(userID uuid.UUID) (*models.UnreadSummary, bool) {
	data, err := r.client.Get(r.ctx, unreadKey(userID)).Result()
	if err != nil {
		return nil, false
	}

	var summary models.UnreadSummary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		return nil, false
	}

	return &summary, true
}

// CacheUnread stores a user's unread summary with a short TTL.
func (r *RedisClient) CacheUnread(userID uuid.UUID, summary *models.UnreadSummary) {
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	r.client.Set(r.ctx, unreadKey(userID), data, unreadTTL)
}

// InvalidateUnread drops a user's cached unread summary after their counters
// change (new inbound message or a mark-read).
func (r *RedisClient) InvalidateUnread(userID uuid.UUID) {
	r.client.Del(r.ctx, unreadKey(userID))
}

// AllowAction implements a Redis-backed token-bucket limiter per key (user+action).
// Returns true if the action is allowed, false if rate-limited.
func (r *RedisClient) AllowAction(userID uuid.UUID, action string, rate int, burst int) (bool, error) {
	key := fmt.Sprintf("rl:%s:%s", action, userID.String())
	// Lua script: manage tokens and last timestamp
	script := `
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local vals = redis.call('HMGET', key, 'tokens', 'last')
local tokens = tonumber(vals[1])
local last = tonumber(vals[2])
if tokens == nil then tokens = burst end
if last == nil then last = now end
local delta = math.max(0, now - last)
local new_tokens = math.min(burst, tokens + (delta * rate / 1000))
if new_tokens >= 1 then
	new_tokens = new_tokens - 1
	redis.call('HMSET', key, 'tokens', new_tokens, 'last', now)
	redis.call('PEXPIRE', key, 60000)
	return 1
else
	redis.call('HMSET', key, 'tokens', new_tokens, 'last', now)
	redis.call('PEXPIRE', key, 60000)
	return 0
end
`

	now := time.Now().UnixNano() / int64(time.Millisecond)
	res, err := r.client.Eval(r.ctx, script, []string{key}, rate, burst, now).Result()
	if err != nil {
		return false, err
	}
	// Eval returns int64 (1 or 0)
	switch v := res.(type) {
	case int64:
		return v == 1, nil
	case int:
		return v == 1, nil
	default:
		return false, fmt.Errorf("unexpected result from rate limiter: %T %v", res, res)
	}
}
