package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelink/backend/internal/models"
)

// newTestClient connects to a local Redis on DB 15, skipping when none is
// reachable so the suite stays runnable without infrastructure.
func newTestClient(t *testing.T) *RedisClient {
	t.Helper()
	client, err := NewRedisClient("localhost:6379", "", 15)
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestMessageEventRoundTrip(t *testing.T) {
	client := newTestClient(t)

	sub := client.SubscribeToMessages()
	defer sub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscription was not confirmed: %v", err)
	}

	senderID := uuid.New()
	msg := &models.Message{
		ID:             uuid.New(),
		ConversationID: uuid.New(),
		SenderID:       &senderID,
		SenderType:     models.SenderRecruiter,
		MessageType:    models.MessageText,
		Content:        models.MessageContent{Text: "pay the registration fee"},
		RiskAnalysis:   models.RiskAssessment{FraudScore: 70},
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, client.PublishMessageEvent(msg))

	select {
	case received := <-sub.Channel():
		var event MessageEvent
		require.NoError(t, json.Unmarshal([]byte(received.Payload), &event))
		assert.Equal(t, msg.ID, event.MessageID)
		assert.Equal(t, msg.ConversationID, event.ConversationID)
		assert.Equal(t, models.SenderRecruiter, event.SenderType)
		assert.Equal(t, 70, event.FraudScore)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message event")
	}
}

func TestModerationEventRoundTrip(t *testing.T) {
	client := newTestClient(t)

	sub := client.SubscribeToModeration()
	defer sub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscription was not confirmed: %v", err)
	}

	conversationID := uuid.New()
	require.NoError(t, client.PublishModerationEvent(conversationID, "report"))

	select {
	case received := <-sub.Channel():
		var event ModerationEvent
		require.NoError(t, json.Unmarshal([]byte(received.Payload), &event))
		assert.Equal(t, conversationID, event.ConversationID)
		assert.Equal(t, "report", event.Action)
		assert.False(t, event.OccurredAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for moderation event")
	}
}

func TestUnreadCacheRoundTrip(t *testing.T) {
	client := newTestClient(t)

	userID := uuid.New()
	if _, ok := client.GetCachedUnread(userID); ok {
		t.Fatal("expected no cached summary for a fresh user")
	}

	summary := &models.UnreadSummary{
		TotalUnread: 3,
		Conversations: []models.UnreadConversation{
			{ConversationID: uuid.New(), UnreadCount: 3, LatestPreview: "Ping"},
		},
	}
	client.CacheUnread(userID, summary)

	cached, ok := client.GetCachedUnread(userID)
	require.True(t, ok)
	assert.Equal(t, summary.TotalUnread, cached.TotalUnread)
	require.Len(t, cached.Conversations, 1)
	assert.Equal(t, summary.Conversations[0].ConversationID, cached.Conversations[0].ConversationID)

	client.InvalidateUnread(userID)
	if _, ok := client.GetCachedUnread(userID); ok {
		t.Fatal("expected cache entry to be dropped after invalidation")
	}
}
