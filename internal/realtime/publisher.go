package realtime

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher appends message events to the Redis stream. Delivery to
// websockets is best-effort freshness, not a correctness guarantee; the
// database row is already written when an event is published.
type Publisher interface {
	PublishMessage(ctx context.Context, ev MessageEvent) error
}

type StreamPublisher struct {
	rdb *redis.Client
}

func NewStreamPublisher(rdb *redis.Client) *StreamPublisher {
	return &StreamPublisher{rdb: rdb}
}

func (p *StreamPublisher) PublishMessage(ctx context.Context, ev MessageEvent) error {
	return p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: MessageStream,
		Values: map[string]any{
			"conversation_id": ev.ConversationID,
			"message_id":      ev.MessageID,
			"sender_id":       ev.SenderID,
			"content":         ev.Content,
			"kind":            ev.Kind,
			"sent_at":         ev.SentAt.UTC().Format(time.RFC3339Nano),
		},
	}).Err()
}
