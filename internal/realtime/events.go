package realtime

import "time"

const (
	// MessageStream is the Redis stream the API appends message events to;
	// the worker pool consumes it and fans out to per-user channels.
	MessageStream = "conversation:events"

	// MessageGroup is the consumer group name for the worker pool.
	MessageGroup = "conversation-workers"
)

// UserChannel is the pub/sub channel a user's websocket subscribes to.
func UserChannel(userID string) string {
	return "user:" + userID + ":conversations"
}

// MessageEvent describes one appended message. The payload carries enough
// for clients to update a known conversation without a refetch; clients
// ignore events for conversations they have not loaded.
type MessageEvent struct {
	ConversationID string    `json:"conversation_id"`
	MessageID      string    `json:"message_id"`
	SenderID       string    `json:"sender_id"`
	Content        string    `json:"content"`
	Kind           string    `json:"kind"`
	SentAt         time.Time `json:"sent_at"`
}
