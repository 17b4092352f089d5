package cache

import (
	"context"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// ConversationListKey caches one user's conversation list; invalidated on
// send and get-or-create, or when it simply expires.
func ConversationListKey(userID string) string {
	return "conversations:user:" + userID
}
