package workers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hirebridge/hirebridge/internal/realtime"
	pgrepo "github.com/hirebridge/hirebridge/internal/repositories/postgres"
)

// MessageEventWorkerPool consumes message events from the Redis stream and
// fans each one out to the pub/sub channels of the conversation's
// participants, where websocket handlers pick them up.
type MessageEventWorkerPool struct {
	Redis         *redis.Client
	Conversations pgrepo.ConversationRepo
	NumWorkers    int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *MessageEventWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Conversations == nil {
		return errors.New("MessageEventWorkerPool missing dependency: Redis/Conversations must be set")
	}
	if p.Stream == "" {
		p.Stream = realtime.MessageStream
	}
	if p.Group == "" {
		p.Group = realtime.MessageGroup
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 3
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *MessageEventWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			p.Logger.WithError(err).Warn("message worker: xreadgroup failed")
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range res {
			for _, entry := range stream.Messages {
				p.handleEntry(ctx, consumer, entry)
			}
		}
	}
}

func (p *MessageEventWorkerPool) handleEntry(ctx context.Context, consumer string, entry redis.XMessage) {
	// Always ack: a malformed entry would otherwise be redelivered forever.
	defer func() {
		_ = p.Redis.XAck(ctx, p.Stream, p.Group, entry.ID).Err()
	}()

	ev, err := eventFromEntry(entry)
	if err != nil {
		p.Logger.WithError(err).WithField("entry_id", entry.ID).Warn("message worker: dropping malformed entry")
		return
	}

	participants, err := p.Conversations.ParticipantIDs(ctx, ev.ConversationID)
	if err != nil {
		p.Logger.WithError(err).WithField("conversation_id", ev.ConversationID).Warn("message worker: participant lookup failed")
		return
	}

	payload, err := json.Marshal(map[string]any{
		"type":            "message",
		"conversation_id": ev.ConversationID,
		"message": map[string]any{
			"id":         ev.MessageID,
			"sender_id":  ev.SenderID,
			"content":    ev.Content,
			"kind":       ev.Kind,
			"created_at": ev.SentAt,
		},
	})
	if err != nil {
		return
	}

	for _, uid := range participants {
		if err := p.Redis.Publish(ctx, realtime.UserChannel(uid), payload).Err(); err != nil {
			p.Logger.WithError(err).WithFields(logrus.Fields{
				"consumer": consumer,
				"user_id":  uid,
			}).Warn("message worker: publish failed")
		}
	}
}

func eventFromEntry(entry redis.XMessage) (realtime.MessageEvent, error) {
	var ev realtime.MessageEvent

	str := func(key string) string {
		if v, ok := entry.Values[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
		return ""
	}

	ev.ConversationID = str("conversation_id")
	ev.MessageID = str("message_id")
	ev.SenderID = str("sender_id")
	ev.Content = str("content")
	ev.Kind = str("kind")

	if ev.ConversationID == "" || ev.MessageID == "" || ev.SenderID == "" {
		return ev, errors.New("missing required event fields")
	}

	if ts := str("sent_at"); ts != "" {
		at, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return ev, err
		}
		ev.SentAt = at
	}
	return ev, nil
}
