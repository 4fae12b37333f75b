package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// StreamName carries every dashboard event.
const StreamName = "courtvision.events"

// Event types published to the stream.
const (
	EventReportRefreshed = "report.refreshed"
	EventCacheCleared    = "cache.cleared"
)

// RedisStreamPublisher publishes dashboard events to a Redis stream. The
// WebSocket layer consumes them to push refresh notices to connected pages.
type RedisStreamPublisher struct {
	client *redis.Client
}

// NewRedisStreamPublisher creates a publisher over an existing client.
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
	}
}

// Publish appends a typed JSON event to the stream.
func (p *RedisStreamPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamName,
		MaxLen: 1000,
		Approx: true,
		Values: map[string]interface{}{
			"type":      eventType,
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}

// Consume blocks reading events after lastID, invoking handle for each.
// It returns when ctx is cancelled.
func (p *RedisStreamPublisher) Consume(ctx context.Context, lastID string, handle func(eventType string, data []byte)) error {
	if lastID == "" {
		lastID = "$"
	}

	for {
		streams, err := p.client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{StreamName, lastID},
			Block:   5 * time.Second,
			Count:   100,
		}).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Transient read errors should not kill the consumer loop.
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				eventType, _ := msg.Values["type"].(string)
				data, _ := msg.Values["data"].(string)
				handle(eventType, []byte(data))
			}
		}
	}
}
