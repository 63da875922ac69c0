package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Key is both the sorted set holding recent events and the pub/sub
	// channel they are announced on.
	Key = "agents:events"

	eventTTL  = 24 * time.Hour
	maxEvents = 1000
)

// RedisFeed stores events in a Redis sorted set scored by timestamp and
// publishes each one on a channel for live subscribers.
type RedisFeed struct {
	client *redis.Client
}

// NewRedisFeed connects to Redis and verifies the connection.
func NewRedisFeed(ctx context.Context, redisURL string) (*RedisFeed, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisFeed{client: client}, nil
}

// NewRedisFeedFromClient wraps an existing client.
func NewRedisFeedFromClient(client *redis.Client) *RedisFeed {
	return &RedisFeed{client: client}
}

// Client returns the underlying Redis client.
func (f *RedisFeed) Client() *redis.Client {
	return f.client
}

// Close closes the Redis connection.
func (f *RedisFeed) Close() error {
	return f.client.Close()
}

// Ping checks the Redis connection.
func (f *RedisFeed) Ping(ctx context.Context) error {
	return f.client.Ping(ctx).Err()
}

// Publish records ev and announces it on the channel.
func (f *RedisFeed) Publish(ctx context.Context, ev ChangeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pipe := f.client.TxPipeline()
	pipe.ZAdd(ctx, Key, redis.Z{
		Score:  float64(ev.Timestamp),
		Member: string(data),
	})
	// Keep only the newest maxEvents members.
	pipe.ZRemRangeByRank(ctx, Key, 0, -maxEvents-1)
	pipe.Expire(ctx, Key, eventTTL)
	pipe.Publish(ctx, Key, string(data))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (f *RedisFeed) Recent(ctx context.Context, limit int) ([]ChangeEvent, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	results, err := f.client.ZRevRange(ctx, Key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}

	out := make([]ChangeEvent, 0, len(results))
	for _, data := range results {
		var ev ChangeEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

// Subscribe returns a subscription to the live event channel.
func (f *RedisFeed) Subscribe(ctx context.Context) *redis.PubSub {
	return f.client.Subscribe(ctx, Key)
}
