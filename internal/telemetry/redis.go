package telemetry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/j-veylop/uranus/internal/models"
)

// RedisSink publishes every stored record as JSON on a Pub/Sub channel so
// other dashboards can follow live traffic.
type RedisSink struct {
	client  *redis.Client
	channel string
}

// NewRedisSink parses url and creates a sink publishing to channel.
// No connection is made until the first publish or Ping.
func NewRedisSink(url, channel string) (*RedisSink, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	return &RedisSink{client: redis.NewClient(opts), channel: channel}, nil
}

// Ping verifies the connection.
func (r *RedisSink) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

// Name implements Sink.
func (r *RedisSink) Name() string { return "redis" }

// Emit implements Sink.
func (r *RedisSink) Emit(ctx context.Context, rec models.TelemetryRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	return r.client.Publish(ctx, r.channel, payload).Err()
}

// Close releases the connection pool.
func (r *RedisSink) Close() error {
	return r.client.Close()
}
