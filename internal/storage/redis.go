package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/resolution-engine/pkg/resolution"
)

// RedisLogStore keeps each game's resolutions in a capped Redis list.
type RedisLogStore struct {
	client     *redis.Client
	logger     *slog.Logger
	ttl        time.Duration
	maxEntries int64
}

// Ensure RedisLogStore implements LogStore interface
var _ LogStore = (*RedisLogStore)(nil)

// NewRedisLogStore creates a store. A zero ttl keeps logs forever and a
// zero maxEntries keeps every entry.
func NewRedisLogStore(redisURL string, ttl time.Duration, maxEntries int64, logger *slog.Logger) *RedisLogStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	return &RedisLogStore{
		client:     rdb,
		logger:     logger,
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

func logKey(gameID uuid.UUID) string {
	return "resolutions:" + gameID.String()
}

func linesKey(gameID uuid.UUID) string {
	return "resolution_lines:" + gameID.String()
}

// Health and lifecycle methods

func (r *RedisLogStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisLogStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisLogStore) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Client exposes the underlying connection, e.g. for Pub/Sub.
func (r *RedisLogStore) Client() *redis.Client {
	return r.client
}

// Log operations

func (r *RedisLogStore) Append(ctx context.Context, gameID uuid.UUID, res resolution.Resolution) error {
	data, err := json.Marshal(res)
	if err != nil {
		r.logger.Error("Failed to marshal resolution", "game_id", gameID, "error", err)
		return fmt.Errorf("failed to marshal resolution: %w", err)
	}
	if err := r.push(ctx, logKey(gameID), data); err != nil {
		r.logger.Error("Failed to append resolution", "game_id", gameID, "error", err)
		return fmt.Errorf("failed to append resolution: %w", err)
	}
	return nil
}

func (r *RedisLogStore) AppendLines(ctx context.Context, gameID uuid.UUID, lines []string) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to marshal log lines: %w", err)
	}
	if err := r.push(ctx, linesKey(gameID), data); err != nil {
		r.logger.Error("Failed to append log lines", "game_id", gameID, "error", err)
		return fmt.Errorf("failed to append log lines: %w", err)
	}
	return nil
}

// push appends one entry, trims the list to the newest maxEntries and
// refreshes the expiry in a single round trip.
func (r *RedisLogStore) push(ctx context.Context, key string, data []byte) error {
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	if r.maxEntries > 0 {
		pipe.LTrim(ctx, key, -r.maxEntries, -1)
	}
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisLogStore) List(ctx context.Context, gameID uuid.UUID) ([]resolution.Resolution, error) {
	raw, err := r.client.LRange(ctx, logKey(gameID), 0, -1).Result()
	if err != nil {
		r.logger.Error("Failed to list resolutions", "game_id", gameID, "error", err)
		return nil, fmt.Errorf("failed to list resolutions: %w", err)
	}

	out := make([]resolution.Resolution, 0, len(raw))
	for i, item := range raw {
		var res resolution.Resolution
		if err := json.Unmarshal([]byte(item), &res); err != nil {
			return nil, fmt.Errorf("failed to unmarshal resolution %d: %w", i, err)
		}
		out = append(out, res)
	}
	return out, nil
}

// ListLines returns the text-only entries appended with AppendLines.
func (r *RedisLogStore) ListLines(ctx context.Context, gameID uuid.UUID) ([][]string, error) {
	raw, err := r.client.LRange(ctx, linesKey(gameID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list log lines: %w", err)
	}
	out := make([][]string, 0, len(raw))
	for i, item := range raw {
		var lines []string
		if err := json.Unmarshal([]byte(item), &lines); err != nil {
			return nil, fmt.Errorf("failed to unmarshal log lines %d: %w", i, err)
		}
		out = append(out, lines)
	}
	return out, nil
}

func (r *RedisLogStore) Clear(ctx context.Context, gameID uuid.UUID) error {
	if err := r.client.Del(ctx, logKey(gameID), linesKey(gameID)).Err(); err != nil {
		r.logger.Error("Failed to clear resolution log", "game_id", gameID, "error", err)
		return fmt.Errorf("failed to clear resolution log: %w", err)
	}
	return nil
}
