package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewClient parses a redis:// URL and verifies the server answers.
func NewClient(ctx context.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Connected to Redis for cue bus", "addr", opt.Addr)
	return rdb, nil
}

// WaitForConnection retries NewClient until it succeeds, attempts run out,
// or ctx is done.
func WaitForConnection(ctx context.Context, redisURL string, logger *slog.Logger, attempts int, delay time.Duration) (*redis.Client, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		rdb, err := NewClient(ctx, redisURL, logger)
		if err == nil {
			return rdb, nil
		}
		lastErr = err
		logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("redis did not become available after %d attempts: %w", attempts, lastErr)
}
