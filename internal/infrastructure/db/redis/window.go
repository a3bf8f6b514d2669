package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// WindowCounter is a fixed-window request counter shared across server
// instances. Key format: suggest:<caller_key>:<window_index>
type WindowCounter struct {
	client *redis.Client
	window time.Duration
}

// NewWindowCounter creates a WindowCounter with the given window size.
func NewWindowCounter(client *redis.Client, window time.Duration) *WindowCounter {
	if window <= 0 {
		window = time.Minute
	}
	return &WindowCounter{client: client, window: window}
}

// Incr bumps the caller's count for the current window and returns the new
// value. The key expires with the window so stale windows clean themselves up.
func (w *WindowCounter) Incr(ctx context.Context, callerKey string) (int64, error) {
	key := w.key(callerKey, time.Now())

	pipe := w.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, w.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("window incr: %w", err)
	}
	return incr.Val(), nil
}

func (w *WindowCounter) key(callerKey string, now time.Time) string {
	return fmt.Sprintf("suggest:%s:%d", callerKey, now.Unix()/int64(w.window.Seconds()))
}
