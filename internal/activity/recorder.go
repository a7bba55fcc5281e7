// Package activity keeps a bounded window of recent user actions in a
// Redis list. The log is non-critical: callers log append failures and
// move on.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adrianoneco/userdir/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	logKey = "activity_logs"

	// MaxEntries is the retained window; older entries are trimmed away.
	MaxEntries = 1000

	// DefaultRecentLimit is the read size when the caller does not ask
	// for a specific one.
	DefaultRecentLimit = 50
)

// Recorder appends activity entries and reads the recent window.
type Recorder interface {
	Record(ctx context.Context, entry domain.ActivityEntry) error
	Recent(ctx context.Context, limit int) ([]domain.ActivityEntry, error)
}

type RedisRecorder struct {
	client *redis.Client
}

func NewRedis(ctx context.Context, addr, password string, db int) (*RedisRecorder, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisRecorder{client: client}, nil
}

func (r *RedisRecorder) Record(ctx context.Context, entry domain.ActivityEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal activity entry: %w", err)
	}

	if err := r.client.LPush(ctx, logKey, raw).Err(); err != nil {
		return fmt.Errorf("push activity entry: %w", err)
	}
	if err := r.client.LTrim(ctx, logKey, 0, MaxEntries-1).Err(); err != nil {
		return fmt.Errorf("trim activity log: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. Entries that no
// longer unmarshal are skipped rather than failing the whole read.
func (r *RedisRecorder) Recent(ctx context.Context, limit int) ([]domain.ActivityEntry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxEntries {
		limit = MaxEntries
	}

	raws, err := r.client.LRange(ctx, logKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read activity log: %w", err)
	}

	entries := make([]domain.ActivityEntry, 0, len(raws))
	for _, raw := range raws {
		var entry domain.ActivityEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Ping satisfies the health checker's dependency probe.
func (r *RedisRecorder) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRecorder) Close() error {
	return r.client.Close()
}
