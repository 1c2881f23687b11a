// Package activity records catalog changes so recent edits can be listed.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Action string

const (
	ActionCreated       Action = "created"
	ActionUpdated       Action = "updated"
	ActionDeleted       Action = "deleted"
	ActionImageReplaced Action = "image_replaced"
)

// DefaultKey is the Redis list holding the entries.
const DefaultKey = "catalog:activity"

type Entry struct {
	Action      Action    `json:"action"`
	ProductID   int       `json:"product_id"`
	ProductName string    `json:"product_name"`
	Actor       string    `json:"actor"`
	Time        time.Time `json:"time"`
}

// Log stores activity entries and returns the most recent first.
type Log interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int64) ([]Entry, error)
}

// listStore is the subset of the Redis client the log needs.
type listStore interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

// RedisLog keeps entries in a capped Redis list.
type RedisLog struct {
	rdb    listStore
	key    string
	maxLen int64
}

// NewRedisLog keeps at most maxLen entries under key; maxLen <= 0 disables trimming.
func NewRedisLog(rdb listStore, key string, maxLen int64) *RedisLog {
	if key == "" {
		key = DefaultKey
	}
	return &RedisLog{rdb: rdb, key: key, maxLen: maxLen}
}

func (l *RedisLog) Record(ctx context.Context, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}
	if err := l.rdb.RPush(ctx, l.key, data).Err(); err != nil {
		return fmt.Errorf("push activity: %w", err)
	}
	if l.maxLen > 0 {
		if err := l.rdb.LTrim(ctx, l.key, -l.maxLen, -1).Err(); err != nil {
			return fmt.Errorf("trim activity: %w", err)
		}
	}
	return nil
}

func (l *RedisLog) Recent(ctx context.Context, limit int64) ([]Entry, error) {
	if limit <= 0 {
		return []Entry{}, nil
	}
	raw, err := l.rdb.LRange(ctx, l.key, -limit, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read activity: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var e Entry
		if err := json.Unmarshal([]byte(raw[i]), &e); err != nil {
			zap.L().Warn("skipping undecodable activity entry", zap.String("key", l.key), zap.Error(err))
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// MemoryLog is a process-local Log, used when Redis is disabled and in tests.
type MemoryLog struct {
	mu      sync.Mutex
	entries []Entry
	maxLen  int
}

func NewMemoryLog(maxLen int) *MemoryLog {
	return &MemoryLog{maxLen: maxLen}
}

func (l *MemoryLog) Record(_ context.Context, e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, e)
	if l.maxLen > 0 && len(l.entries) > l.maxLen {
		l.entries = l.entries[len(l.entries)-l.maxLen:]
	}
	return nil
}

func (l *MemoryLog) Recent(_ context.Context, limit int64) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := []Entry{}
	for i := len(l.entries) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		out = append(out, l.entries[i])
	}
	return out, nil
}

func (l *MemoryLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
