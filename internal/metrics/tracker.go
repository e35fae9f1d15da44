// Package metrics tracks publish outcomes in Redis.
package metrics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flavor-emperor/publisher/internal/logger"
)

// RedisTracker implements Tracker using Redis counters and a capped list.
type RedisTracker struct {
	client redis.UniversalClient
	logger logger.Logger
}

// NewRedisTracker creates a Redis-backed tracker.
func NewRedisTracker(client redis.UniversalClient, log logger.Logger) *RedisTracker {
	return &RedisTracker{client: client, logger: log}
}

// RecordPublished increments the published counter and prepends the post
// to the recent list, trimming it to MaxRecentPosts.
func (t *RedisTracker) RecordPublished(ctx context.Context, title, url string) {
	entry, err := json.Marshal(RecentPost{
		Title:       title,
		URL:         url,
		PublishedAt: time.Now().UTC(),
	})
	if err != nil {
		t.logger.Warn("Failed to marshal recent post entry", logger.Error(err))
		return
	}

	pipe := t.client.Pipeline()
	pipe.Incr(ctx, KeyPublished)
	pipe.Expire(ctx, KeyPublished, CounterTTLDays*hoursPerDay*time.Hour)
	pipe.LPush(ctx, KeyRecentPosts, entry)
	pipe.LTrim(ctx, KeyRecentPosts, 0, MaxRecentPosts-1)
	pipe.Expire(ctx, KeyRecentPosts, RecentTTLDays*hoursPerDay*time.Hour)

	if _, err := pipe.Exec(ctx); err != nil {
		t.logger.Warn("Failed to record published post",
			logger.String("title", title),
			logger.Error(err),
		)
	}
}

// RecordFailure increments the failure counter for a pipeline stage.
func (t *RedisTracker) RecordFailure(ctx context.Context, stage string) {
	key := failedKey(stage)

	pipe := t.client.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, CounterTTLDays*hoursPerDay*time.Hour)

	if _, err := pipe.Exec(ctx); err != nil {
		t.logger.Warn("Failed to record pipeline failure",
			logger.String("stage", stage),
			logger.String("redis_key", key),
			logger.Error(err),
		)
	}
}

// Stats aggregates the published counter, per-stage failure counters and
// the recent list.
func (t *RedisTracker) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		FailuresByStage: make(map[string]int64, len(allStages)),
		Recent:          []RecentPost{},
	}

	published, err := t.client.Get(ctx, KeyPublished).Int64()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	stats.TotalPublished = published

	for _, stage := range allStages {
		count, getErr := t.client.Get(ctx, failedKey(stage)).Int64()
		if getErr != nil && getErr != redis.Nil {
			return nil, getErr
		}
		if count > 0 {
			stats.FailuresByStage[stage] = count
		}
		stats.TotalFailed += count
	}

	entries, err := t.client.LRange(ctx, KeyRecentPosts, 0, MaxRecentPosts-1).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	for _, raw := range entries {
		var post RecentPost
		if unmarshalErr := json.Unmarshal([]byte(raw), &post); unmarshalErr != nil {
			t.logger.Warn("Skipping malformed recent post entry", logger.Error(unmarshalErr))
			continue
		}
		stats.Recent = append(stats.Recent, post)
	}

	return stats, nil
}
