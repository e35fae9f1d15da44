package metrics_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavor-emperor/publisher/internal/logger"
	"github.com/flavor-emperor/publisher/internal/metrics"
)

func newTestTracker(t *testing.T) (*metrics.RedisTracker, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return metrics.NewRedisTracker(client, logger.NewNopLogger()), server
}

func TestRecordPublished(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	tracker.RecordPublished(ctx, "Lemon Bars", "https://blog.example/lemon-bars")
	tracker.RecordPublished(ctx, "Molten Lava Cakes", "https://blog.example/lava-cakes")

	stats, err := tracker.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalPublished)
	require.Len(t, stats.Recent, 2)
	// Most recent first.
	assert.Equal(t, "Molten Lava Cakes", stats.Recent[0].Title)
	assert.Equal(t, "https://blog.example/lava-cakes", stats.Recent[0].URL)
}

func TestRecordFailure(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	tracker.RecordFailure(ctx, metrics.StageDraft)
	tracker.RecordFailure(ctx, metrics.StageDraft)
	tracker.RecordFailure(ctx, metrics.StagePublish)

	stats, err := tracker.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalFailed)
	assert.Equal(t, int64(2), stats.FailuresByStage[metrics.StageDraft])
	assert.Equal(t, int64(1), stats.FailuresByStage[metrics.StagePublish])
	assert.NotContains(t, stats.FailuresByStage, metrics.StageIdea)
}

func TestStatsEmpty(t *testing.T) {
	tracker, _ := newTestTracker(t)

	stats, err := tracker.Stats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalPublished)
	assert.Zero(t, stats.TotalFailed)
	assert.Empty(t, stats.Recent)
}

func TestRecentListIsCapped(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	for range metrics.MaxRecentPosts + 10 {
		tracker.RecordPublished(ctx, "Recipe", "https://blog.example/recipe")
	}

	stats, err := tracker.Stats(ctx)
	require.NoError(t, err)

	assert.Len(t, stats.Recent, metrics.MaxRecentPosts)
}

func TestNopTracker(t *testing.T) {
	tracker := metrics.NopTracker{}
	ctx := context.Background()

	tracker.RecordPublished(ctx, "Lemon Bars", "https://blog.example/lemon-bars")
	tracker.RecordFailure(ctx, metrics.StageDraft)

	stats, err := tracker.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalPublished)
}
