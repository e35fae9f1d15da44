package metrics

import "fmt"

const (
	// KeyPublished is the counter of successfully published posts.
	KeyPublished = "metrics:published"
	// KeyFailedPrefix prefixes per-stage failure counters.
	KeyFailedPrefix = "metrics:failed"
	// KeyRecentPosts is the capped list of recently published posts.
	KeyRecentPosts = "metrics:recent:posts"

	// MaxRecentPosts caps the recent list length.
	MaxRecentPosts = 50
	// CounterTTLDays is the TTL in days for counters.
	CounterTTLDays = 30
	// RecentTTLDays is the TTL in days for the recent list.
	RecentTTLDays = 7

	hoursPerDay = 24
)

// failedKey returns the failure counter key for a pipeline stage.
func failedKey(stage string) string {
	return fmt.Sprintf("%s:%s", KeyFailedPrefix, stage)
}
