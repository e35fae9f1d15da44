package metrics

import "context"

// Tracker records publish pipeline outcomes. Tracking is best-effort:
// implementations log failures but never fail a publish run.
type Tracker interface {
	// RecordPublished increments the published counter and prepends the
	// post to the recent list.
	RecordPublished(ctx context.Context, title, url string)

	// RecordFailure increments the failure counter for a pipeline stage.
	RecordFailure(ctx context.Context, stage string)

	// Stats returns the aggregated counters and the recent list.
	Stats(ctx context.Context) (*Stats, error)
}

// NopTracker discards all metrics. Used when Redis is not configured.
type NopTracker struct{}

func (NopTracker) RecordPublished(context.Context, string, string) {}

func (NopTracker) RecordFailure(context.Context, string) {}

func (NopTracker) Stats(context.Context) (*Stats, error) {
	return &Stats{FailuresByStage: map[string]int64{}, Recent: []RecentPost{}}, nil
}
