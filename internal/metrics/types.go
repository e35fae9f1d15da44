package metrics

import "time"

// Pipeline stages tracked for failure counters.
const (
	StageIdea    = "idea"
	StageArticle = "article"
	StageImage   = "image"
	StageDraft   = "draft"
	StagePublish = "publish"
	StagePersist = "persist"
)

// allStages is the fixed set aggregated by Stats.
var allStages = []string{StageIdea, StageArticle, StageImage, StageDraft, StagePublish, StagePersist}

// RecentPost is one entry of the recently published list.
type RecentPost struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// Stats is the aggregated view served by the stats endpoint.
type Stats struct {
	TotalPublished  int64            `json:"total_published"`
	TotalFailed     int64            `json:"total_failed"`
	FailuresByStage map[string]int64 `json:"failures_by_stage"`
	Recent          []RecentPost     `json:"recent"`
}
