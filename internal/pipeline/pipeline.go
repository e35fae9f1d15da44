// Package pipeline sequences one publish run: idea, article, image, tags,
// persistence insert, draft creation, publish, persistence update.
package pipeline

import (
	"context"
	"fmt"

	"github.com/flavor-emperor/publisher/internal/hashnode"
	"github.com/flavor-emperor/publisher/internal/images"
	"github.com/flavor-emperor/publisher/internal/logger"
	"github.com/flavor-emperor/publisher/internal/metrics"
	"github.com/flavor-emperor/publisher/internal/models"
)

// Deps are the collaborators of one Pipeline.
type Deps struct {
	Content          ContentGenerator
	Images           ImageResolver
	Platform         Platform
	Recorder         Recorder
	Metrics          metrics.Tracker
	Logger           logger.Logger
	FallbackImageURL string
}

// Pipeline runs the publish flow strictly sequentially. Stages are never
// retried; any failure aborts the invocation, except the image and tag
// stages which degrade (fallback URL, empty tag list) instead. There is
// no rollback: a draft created before a failed publish remains on the
// platform as an orphaned draft, and the pre-publish persistence row
// remains without a post URL.
type Pipeline struct {
	content          ContentGenerator
	images           ImageResolver
	platform         Platform
	recorder         Recorder
	metrics          metrics.Tracker
	logger           logger.Logger
	fallbackImageURL string
}

// New creates a Pipeline from its dependencies.
func New(deps Deps) *Pipeline {
	tracker := deps.Metrics
	if tracker == nil {
		tracker = metrics.NopTracker{}
	}

	return &Pipeline{
		content:          deps.Content,
		images:           deps.Images,
		platform:         deps.Platform,
		recorder:         deps.Recorder,
		metrics:          tracker,
		logger:           deps.Logger,
		fallbackImageURL: deps.FallbackImageURL,
	}
}

// Run executes one publish attempt and returns the published post. The
// image source is optional; with a nil source the fallback URL is used.
// Runs are independent and deliberately not idempotent: two runs with an
// identical idea produce two separate drafts and posts.
func (p *Pipeline) Run(ctx context.Context, src images.Source) (*models.Post, error) {
	idea, err := p.content.Idea(ctx)
	if err != nil {
		p.metrics.RecordFailure(ctx, metrics.StageIdea)
		return nil, fmt.Errorf("idea generation failed: %w", err)
	}
	p.logger.Info("Pipeline state", logger.String("state", "idea_ready"), logger.String("idea", idea))

	article, err := p.content.Article(ctx, idea)
	if err != nil {
		p.metrics.RecordFailure(ctx, metrics.StageArticle)
		return nil, fmt.Errorf("article generation failed: %w", err)
	}
	p.logger.Info("Pipeline state", logger.String("state", "article_ready"), logger.Int("length", len(article)))

	imageURL := p.resolveImage(ctx, src, idea)
	p.logger.Info("Pipeline state", logger.String("state", "image_resolved"), logger.String("image_url", imageURL))

	tags := p.resolveTags(ctx)
	p.logger.Info("Pipeline state", logger.String("state", "tags_resolved"), logger.Int("tag_count", len(tags)))

	// Credentials are verified before any platform write; a misconfigured
	// process aborts here without a network call.
	if err := p.platform.Configured(); err != nil {
		p.metrics.RecordFailure(ctx, metrics.StageDraft)
		return nil, err
	}

	record, err := p.recorder.CreateRecord(ctx, idea, imageURL)
	if err != nil {
		p.metrics.RecordFailure(ctx, metrics.StagePersist)
		return nil, fmt.Errorf("record publish attempt: %w", err)
	}

	// The resolved image is both the cover and the banner of the draft.
	draft, err := p.platform.CreateDraft(ctx, hashnode.DraftRequest{
		Title:           idea,
		ContentMarkdown: article,
		Tags:            tags,
		CoverImageURL:   imageURL,
		BannerImageURL:  imageURL,
	})
	if err != nil {
		p.metrics.RecordFailure(ctx, metrics.StageDraft)
		return nil, fmt.Errorf("draft creation failed: %w", err)
	}
	p.logger.Info("Pipeline state", logger.String("state", "draft_created"), logger.String("draft_id", draft.ID))

	post, err := p.platform.PublishDraft(ctx, draft.ID)
	if err != nil {
		p.metrics.RecordFailure(ctx, metrics.StagePublish)
		return nil, fmt.Errorf("draft publish failed: %w", err)
	}
	p.logger.Info("Pipeline state", logger.String("state", "published"), logger.String("url", post.URL))

	// The post is already live; a write-back failure is logged rather
	// than turned into a failed run.
	if err := p.recorder.MarkPublished(ctx, record.ID, post.URL); err != nil {
		p.metrics.RecordFailure(ctx, metrics.StagePersist)
		p.logger.Error("Failed to record published post URL",
			logger.String("record_id", record.ID.String()),
			logger.String("post_url", post.URL),
			logger.Error(err),
		)
	}

	p.metrics.RecordPublished(ctx, post.Title, post.URL)
	return post, nil
}

// resolveImage resolves the source to a URL, substituting the fixed
// fallback URL on any failure. Image resolution never aborts a run. A
// nil source is the normal scheduled-run path and uses the fallback
// directly.
func (p *Pipeline) resolveImage(ctx context.Context, src images.Source, title string) string {
	if src == nil {
		return p.fallbackImageURL
	}

	url, err := p.images.Resolve(ctx, src, title)
	if err != nil {
		p.metrics.RecordFailure(ctx, metrics.StageImage)
		p.logger.Warn("Image resolution failed, using fallback URL", logger.Error(err))
		return p.fallbackImageURL
	}
	return url
}
