package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/flavor-emperor/publisher/internal/hashnode"
	"github.com/flavor-emperor/publisher/internal/images"
	"github.com/flavor-emperor/publisher/internal/models"
)

// ContentGenerator produces the post idea and the article body.
type ContentGenerator interface {
	Idea(ctx context.Context) (string, error)
	Article(ctx context.Context, idea string) (string, error)
}

// ImageResolver resolves an image source to a public URL.
type ImageResolver interface {
	Resolve(ctx context.Context, src images.Source, title string) (string, error)
}

// Platform is the publishing platform used for tag lookup and the
// draft/publish mutations.
type Platform interface {
	// Configured reports whether draft creation credentials are present,
	// without a network call.
	Configured() error
	AvailableTags(ctx context.Context) ([]models.Tag, error)
	CreateDraft(ctx context.Context, req hashnode.DraftRequest) (*models.Draft, error)
	PublishDraft(ctx context.Context, draftID string) (*models.Post, error)
}

// Recorder persists the trace of a publish run.
type Recorder interface {
	CreateRecord(ctx context.Context, title, imageURL string) (*models.PostRecord, error)
	MarkPublished(ctx context.Context, id uuid.UUID, postURL string) error
}
