package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/flavor-emperor/publisher/internal/models"
)

// PostRepository records publish runs. A row is inserted before the draft
// is created and updated with the post URL after a successful publish.
// Updates match on the surrogate id returned by the insert; titles are
// not unique and are never used for matching.
type PostRepository struct {
	db *sqlx.DB
}

// NewPostRepository creates a new repository instance
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

// CreateRecord inserts the pre-publish trace of a run: title and resolved
// image URL. The returned record carries the id to use for the later
// post-publish update.
func (r *PostRepository) CreateRecord(ctx context.Context, title, imageURL string) (*models.PostRecord, error) {
	record := &models.PostRecord{
		ID:        uuid.New(),
		Title:     title,
		ImageURL:  imageURL,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO post_records (id, title, image_url, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, image_url, post_url, created_at, published_at
	`

	err := r.db.QueryRowxContext(
		ctx, query,
		record.ID, record.Title, record.ImageURL, record.CreatedAt,
	).StructScan(record)
	if err != nil {
		return nil, fmt.Errorf("failed to create post record: %w", err)
	}

	return record, nil
}

// MarkPublished stores the published post URL on the record created
// before the publish attempt.
func (r *PostRepository) MarkPublished(ctx context.Context, id uuid.UUID, postURL string) error {
	query := `
		UPDATE post_records
		SET post_url = $2, published_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, postURL, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark record published: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Ping verifies the database connection.
func (r *PostRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
