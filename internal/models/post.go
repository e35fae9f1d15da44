package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Tag is reference data from the publishing platform's catalog. It is
// fetched fresh on every publish run and never cached.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TagRef is the id-only form embedded in a draft creation request.
type TagRef struct {
	ID string `json:"id"`
}

// Draft is an unpublished, editable post on the publishing platform.
// Only its ID is needed to transition it to a Post.
type Draft struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Post is the published, publicly addressable result of a Draft.
type Post struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	URL   string `json:"url"`
}

// PostRecord is the persisted trace of a publish run. Title and image URL
// are written before the draft is created; the post URL is filled in after
// a successful publish, matched by the surrogate id returned at insert
// time. Titles are not unique, so they are never used for matching.
type PostRecord struct {
	ID          uuid.UUID      `db:"id"           json:"id"`
	Title       string         `db:"title"        json:"title"`
	ImageURL    string         `db:"image_url"    json:"image_url"`
	PostURL     sql.NullString `db:"post_url"     json:"post_url"`
	CreatedAt   time.Time      `db:"created_at"   json:"created_at"`
	PublishedAt sql.NullTime   `db:"published_at" json:"published_at"`
}
