// Package images resolves an image source into a public URL, uploading
// raw bytes to object storage when needed.
package images

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/flavor-emperor/publisher/internal/logger"
	"github.com/flavor-emperor/publisher/internal/models"
	"github.com/flavor-emperor/publisher/internal/storage"
)

const maxSlugLen = 40

// Resolver turns an image Source into a public URL. Resolution failures
// are reported to the caller, which decides whether to substitute a
// fallback URL; the resolver itself never falls back.
type Resolver struct {
	uploader storage.Uploader
	logger   logger.Logger

	// now is stubbed in tests to make object keys reproducible.
	now func() time.Time
}

// NewResolver creates a resolver backed by the given uploader.
func NewResolver(uploader storage.Uploader, log logger.Logger) *Resolver {
	return &Resolver{
		uploader: uploader,
		logger:   log,
		now:      time.Now,
	}
}

// Resolve returns the public URL for the given source. A direct URL is
// returned unchanged; raw bytes are uploaded under a key derived from the
// title and the current timestamp. The object is created as a side effect
// and never retained locally.
func (r *Resolver) Resolve(ctx context.Context, src Source, title string) (string, error) {
	switch s := src.(type) {
	case URLSource:
		if s.URL == "" {
			return "", fmt.Errorf("%w: image URL is empty", models.ErrInvalidInput)
		}
		return s.URL, nil

	case BytesSource:
		if len(s.Data) == 0 {
			return "", fmt.Errorf("%w: image payload is empty", models.ErrInvalidInput)
		}

		key := r.objectKey(title, s.MIME)
		url, err := r.uploader.Upload(ctx, key, s.Data, contentType(s.MIME))
		if err != nil {
			return "", fmt.Errorf("upload image: %w", err)
		}
		return url, nil

	default:
		return "", fmt.Errorf("%w: no image source supplied", models.ErrInvalidInput)
	}
}

// objectKey builds "uploads/<slug>_<unix>.<ext>" from the post title and
// the current time.
func (r *Resolver) objectKey(title, mime string) string {
	return fmt.Sprintf("uploads/%s_%d%s", slugify(title), r.now().Unix(), extension(mime))
}

// slugify reduces a title to an underscore-separated token safe for use
// in an object key.
func slugify(title string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, c := range title {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteRune(c)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
		if b.Len() >= maxSlugLen {
			break
		}
	}

	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		return "image"
	}
	return slug
}

func extension(mime string) string {
	switch mime {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}

func contentType(mime string) string {
	if mime == "" {
		return "image/png"
	}
	return mime
}
