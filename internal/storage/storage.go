// Package storage uploads image bytes to an object-storage bucket and
// returns a deterministic public URL. Two backends exist; the choice is
// made by configuration, never by runtime detection.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/flavor-emperor/publisher/internal/config"
	"github.com/flavor-emperor/publisher/internal/logger"
)

// Uploader writes raw bytes under a key and returns the public URL of the
// stored object. No read-back verification is performed.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// New selects the uploader implementation named by the configuration.
// Backend credentials are checked per upload, not here; only an unknown
// backend name is a construction error.
func New(cfg *config.StorageConfig, timeout time.Duration, log logger.Logger) (Uploader, error) {
	switch cfg.Backend {
	case config.StorageBackendR2:
		return NewR2Uploader(&cfg.R2, timeout, log), nil
	case config.StorageBackendAppwrite:
		return NewAppwriteUploader(&cfg.Appwrite, timeout, log), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
