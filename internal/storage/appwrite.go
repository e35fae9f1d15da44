package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/flavor-emperor/publisher/internal/config"
	"github.com/flavor-emperor/publisher/internal/logger"
	"github.com/flavor-emperor/publisher/internal/models"
)

// AppwriteUploader posts raw bytes to an Appwrite storage bucket through
// its REST endpoint and derives the public view URL from the returned
// file id.
type AppwriteUploader struct {
	endpoint  string
	projectID string
	apiKey    string
	bucketID  string
	client    *http.Client
	logger    logger.Logger
}

// NewAppwriteUploader builds the REST uploader. Missing credentials are
// not an error at construction; Upload reports them at the point of use,
// so a process without this backend's credentials still starts and serves
// its other routes.
func NewAppwriteUploader(cfg *config.AppwriteConfig, timeout time.Duration, log logger.Logger) *AppwriteUploader {
	return &AppwriteUploader{
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		projectID: cfg.ProjectID,
		apiKey:    cfg.APIKey,
		bucketID:  cfg.BucketID,
		client:    &http.Client{Timeout: timeout},
		logger:    log,
	}
}

// configured reports whether all credentials are present. No request is
// ever attempted without them.
func (u *AppwriteUploader) configured() error {
	if u.endpoint == "" || u.projectID == "" || u.apiKey == "" || u.bucketID == "" {
		return fmt.Errorf("%w: appwrite endpoint, project id, API key and bucket id", models.ErrConfiguration)
	}
	return nil
}

type appwriteFileResponse struct {
	ID string `json:"$id"`
}

// Upload stores the bytes and returns the bucket's public view URL. The
// URL is constructed from the endpoint, bucket and returned file id; the
// object is not read back.
func (u *AppwriteUploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := u.configured(); err != nil {
		return "", err
	}

	uploadURL := fmt.Sprintf("%s/storage/buckets/%s/files", u.endpoint, u.bucketID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Appwrite-Project", u.projectID)
	req.Header.Set("X-Appwrite-Key", u.apiKey)
	req.Header.Set("X-Appwrite-File-Name", key)

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: appwrite upload: %v", models.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read upload response: %v", models.ErrUpstream, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: appwrite upload failed: HTTP %d: %s", models.ErrUpstream, resp.StatusCode, string(body))
	}

	var file appwriteFileResponse
	if err := json.Unmarshal(body, &file); err != nil {
		return "", fmt.Errorf("%w: decode upload response: %v", models.ErrUpstream, err)
	}
	if file.ID == "" {
		return "", fmt.Errorf("%w: upload response has no file id", models.ErrUnexpectedShape)
	}

	viewURL := fmt.Sprintf("%s/storage/buckets/%s/files/%s/view?project=%s",
		u.endpoint, u.bucketID, file.ID, u.projectID)

	u.logger.Info("Image uploaded to Appwrite",
		logger.String("file_id", file.ID),
		logger.Int("size", len(data)),
		logger.String("url", viewURL),
	)
	return viewURL, nil
}
