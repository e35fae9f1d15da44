package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavor-emperor/publisher/internal/config"
	"github.com/flavor-emperor/publisher/internal/logger"
	"github.com/flavor-emperor/publisher/internal/models"
)

func newAppwriteUploader(t *testing.T, endpoint string) *AppwriteUploader {
	t.Helper()

	return NewAppwriteUploader(&config.AppwriteConfig{
		Endpoint:  endpoint,
		ProjectID: "proj-1",
		APIKey:    "key-1",
		BucketID:  "bucket-1",
	}, 5*time.Second, logger.NewNopLogger())
}

func TestAppwriteUploadWithoutCredentialsFailsAtPointOfUse(t *testing.T) {
	// Construction succeeds; the configuration error surfaces on Upload,
	// before any request is sent.
	uploader := NewAppwriteUploader(&config.AppwriteConfig{Endpoint: "https://cloud.appwrite.io/v1"}, time.Second, logger.NewNopLogger())

	_, err := uploader.Upload(context.Background(), "uploads/x.png", []byte("data"), "image/png")

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrConfiguration))
}

func TestAppwriteUploadReturnsViewURL(t *testing.T) {
	payload := []byte("raw image bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/storage/buckets/bucket-1/files", r.URL.Path)
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
		assert.Equal(t, "proj-1", r.Header.Get("X-Appwrite-Project"))
		assert.Equal(t, "key-1", r.Header.Get("X-Appwrite-Key"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, payload, body)

		w.Write([]byte(`{"$id":"file-42"}`))
	}))
	defer server.Close()

	uploader := newAppwriteUploader(t, server.URL+"/v1/")

	url, err := uploader.Upload(context.Background(), "uploads/x.png", payload, "image/png")

	require.NoError(t, err)
	assert.Equal(t, server.URL+"/v1/storage/buckets/bucket-1/files/file-42/view?project=proj-1", url)
}

func TestAppwriteUploadMissingFileID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	uploader := newAppwriteUploader(t, server.URL)

	_, err := uploader.Upload(context.Background(), "uploads/x.png", []byte("data"), "image/png")

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnexpectedShape))
}

func TestAppwriteUploadFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid key"}`))
	}))
	defer server.Close()

	uploader := newAppwriteUploader(t, server.URL)

	_, err := uploader.Upload(context.Background(), "uploads/x.png", []byte("data"), "image/png")

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUpstream))
}

func TestNewSelectsBackendFromConfig(t *testing.T) {
	r2cfg := config.StorageConfig{
		Backend: config.StorageBackendR2,
		R2:      config.R2Config{AccountID: "a", AccessKey: "k", SecretKey: "s", Bucket: "b"},
	}
	uploader, err := New(&r2cfg, time.Second, logger.NewNopLogger())
	require.NoError(t, err)
	assert.IsType(t, &R2Uploader{}, uploader)

	awCfg := config.StorageConfig{
		Backend:  config.StorageBackendAppwrite,
		Appwrite: config.AppwriteConfig{Endpoint: "https://cloud.appwrite.io/v1", ProjectID: "p", APIKey: "k", BucketID: "b"},
	}
	uploader, err = New(&awCfg, time.Second, logger.NewNopLogger())
	require.NoError(t, err)
	assert.IsType(t, &AppwriteUploader{}, uploader)

	_, err = New(&config.StorageConfig{Backend: "ftp"}, time.Second, logger.NewNopLogger())
	require.Error(t, err)
}
