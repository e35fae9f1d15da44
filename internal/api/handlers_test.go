package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavor-emperor/publisher/internal/api"
	"github.com/flavor-emperor/publisher/internal/images"
	"github.com/flavor-emperor/publisher/internal/logger"
	"github.com/flavor-emperor/publisher/internal/metrics"
	"github.com/flavor-emperor/publisher/internal/models"
)

type fakeRunner struct {
	post *models.Post
	err  error
}

func (f *fakeRunner) Run(context.Context, images.Source) (*models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.post, nil
}

type fakeResolver struct {
	url       string
	err       error
	lastSrc   images.Source
	lastTitle string
}

func (f *fakeResolver) Resolve(_ context.Context, src images.Source, title string) (string, error) {
	f.lastSrc = src
	f.lastTitle = title
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakePinger struct{ err error }

func (f *fakePinger) Ping(context.Context) error { return f.err }

func newTestEngine(runner *fakeRunner, resolver *fakeResolver, db api.Pinger) http.Handler {
	router := api.NewRouter(runner, resolver, metrics.NopTracker{}, db, time.Minute, logger.NewNopLogger(), "test")
	return router.Engine(false)
}

func TestPublishSuccess(t *testing.T) {
	runner := &fakeRunner{post: &models.Post{
		ID:    "post-1",
		Title: "Lemon Bars",
		Slug:  "lemon-bars",
		URL:   "https://blog.example/lemon-bars",
	}}
	engine := newTestEngine(runner, &fakeResolver{}, nil)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/publish", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message string      `json:"message"`
		Data    models.Post `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Post published successfully", body.Message)
	assert.Equal(t, "https://blog.example/lemon-bars", body.Data.URL)
}

func TestPublishFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("draft publish failed: upstream error")}
	engine := newTestEngine(runner, &fakeResolver{}, nil)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/publish", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "draft publish failed")
}

func TestPublishMissingCredentials(t *testing.T) {
	runner := &fakeRunner{err: fmt.Errorf("%w: hashnode personal access token (HASHNODE_PAT)", models.ErrConfiguration)}
	engine := newTestEngine(runner, &fakeResolver{}, nil)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/publish", nil))

	// Missing credentials are reported like any other pipeline failure.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "required configuration missing")
}

func TestUploadImage(t *testing.T) {
	resolver := &fakeResolver{url: "https://pub-acct.r2.dev/uploads/Lemon_Bars_1700000000.png"}
	engine := newTestEngine(&fakeRunner{}, resolver, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/images?title=Lemon+Bars", bytes.NewReader([]byte{0x89, 'P', 'N', 'G'}))
	req.Header.Set("Content-Type", "image/png")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, resolver.url, body.URL)

	assert.Equal(t, "Lemon Bars", resolver.lastTitle)
	src, ok := resolver.lastSrc.(images.BytesSource)
	require.True(t, ok)
	assert.Equal(t, "image/png", src.MIME)
	assert.Len(t, src.Data, 4)
}

func TestUploadImageEmptyBody(t *testing.T) {
	resolver := &fakeResolver{}
	engine := newTestEngine(&fakeRunner{}, resolver, nil)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/images", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, resolver.lastSrc, "resolver must not be called for an empty body")
}

func TestUploadImageUpstreamFailure(t *testing.T) {
	resolver := &fakeResolver{err: models.ErrUpstream}
	engine := newTestEngine(&fakeRunner{}, resolver, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/images", bytes.NewReader([]byte{1}))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetStats(t *testing.T) {
	engine := newTestEngine(&fakeRunner{}, &fakeResolver{}, nil)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var stats metrics.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Zero(t, stats.TotalPublished)
	assert.NotNil(t, stats.FailuresByStage)
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		db         api.Pinger
		wantStatus string
	}{
		{name: "healthy", db: &fakePinger{}, wantStatus: "healthy"},
		{name: "database down", db: &fakePinger{err: errors.New("dial refused")}, wantStatus: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(&fakeRunner{}, &fakeResolver{}, tt.db)

			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, http.StatusOK, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body["status"])
		})
	}
}
