// Package api exposes the HTTP surface of the publisher: the publish
// trigger, image upload, stats and health routes.
package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flavor-emperor/publisher/internal/images"
	"github.com/flavor-emperor/publisher/internal/logger"
	"github.com/flavor-emperor/publisher/internal/metrics"
	"github.com/flavor-emperor/publisher/internal/models"
)

const healthCheckTimeout = 2 * time.Second

// PublishRunner executes one publish run end to end.
type PublishRunner interface {
	Run(ctx context.Context, src images.Source) (*models.Post, error)
}

// ImageResolver resolves an image source to a public URL.
type ImageResolver interface {
	Resolve(ctx context.Context, src images.Source, title string) (string, error)
}

// Pinger reports backing-store connectivity for the health route.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router holds the API dependencies.
type Router struct {
	runner     PublishRunner
	resolver   ImageResolver
	tracker    metrics.Tracker
	db         Pinger
	logger     logger.Logger
	runTimeout time.Duration
	version    string
}

// NewRouter creates a new API router. db may be nil when the health route
// should not report database connectivity.
func NewRouter(runner PublishRunner, resolver ImageResolver, tracker metrics.Tracker, db Pinger, runTimeout time.Duration, log logger.Logger, version string) *Router {
	return &Router{
		runner:     runner,
		resolver:   resolver,
		tracker:    tracker,
		db:         db,
		logger:     log,
		runTimeout: runTimeout,
		version:    version,
	}
}

// Engine builds the gin engine with middleware and all routes registered.
func (r *Router) Engine(debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Health check (public, no auth)
	router.GET("/health", r.healthCheck)

	v1 := router.Group("/api/v1")
	v1.GET("/publish", r.publish)
	v1.POST("/images", r.uploadImage)
	v1.GET("/stats", r.getStats)

	return router
}
