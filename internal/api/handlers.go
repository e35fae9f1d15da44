package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flavor-emperor/publisher/internal/images"
	"github.com/flavor-emperor/publisher/internal/logger"
	"github.com/flavor-emperor/publisher/internal/models"
)

// maxImageBytes bounds the request body accepted by the image upload
// route. Hashnode cover images never approach this.
const maxImageBytes = 10 << 20

// publish handles GET /api/v1/publish. One call runs the whole pipeline
// synchronously; the caller (a cron trigger) waits for the outcome.
func (r *Router) publish(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), r.runTimeout)
	defer cancel()

	post, err := r.runner.Run(ctx, nil)
	if err != nil {
		r.logger.Error("Publish run failed", logger.Error(err))

		// Every pipeline failure, missing credentials included, is a 500
		// with the error string; the trigger only distinguishes
		// success from failure.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post published successfully",
		"data":    post,
	})
}

// uploadImage handles POST /api/v1/images. The request body is the raw
// image; the response carries the public URL of the stored object.
func (r *Router) uploadImage(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImageBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image payload is empty"})
		return
	}

	title := c.DefaultQuery("title", "cover")
	src := images.BytesSource{Data: data, MIME: c.ContentType()}

	url, err := r.resolver.Resolve(c.Request.Context(), src, title)
	if err != nil {
		r.logger.Error("Image upload failed", logger.Error(err), logger.String("title", title))

		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// getStats handles GET /api/v1/stats.
func (r *Router) getStats(c *gin.Context) {
	stats, err := r.tracker.Stats(c.Request.Context())
	if err != nil {
		r.logger.Error("Failed to get stats",
			logger.Error(err),
			logger.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// healthCheck handles GET /health. Database connectivity degrades the
// status but never fails the route.
func (r *Router) healthCheck(c *gin.Context) {
	health := gin.H{
		"status":  "healthy",
		"service": "publisher",
		"version": r.version,
	}

	if r.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		connected := true
		if err := r.db.Ping(ctx); err != nil {
			connected = false
			health["status"] = "degraded"
		}
		health["database"] = gin.H{"connected": connected}
	}

	c.JSON(http.StatusOK, health)
}
