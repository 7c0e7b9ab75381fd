package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-category-cache/category"
	"github.com/goliatone/go-category-cache/store"
)

// Controller is the cache control surface of a category store.
type Controller interface {
	Invalidate(ctx context.Context)
	Refresh(ctx context.Context) ([]category.Record, error)
	Status() store.Status
}

// CacheHandler exposes cache status and control.
type CacheHandler struct {
	store  Controller
	logger logrus.FieldLogger
}

// NewCacheHandler returns the handler for the cache control endpoints.
func NewCacheHandler(ctl Controller, logger logrus.FieldLogger) *CacheHandler {
	return &CacheHandler{store: ctl, logger: logger}
}

// Status GET /api/cache/categories/status
func (h *CacheHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.store.Status()})
}

// Invalidate POST /api/cache/categories/invalidate
func (h *CacheHandler) Invalidate(c *gin.Context) {
	h.store.Invalidate(c.Request.Context())
	h.logger.WithField("request_id", requestID(c)).Info("category cache invalidated by request")
	c.JSON(http.StatusOK, gin.H{"data": h.store.Status()})
}

// Refresh POST /api/cache/categories/refresh
//
// Upstream failures are reported as 502 with the go-errors body.
func (h *CacheHandler) Refresh(c *gin.Context) {
	list, err := h.store.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.store.Status(), "count": len(list)})
}
