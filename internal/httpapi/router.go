// Package httpapi exposes the category views and the cache control surface
// over HTTP with gin.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Options configures the router.
type Options struct {
	RateLimitLimit  int64
	RateLimitPeriod time.Duration
	Logger          logrus.FieldLogger
}

// Register mounts every route on r.
func Register(r gin.IRouter, categories *CategoryHandler, cacheCtl *CacheHandler, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	api := r.Group("/api")

	cats := api.Group("/categories")
	cats.GET("", categories.List)
	cats.GET("/main", categories.Main)
	cats.GET("/tree", categories.Tree)
	cats.GET("/promo", categories.Promo)
	cats.GET("/search", categories.Search)
	cats.GET("/stats", categories.Stats)
	cats.GET("/by-id/:id", categories.ByID)
	cats.GET("/by-id/:id/children", categories.Children)
	cats.GET("/by-id/:id/path", categories.Path)
	cats.GET("/by-id/:id/descendants", categories.Descendants)
	cats.GET("/by-slug/:slug", categories.BySlug)

	ctl := api.Group("/cache/categories")
	ctl.GET("/status", cacheCtl.Status)
	limited := ctl.Group("", RateLimit(opts.RateLimitLimit, opts.RateLimitPeriod, logger))
	limited.POST("/invalidate", cacheCtl.Invalidate)
	limited.POST("/refresh", cacheCtl.Refresh)
}

// NewRouter builds an engine with the standard middleware and every route.
func NewRouter(categories *CategoryHandler, cacheCtl *CacheHandler, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(AccessLog(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	Register(r, categories, cacheCtl, opts)
	return r
}
