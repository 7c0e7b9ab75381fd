package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-category-cache/category"
	"github.com/goliatone/go-category-cache/hierarchy"
)

// Lister returns the flat category list.
type Lister interface {
	Categories(ctx context.Context) ([]category.Record, error)
}

// CategoryHandler serves the read side.
type CategoryHandler struct {
	list   Lister
	tree   *hierarchy.Service
	logger logrus.FieldLogger
}

// NewCategoryHandler returns the handler serving the flat list from list and
// the derived views from tree.
func NewCategoryHandler(list Lister, tree *hierarchy.Service, logger logrus.FieldLogger) *CategoryHandler {
	return &CategoryHandler{list: list, tree: tree, logger: logger}
}

// List GET /api/categories
//
// A degraded list is still served with 200; X-Category-Degraded tells the
// client the upstream fetch failed.
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.list.Categories(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Warn("serving degraded category list")
		c.Header("X-Category-Degraded", "true")
	}

	etag := `"` + strconv.FormatUint(category.Fingerprint(list), 16) + `"`
	c.Header("ETag", etag)
	if match := c.GetHeader("If-None-Match"); match == etag {
		c.Status(http.StatusNotModified)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list, "count": len(list)})
}

// Main GET /api/categories/main
func (h *CategoryHandler) Main(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.tree.MainCategories(c.Request.Context())})
}

// Tree GET /api/categories/tree
func (h *CategoryHandler) Tree(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.tree.Tree(c.Request.Context())})
}

// Promo GET /api/categories/promo
func (h *CategoryHandler) Promo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.tree.PromoCategories(c.Request.Context())})
}

// Search GET /api/categories/search?q=
func (h *CategoryHandler) Search(c *gin.Context) {
	q := c.Query("q")
	c.JSON(http.StatusOK, gin.H{"data": h.tree.Search(c.Request.Context(), q), "query": q})
}

// Stats GET /api/categories/stats
func (h *CategoryHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.tree.Stats(c.Request.Context())})
}

// ByID GET /api/categories/by-id/:id
func (h *CategoryHandler) ByID(c *gin.Context) {
	id := c.Param("id")
	rec, ok := h.tree.ByID(c.Request.Context(), id)
	if !ok {
		notFound(c, h.logger, "category", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rec})
}

// BySlug GET /api/categories/by-slug/:slug
func (h *CategoryHandler) BySlug(c *gin.Context) {
	slug := c.Param("slug")
	rec, ok := h.tree.BySlug(c.Request.Context(), slug)
	if !ok {
		notFound(c, h.logger, "category", slug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rec})
}

// Children GET /api/categories/by-id/:id/children
func (h *CategoryHandler) Children(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.tree.Subcategories(c.Request.Context(), c.Param("id"))})
}

// Path GET /api/categories/by-id/:id/path
func (h *CategoryHandler) Path(c *gin.Context) {
	id := c.Param("id")
	path := h.tree.CategoryPath(c.Request.Context(), id)
	if len(path) == 0 {
		notFound(c, h.logger, "category", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": path})
}

// Descendants GET /api/categories/by-id/:id/descendants
func (h *CategoryHandler) Descendants(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.tree.AllDescendantIDs(c.Request.Context(), c.Param("id"))})
}
