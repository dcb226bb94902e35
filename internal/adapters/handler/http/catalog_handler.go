package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/services"
)

// RefreshQueue schedules a background catalog refresh.
type RefreshQueue interface {
	Enqueue(reason string) bool
}

type CatalogHandler struct {
	catalog *services.CatalogService
	queue   RefreshQueue
}

func NewCatalogHandler(catalog *services.CatalogService, queue RefreshQueue) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		queue:   queue,
	}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	catalog := router.Group("/catalog")
	{
		catalog.GET("/status", h.Status)
		catalog.GET("/search", h.Search)
		catalog.GET("/products/:code", h.Lookup)
		catalog.POST("/refresh", middleware.RequireAdmin(), h.Refresh)
	}
}

// Status reports the size of the loaded catalog and when it was last
// fetched successfully.
func (h *CatalogHandler) Status(c *gin.Context) {
	products := h.catalog.Products(c.Request.Context())

	var refreshedAt *time.Time
	if last := h.catalog.LastRefresh(); !last.IsZero() {
		refreshedAt = &last
	}

	c.JSON(http.StatusOK, gin.H{
		"products":     len(products),
		"refreshed_at": refreshedAt,
	})
}

func (h *CatalogHandler) Search(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	products := h.catalog.Search(c.Request.Context(), c.Query("q"), limit)
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *CatalogHandler) Lookup(c *gin.Context) {
	product, err := h.catalog.Lookup(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
		"line":    product.Line(),
	})
}

func (h *CatalogHandler) Refresh(c *gin.Context) {
	if h.queue == nil || !h.queue.Enqueue("manual") {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "refresh queue is full, try again later"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "refresh scheduled"})
}
