package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/services"
)

type StoreHandler struct {
	checklists *services.ChecklistService
}

func NewStoreHandler(checklists *services.ChecklistService) *StoreHandler {
	return &StoreHandler{checklists: checklists}
}

func (h *StoreHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/stores", h.List)
}

func (h *StoreHandler) List(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	stores, err := h.checklists.Stores(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stores": stores})
}
