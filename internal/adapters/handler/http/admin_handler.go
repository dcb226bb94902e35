package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/services"
)

type AdminHandler struct {
	auth *services.AuthService
}

func NewAdminHandler(auth *services.AuthService) *AdminHandler {
	return &AdminHandler{auth: auth}
}

type updateProfileRequest struct {
	DisplayName string   `json:"display_name"`
	Role        string   `json:"role" binding:"required"`
	Stores      []string `json:"stores"`
	Active      *bool    `json:"active" binding:"required"`
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin", middleware.RequireAdmin())
	{
		admin.PUT("/users/:id", h.UpdateUser)
	}
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	actor, ok := middleware.GetUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), actor, c.Param("id"), services.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Stores:      req.Stores,
		Active:      *req.Active,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}
