package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/services"
)

type ChecklistHandler struct {
	checklists *services.ChecklistService
	migrations *services.MigrationService
	exports    *services.ExportService
	catalog    *services.CatalogService
}

func NewChecklistHandler(
	checklists *services.ChecklistService,
	migrations *services.MigrationService,
	exports *services.ExportService,
	catalog *services.CatalogService,
) *ChecklistHandler {
	return &ChecklistHandler{
		checklists: checklists,
		migrations: migrations,
		exports:    exports,
		catalog:    catalog,
	}
}

// sessionRequest carries the client-held state of an editing session: the
// rows on screen and the day being viewed.
type sessionRequest struct {
	Items    domain.Checklist `json:"items"`
	ViewDate string           `json:"view_date"`
}

type reconcileRequest struct {
	Items domain.Checklist     `json:"items"`
	Line  domain.ChecklistLine `json:"line"`
}

type addLineRequest struct {
	sessionRequest
	Line *domain.ChecklistLine `json:"line"`
	Code string                `json:"code"`
}

type indexRequest struct {
	sessionRequest
	Index *int `json:"index" binding:"required"`
}

func (h *ChecklistHandler) RegisterRoutes(router *gin.RouterGroup) {
	checklists := router.Group("/checklists")
	{
		checklists.POST("/reconcile", h.Reconcile)

		list := checklists.Group("/:store/:version")
		list.GET("", h.Open)
		list.PUT("", h.Save)
		list.DELETE("", h.Clear)
		list.POST("/lines", h.AddLine)
		list.POST("/lines/remove", h.RemoveLine)
		list.POST("/move", h.Move)
		list.GET("/history", h.History)
		list.GET("/export", h.Export)
	}
}

func (h *ChecklistHandler) session(c *gin.Context, req sessionRequest) (domain.Session, bool) {
	user, ok := middleware.GetUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return domain.Session{}, false
	}
	return domain.Session{
		User:       user,
		StoreKey:   c.Param("store"),
		VersionKey: c.Param("version"),
		ViewDate:   strings.TrimSpace(req.ViewDate),
		Items:      req.Items.Clone(),
	}, true
}

func (h *ChecklistHandler) Reconcile(c *gin.Context) {
	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, res := h.checklists.Reconcile(req.Items, req.Line)
	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"merged": res.Merged,
		"index":  res.Index,
	})
}

func (h *ChecklistHandler) Open(c *gin.Context) {
	session, ok := h.session(c, sessionRequest{})
	if !ok {
		return
	}

	view, err := h.checklists.Open(c.Request.Context(), session, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *ChecklistHandler) Save(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, ok := h.session(c, req)
	if !ok {
		return
	}

	res, err := h.checklists.Save(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOutcome(c, res.Outcome, http.StatusOK, res)
}

func (h *ChecklistHandler) Clear(c *gin.Context) {
	session, ok := h.session(c, sessionRequest{ViewDate: c.Query("view_date")})
	if !ok {
		return
	}

	res, err := h.checklists.Clear(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOutcome(c, res.Outcome, http.StatusOK, res)
}

// AddLine adds an explicit line, or resolves a scanned or typed code
// against the catalog.
func (h *ChecklistHandler) AddLine(c *gin.Context) {
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, ok := h.session(c, req.sessionRequest)
	if !ok {
		return
	}

	var line domain.ChecklistLine
	switch {
	case req.Line != nil:
		line = *req.Line
		if strings.TrimSpace(line.Quantity) == "" {
			line.Quantity = domain.DefaultLineQuantity
		}
	case strings.TrimSpace(req.Code) != "":
		product, err := h.catalog.Lookup(c.Request.Context(), req.Code)
		if err != nil {
			respondError(c, err)
			return
		}
		line = product.Line()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "line or code is required"})
		return
	}

	res, err := h.checklists.AddLine(session, line)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOutcome(c, res.Outcome, http.StatusOK, res)
}

func (h *ChecklistHandler) RemoveLine(c *gin.Context) {
	var req indexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, ok := h.session(c, req.sessionRequest)
	if !ok {
		return
	}

	res, err := h.checklists.RemoveLine(session, *req.Index)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOutcome(c, res.Outcome, http.StatusOK, res)
}

func (h *ChecklistHandler) Move(c *gin.Context) {
	var req indexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, ok := h.session(c, req.sessionRequest)
	if !ok {
		return
	}

	res, err := h.migrations.MoveLine(c.Request.Context(), session, *req.Index)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOutcome(c, res.Outcome, http.StatusOK, res)
}

func (h *ChecklistHandler) History(c *gin.Context) {
	session, ok := h.session(c, sessionRequest{})
	if !ok {
		return
	}

	dates, err := h.checklists.History(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dates": dates})
}

func (h *ChecklistHandler) Export(c *gin.Context) {
	session, ok := h.session(c, sessionRequest{})
	if !ok {
		return
	}

	exp, err := h.exports.Export(c.Request.Context(), session, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, exp)
}
