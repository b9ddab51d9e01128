package page

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stadtportal/city-portal-backend/internal/revision"
	"github.com/stadtportal/city-portal-backend/middleware"
)

// canPublish gates revisions submitted as PUBLIC to roles allowed to publish
func canPublish(c *gin.Context, status revision.Status) bool {
	if status != revision.StatusPublic {
		return true
	}
	ctx, ok := middleware.GetAccessContext(c)
	return ok && ctx.CanPublish()
}

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("client_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// ===========================
// 🎯 Create Page - POST /regions/:region_id/pages
func (h *Handler) CreatePage(c *gin.Context) {
	regionID, ok := parseIDParam(c, "region_id")
	if !ok {
		return
	}

	var req CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	p, err := h.Service.CreatePage(&req, regionID, c.GetUint("user_id"), clientIP(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// ===========================
// 🔍 List Region Pages - GET /regions/:region_id/pages
func (h *Handler) ListPages(c *gin.Context) {
	regionID, ok := parseIDParam(c, "region_id")
	if !ok {
		return
	}
	pages, err := h.Service.Repo.ListByRegion(regionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list pages"})
		return
	}
	c.JSON(http.StatusOK, pages)
}

// ===========================
// 🟠 Update Page - PUT /pages/:id
func (h *Handler) UpdatePage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	p, err := h.Service.UpdatePage(id, &req, c.GetUint("user_id"), clientIP(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// ===========================
// 🔴 Delete Page - DELETE /pages/:id
func (h *Handler) DeletePage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	p, err := h.Service.Repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
		return
	}
	if err := h.Service.Repo.Delete(p); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "page has child pages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "page deleted"})
}

// ===========================
// 📝 Save Translation - POST /pages/:id/translations/:language_id
func (h *Handler) SaveTranslation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	languageID, ok := parseIDParam(c, "language_id")
	if !ok {
		return
	}

	var req SaveTranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}
	if !canPublish(c, req.Status) {
		c.JSON(http.StatusForbidden, gin.H{"error": "publishing requires manager access"})
		return
	}

	t, err := h.Service.SaveTranslation(id, languageID, &req, c.GetUint("user_id"), clientIP(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, t)
}

// ===========================
// 🔍 Get Translation - GET /pages/:id/translations/:language_id
func (h *Handler) GetTranslation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	languageID, ok := parseIDParam(c, "language_id")
	if !ok {
		return
	}

	p, err := h.Service.Repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
		return
	}

	latest, err := h.Service.LatestTranslation(id, languageID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load translation"})
		return
	}
	if latest == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "translation not found"})
		return
	}

	public, err := h.Service.PublicTranslation(id, languageID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load translation"})
		return
	}
	outdated, err := h.Service.IsOutdated(p, languageID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve translation state"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"latest":   latest,
		"public":   public,
		"outdated": outdated,
	})
}

// ===========================
// 🌍 Public Pages - GET /api/v3/:region_slug/:language_slug/pages
func (h *Handler) PublicPages(c *gin.Context) {
	reg, err := h.Service.RegionRepo.GetBySlug(c.Param("region_slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "region not found"})
		return
	}
	lang, err := h.Service.LangRepo.GetBySlug(c.Param("language_slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "language not found"})
		return
	}

	payloads, err := h.Service.PublicPages(reg, lang.ID, lang.Slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pages"})
		return
	}
	c.JSON(http.StatusOK, payloads)
}

// ===========================
// 🌍 Public Page by Slug - GET /api/v3/:region_slug/:language_slug/page?slug=...
func (h *Handler) PublicPage(c *gin.Context) {
	reg, err := h.Service.RegionRepo.GetBySlug(c.Param("region_slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "region not found"})
		return
	}
	lang, err := h.Service.LangRepo.GetBySlug(c.Param("language_slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "language not found"})
		return
	}

	slug := c.Query("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug query parameter is required"})
		return
	}

	payload, err := h.Service.PublicPageBySlug(reg, lang.ID, lang.Slug, slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load page"})
		return
	}
	if payload == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
		return
	}
	c.JSON(http.StatusOK, payload)
}

// ===========================
// 📄 Export PDF - GET /api/v3/:region_slug/:language_slug/pdf?page_id=...
func (h *Handler) ExportPDF(c *gin.Context) {
	reg, err := h.Service.RegionRepo.GetBySlug(c.Param("region_slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "region not found"})
		return
	}
	lang, err := h.Service.LangRepo.GetBySlug(c.Param("language_slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "language not found"})
		return
	}

	var rootID *uint
	if raw := c.Query("page_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page_id"})
			return
		}
		v := uint(id)
		rootID = &v
	}

	pdfBytes, err := h.Service.ExportPDF(reg, rootID, lang.ID, lang.Slug)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+reg.Slug+"-pages.pdf")
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
