package imprint

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
// 📝 Save Translation - POST /regions/:region_id/imprint/:language_id
func (h *Handler) SaveTranslation(c *gin.Context) {
	regionID, ok := parseIDParam(c, "region_id")
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

	t, err := h.Service.SaveTranslation(regionID, languageID, &req, c.GetUint("user_id"), clientIP(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, t)
}

// ===========================
// 🔍 Get Translation - GET /regions/:region_id/imprint/:language_id
func (h *Handler) GetTranslation(c *gin.Context) {
	regionID, ok := parseIDParam(c, "region_id")
	if !ok {
		return
	}
	languageID, ok := parseIDParam(c, "language_id")
	if !ok {
		return
	}

	t, err := h.Service.LatestTranslation(regionID, languageID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load imprint"})
		return
	}
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "imprint translation not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

// ===========================
// 🌍 Public Imprint - GET /api/v3/:region_slug/:language_slug/imprint
func (h *Handler) PublicImprint(c *gin.Context) {
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

	payload, err := h.Service.PublicImprint(reg, lang.ID, lang.Slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load imprint"})
		return
	}
	if payload == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "imprint not found"})
		return
	}
	c.JSON(http.StatusOK, payload)
}
