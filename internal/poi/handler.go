package poi

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
// 🎯 Create POI - POST /regions/:region_id/pois
func (h *Handler) CreatePOI(c *gin.Context) {
	regionID, ok := parseIDParam(c, "region_id")
	if !ok {
		return
	}

	var req CreatePOIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	p, err := h.Service.CreatePOI(&req, regionID, c.GetUint("user_id"), clientIP(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// ===========================
// 🔍 List Region POIs - GET /regions/:region_id/pois
func (h *Handler) ListPOIs(c *gin.Context) {
	regionID, ok := parseIDParam(c, "region_id")
	if !ok {
		return
	}
	pois, err := h.Service.Repo.ListByRegion(regionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list locations"})
		return
	}
	c.JSON(http.StatusOK, pois)
}

// ===========================
// 🔍 Get POI - GET /pois/:id
func (h *Handler) GetPOI(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	p, err := h.Service.Repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// ===========================
// 🟠 Update POI - PUT /pois/:id
func (h *Handler) UpdatePOI(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePOIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	p, err := h.Service.UpdatePOI(id, &req, c.GetUint("user_id"), clientIP(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// ===========================
// 🔴 Delete POI - DELETE /pois/:id
func (h *Handler) DeletePOI(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	p, err := h.Service.Repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}
	if err := h.Service.Repo.Delete(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete location"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "location deleted"})
}

// ===========================
// 📝 Save Translation - POST /pois/:id/translations/:language_id
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
// 🌍 Public Locations - GET /api/v3/:region_slug/:language_slug/locations
func (h *Handler) PublicLocations(c *gin.Context) {
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

	payloads, err := h.Service.PublicLocations(reg.ID, lang.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load locations"})
		return
	}
	c.JSON(http.StatusOK, payloads)
}
