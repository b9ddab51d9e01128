package region

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stadtportal/city-portal-backend/internal/language"
)

type Handler struct {
	Repo     *Repository
	LangRepo *language.Repository
}

func NewHandler(r *Repository, langRepo *language.Repository) *Handler {
	return &Handler{Repo: r, LangRepo: langRepo}
}

// ===========================
// 🟡 Create Region - POST /regions
func (h *Handler) CreateRegion(c *gin.Context) {
	var req CreateRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	region := &Region{
		Name:              req.Name,
		Slug:              req.Slug,
		DefaultLanguageID: req.DefaultLanguageID,
		IsActive:          true,
	}
	if err := h.Repo.Create(region); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create region: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, region)
}

// ===========================
// 🔍 List Regions - GET /regions
func (h *Handler) ListRegions(c *gin.Context) {
	regions, err := h.Repo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list regions"})
		return
	}
	c.JSON(http.StatusOK, regions)
}

// ===========================
// 🟠 Update Region - PUT /regions/:region_id
func (h *Handler) UpdateRegion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("region_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid region id"})
		return
	}

	var req UpdateRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	region, err := h.Repo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "region not found"})
		return
	}

	region.Name = req.Name
	if req.IsActive != nil {
		region.IsActive = *req.IsActive
	}
	if err := h.Repo.Update(region); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update region"})
		return
	}
	c.JSON(http.StatusOK, region)
}

// ===========================
// 🌍 Public Regions - GET /api/v3/regions
func (h *Handler) PublicRegions(c *gin.Context) {
	regions, err := h.Repo.ListActive()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list regions"})
		return
	}
	c.JSON(http.StatusOK, regions)
}

// ===========================
// 🌍 Public Region Languages - GET /api/v3/:region_slug/languages
//
// Lists the visible languages of the region's language tree.
func (h *Handler) PublicLanguages(c *gin.Context) {
	reg, err := h.Repo.GetBySlug(c.Param("region_slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "region not found"})
		return
	}

	nodes, err := h.LangRepo.ListTree(reg.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list languages"})
		return
	}

	langs := make([]language.Language, 0, len(nodes))
	for _, node := range nodes {
		if node.Visible {
			langs = append(langs, node.Language)
		}
	}
	c.JSON(http.StatusOK, langs)
}
