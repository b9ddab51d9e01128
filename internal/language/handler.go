package language

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(r *Repository) *Handler {
	return &Handler{Repo: r}
}

// ===========================
// 🟡 Create Language - POST /languages
func (h *Handler) CreateLanguage(c *gin.Context) {
	var req CreateLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	textDirection := req.TextDirection
	if textDirection == "" {
		textDirection = "LEFT_TO_RIGHT"
	}

	lang := &Language{
		Slug:          req.Slug,
		BCP47Tag:      req.BCP47Tag,
		NativeName:    req.NativeName,
		EnglishName:   req.EnglishName,
		TextDirection: textDirection,
	}
	if err := h.Repo.Create(lang); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create language: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, lang)
}

// ===========================
// 🔍 List Languages - GET /languages
func (h *Handler) ListLanguages(c *gin.Context) {
	langs, err := h.Repo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list languages"})
		return
	}
	c.JSON(http.StatusOK, langs)
}

// ===========================
// 🌳 Create Tree Node - POST /regions/:region_id/language-tree
func (h *Handler) CreateTreeNode(c *gin.Context) {
	regionID, err := strconv.ParseUint(c.Param("region_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid region id"})
		return
	}

	var req CreateTreeNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	visible := true
	if req.Visible != nil {
		visible = *req.Visible
	}

	node := &LanguageTreeNode{
		RegionID:   uint(regionID),
		LanguageID: req.LanguageID,
		ParentID:   req.ParentID,
		Visible:    visible,
	}
	if err := h.Repo.CreateTreeNode(node); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create tree node: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, node)
}

// ===========================
// 🌳 List Region Language Tree - GET /regions/:region_id/language-tree
func (h *Handler) ListTree(c *gin.Context) {
	regionID, err := strconv.ParseUint(c.Param("region_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid region id"})
		return
	}

	nodes, err := h.Repo.ListTree(uint(regionID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list language tree"})
		return
	}
	c.JSON(http.StatusOK, nodes)
}
