package reports

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// ===========================
// 📊 Translation Coverage - GET /regions/:region_id/reports/translation-coverage
func (h *Handler) TranslationCoverage(c *gin.Context) {
	regionID, err := strconv.ParseUint(c.Param("region_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid region id"})
		return
	}

	report, err := h.Service.TranslationCoverage(uint(regionID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// ===========================
// 📊 Export Coverage - GET /regions/:region_id/reports/translation-coverage/export?format=excel
func (h *Handler) ExportCoverage(c *gin.Context) {
	regionID, err := strconv.ParseUint(c.Param("region_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid region id"})
		return
	}

	format := c.DefaultQuery("format", FormatExcel)

	report, err := h.Service.TranslationCoverage(uint(regionID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, filename, contentType, err := h.Service.Exporter.Export(format, report)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}
