package event

import (
	"net/http"
	"strconv"
	"time"

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
// 🎯 Create Event - POST /regions/:region_id/events
func (h *Handler) CreateEvent(c *gin.Context) {
	regionID, ok := parseIDParam(c, "region_id")
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	e, err := h.Service.CreateEvent(&req, regionID, c.GetUint("user_id"), clientIP(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, e)
}

// ===========================
// 🔍 List Region Events - GET /regions/:region_id/events
func (h *Handler) ListEvents(c *gin.Context) {
	regionID, ok := parseIDParam(c, "region_id")
	if !ok {
		return
	}

	events, err := h.Service.Repo.ListByRegion(regionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}

	// editorial list rows carry the best available title
	type row struct {
		Event
		Title string `json:"title"`
	}
	rows := make([]row, 0, len(events))
	for i := range events {
		t, err := h.Service.BestTranslation(&events[i])
		title := ""
		if err == nil && t != nil {
			title = t.Title
		}
		rows = append(rows, row{Event: events[i], Title: title})
	}
	c.JSON(http.StatusOK, rows)
}

// ===========================
// 🔍 Get Event - GET /events/:id
func (h *Handler) GetEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	e, err := h.Service.Repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	c.JSON(http.StatusOK, e)
}

// ===========================
// 🟠 Update Event - PUT /events/:id
func (h *Handler) UpdateEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	e, err := h.Service.UpdateEvent(id, &req, c.GetUint("user_id"), clientIP(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, e)
}

// ===========================
// 🔴 Delete Event - DELETE /events/:id
func (h *Handler) DeleteEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	e, err := h.Service.Repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if err := h.Service.Repo.Delete(e); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

// ===========================
// 📋 Duplicate Event - POST /events/:id/duplicate
func (h *Handler) DuplicateEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	e, err := h.Service.Duplicate(id, c.GetUint("user_id"), clientIP(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, e)
}

// ===========================
// 📝 Save Translation - POST /events/:id/translations/:language_id
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
// 🔍 Get Translation - GET /events/:id/translations/:language_id
//
// Returns the latest revision plus its resolved state: the served public
// revision (if any) and whether the translation is outdated relative to
// its source language.
func (h *Handler) GetTranslation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	languageID, ok := parseIDParam(c, "language_id")
	if !ok {
		return
	}

	e, err := h.Service.Repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
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
	outdated, err := h.Service.IsOutdated(e, languageID)
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
// 📋 Translation History - GET /events/:id/translations/:language_id/revisions
func (h *Handler) ListRevisions(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	languageID, ok := parseIDParam(c, "language_id")
	if !ok {
		return
	}
	revs, err := h.Service.Repo.TranslationsByLanguage(id, languageID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load revisions"})
		return
	}
	c.JSON(http.StatusOK, revs)
}

// ===========================
// 📆 Occurrences - GET /events/:id/occurrences?start=...&end=...
func (h *Handler) GetOccurrences(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	start, err := time.Parse(dateLayout, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date, use YYYY-MM-DD"})
		return
	}
	end, err := time.Parse(dateLayout, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date, use YYYY-MM-DD"})
		return
	}

	occurrences, err := h.Service.Occurrences(id, start, endOfDay(end))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"occurrences": occurrences})
}

// ===========================
// 🌍 Public Events - GET /api/v3/:region_slug/:language_slug/events
func (h *Handler) PublicEvents(c *gin.Context) {
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

	from := time.Now().UTC()
	if raw := c.Query("from"); raw != "" {
		from, err = time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, use YYYY-MM-DD"})
			return
		}
	}

	payloads, err := h.Service.PublicEvents(reg, lang.ID, lang.Slug, from)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load events"})
		return
	}
	c.JSON(http.StatusOK, payloads)
}
