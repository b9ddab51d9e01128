package pushnotification

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
// 🎯 Create - POST /regions/:region_id/push-notifications
func (h *Handler) Create(c *gin.Context) {
	regionID, ok := parseIDParam(c, "region_id")
	if !ok {
		return
	}

	var req CreatePushNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	pn, err := h.Service.Create(&req, regionID, c.GetUint("user_id"), clientIP(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, pn)
}

// ===========================
// 🔍 List - GET /regions/:region_id/push-notifications
func (h *Handler) List(c *gin.Context) {
	regionID, ok := parseIDParam(c, "region_id")
	if !ok {
		return
	}
	pns, err := h.Service.Repo.ListByRegion(regionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list push notifications"})
		return
	}
	c.JSON(http.StatusOK, pns)
}

// ===========================
// 🚀 Send - POST /push-notifications/:id/send
func (h *Handler) Send(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.Service.SendNow(id, c.GetUint("user_id"), clientIP(c)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "push notification queued for delivery"})
}

// ===========================
// 🔴 Delete - DELETE /push-notifications/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	pn, err := h.Service.Repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "push notification not found"})
		return
	}
	if err := h.Service.Repo.Delete(pn); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete push notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "push notification deleted"})
}

// ===========================
// 📱 Register Device Token - POST /api/v3/:region_slug/:language_slug/fcm-token
func (h *Handler) RegisterToken(c *gin.Context) {
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

	var req RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}
	if err := h.Service.RegisterToken(reg.ID, lang.ID, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "device token registered"})
}

// ===========================
// 🌍 Sent Notifications - GET /api/v3/:region_slug/:language_slug/push-notifications?channel=news
func (h *Handler) PublicSent(c *gin.Context) {
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

	payloads, err := h.Service.SentNotifications(reg, lang.ID, c.Query("channel"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load push notifications"})
		return
	}
	c.JSON(http.StatusOK, payloads)
}
