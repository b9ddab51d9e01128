package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stadtportal/city-portal-backend/internal/auditlog"
)

type Handler struct {
	Service  Service
	AuditSvc auditlog.Service
}

func NewHandler(s Service, auditSvc auditlog.Service) *Handler {
	return &Handler{Service: s, AuditSvc: auditSvc}
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("client_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

// ===========================
// 🎯 Register - POST /auth/register (admin only)
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	user, err := h.Service.Register(req)
	if err != nil {
		h.logAuth(nil, "USER_REGISTERED", req.Email, clientIP(c), "failure")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logAuth(&user.ID, "USER_REGISTERED", user.Email, clientIP(c), "success")
	c.JSON(http.StatusCreated, user)
}

// ===========================
// 🔑 Login - POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	tokens, user, err := h.Service.Login(req)
	if err != nil {
		h.logAuth(nil, "LOGIN", req.Email, clientIP(c), "failure")
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	h.logAuth(&user.ID, "LOGIN", user.Email, clientIP(c), "success")
	c.JSON(http.StatusOK, gin.H{
		"tokens": tokens,
		"user":   user,
	})
}

// ===========================
// 🔄 Refresh - POST /auth/refresh
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	accessToken, err := h.Service.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
}

// ===========================
// 🚪 Logout - POST /auth/logout
//
// Tokens are stateless; logout is recorded for the audit trail and the
// client discards its tokens.
func (h *Handler) Logout(c *gin.Context) {
	userID := c.GetUint("user_id")
	email := ""
	if v, ok := c.Get("user"); ok {
		if user, ok := v.(User); ok {
			email = user.Email
		}
	}
	h.logAuth(&userID, "LOGOUT", email, clientIP(c), "success")
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// ===========================
// 🔍 Me - GET /auth/me
func (h *Handler) Me(c *gin.Context) {
	user, err := h.Service.GetUserByID(c.GetUint("user_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// ===========================
// 🔐 Forgot Password - POST /auth/forgot-password
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	token, err := h.Service.RequestPasswordReset(req.Email)
	if err != nil {
		// same response for unknown accounts, no user enumeration
		c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a reset token was issued"})
		return
	}

	h.logAuth(nil, "PASSWORD_RESET_REQUESTED", req.Email, clientIP(c), "success")
	c.JSON(http.StatusOK, gin.H{
		"message":     "reset token issued",
		"reset_token": token,
	})
}

// ===========================
// 🔐 Reset Password - POST /auth/reset-password
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	if err := h.Service.ResetPassword(req.Token, req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (h *Handler) logAuth(userID *uint, action, email, ip, status string) {
	if h.AuditSvc == nil {
		return
	}
	_ = h.AuditSvc.LogAuthAction(context.Background(), userID, action, email, ip, status)
}
