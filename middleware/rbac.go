package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stadtportal/city-portal-backend/internal/auth"
)

// RBACMiddleware checks if the user has one of the allowed roles
func RBACMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, exists := c.Get("user")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		user, ok := userVal.(auth.User)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid user object"})
			return
		}

		for _, role := range allowedRoles {
			if user.Role.RoleName == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
	}
}

// RequireRegionAccess confines region staff to their own region. Routes
// carrying a :region_id parameter are checked against the access context;
// instance admins pass unconditionally.
func RequireRegionAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, ok := GetAccessContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
			return
		}

		param := c.Param("region_id")
		if param == "" {
			c.Next()
			return
		}
		regionID, err := strconv.ParseUint(param, 10, 32)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid region id"})
			return
		}

		if !ctx.CanAccessRegion(uint(regionID)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no access to this region"})
			return
		}
		c.Next()
	}
}
