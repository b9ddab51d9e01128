package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/stadtportal/city-portal-backend/internal/auth"
)

// AccessContext stores the authenticated user's access scope. Instance
// admins have no RegionID and may act on every region; region staff are
// confined to their own.
type AccessContext struct {
	UserID   uint
	RoleName string
	RegionID *uint
}

// CanAccessRegion checks whether the user may act on the given region
func (ac *AccessContext) CanAccessRegion(regionID uint) bool {
	if ac.RoleName == auth.RoleAdmin {
		return true
	}
	return ac.RegionID != nil && *ac.RegionID == regionID
}

// CanPublish returns true for roles allowed to publish content
func (ac *AccessContext) CanPublish() bool {
	return ac.RoleName == auth.RoleAdmin || ac.RoleName == auth.RoleManager
}

// GetAccessContext retrieves the access context set by the auth middleware
func GetAccessContext(c *gin.Context) (AccessContext, bool) {
	val, exists := c.Get("access_context")
	if !exists {
		return AccessContext{}, false
	}
	ctx, ok := val.(AccessContext)
	return ctx, ok
}
