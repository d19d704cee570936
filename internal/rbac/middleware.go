package rbac

import (
	"net/http"

	"callcenter-dashboard/internal/auth"

	"github.com/gin-gonic/gin"
)

// ProjectParam is the route parameter RequireProjectTab reads.
const ProjectParam = "project_id"

// RequireAnyRole allows access if the caller has any of the provided roles.
// admin bypasses all checks.
func RequireAnyRole(allowed ...string) gin.HandlerFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, err := auth.Role(c.Request.Context())
		if err != nil || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "role required"})
			return
		}

		if IsAdmin(role) {
			c.Next()
			return
		}

		if _, ok := allowedSet[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// RequireProjectTab enforces per-project tab permissions for routes carrying
// a :project_id parameter. Projects the caller has no permission for look
// the same as projects that do not exist.
func RequireProjectTab(tab string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		role, err := auth.Role(ctx)
		if err != nil || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "role required"})
			return
		}
		projectID := c.Param(ProjectParam)
		if projectID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "project_id required"})
			return
		}
		if !CanAccess(role, auth.Permissions(ctx), projectID, tab) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
