package middleware

import (
	"github.com/gin-gonic/gin"

	"pdv/internal/core/apperror"
	appctx "pdv/internal/core/context"
	"pdv/internal/core/security"
)

// RequirePermission checks the role matrix for resource/action.
// Admins pass every check.
func RequirePermission(resource string, action security.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			abortUnauthorized(c, "authentication required")
			return
		}

		if !security.Can(security.Role(user.Role), action, resource) {
			_ = c.Error(
				apperror.NewForbidden("insufficient permissions").
					WithDetail("resource", resource).
					WithDetail("action", string(action)),
			)
			c.Abort()
			return
		}

		c.Next()
	}
}
