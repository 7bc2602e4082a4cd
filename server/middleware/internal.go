package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/discovery/auth"
	"github.com/kbukum/discovery/errors"
)

// RequireInternal rejects callers the gate does not consider internal with
// 403 before any handler logic runs.
func RequireInternal(gate auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if gate == nil || !gate.Internal(c.Request) {
			appErr := errors.Forbidden("internal access required")
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}
		c.Next()
	}
}
