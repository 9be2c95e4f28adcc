package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/response"
)

// RequirePermission checks that the staff JWT contains the required permission.
func RequirePermission(perm model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if claims.HasPermission(perm) {
			c.Next()
			return
		}

		response.AbortFail(c, http.StatusForbidden, response.ErrPermissionDenied)
	}
}

// RequireAnyPermission checks that the staff JWT contains at least one of perms.
func RequireAnyPermission(perms ...model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		for _, p := range perms {
			if claims.HasPermission(p) {
				c.Next()
				return
			}
		}

		response.AbortFail(c, http.StatusForbidden, response.ErrPermissionDenied)
	}
}
