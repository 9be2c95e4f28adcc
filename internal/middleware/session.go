package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lelani/transport-backend/internal/response"
	"github.com/lelani/transport-backend/internal/service"
)

// CheckSession validates the JWT's JTI against the account's active session
// in Redis. A newer login, logout or password reset ends older sessions.
func CheckSession(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if err := authService.ValidateSession(c.Request.Context(), claims.UserID, claims.ID); err != nil {
			if errors.Is(err, service.ErrSessionInvalidated) {
				response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
				return
			}
			_ = c.Error(err)
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}

		c.Next()
	}
}
