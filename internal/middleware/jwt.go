package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/response"
	"github.com/lelani/transport-backend/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"
)

var errTokenMissing = errors.New("authorization header required")

// RequireJWT validates a staff JWT from the Authorization header.
func RequireJWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := extractAndValidateClaims(c, authService)
		switch {
		case errors.Is(err, errTokenMissing):
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		case errors.Is(err, jwt.ErrTokenExpired):
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenExpired)
			return
		case err != nil:
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireAdmin rejects tokens that do not belong to an administrator.
// It must run after RequireJWT.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if claims.Role != model.RoleAdmin {
			response.AbortFail(c, http.StatusForbidden, response.ErrAdminAccessOnly)
			return
		}
		c.Next()
	}
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

// Actor returns the authenticated staff member as an audit identity. The
// zero Actor is returned on unauthenticated requests.
func Actor(c *gin.Context) model.Actor {
	claims := GetClaims(c)
	if claims == nil {
		return model.Actor{}
	}
	return claims.Actor()
}

func extractAndValidateClaims(c *gin.Context, authService *service.AuthService) (*service.Claims, error) {
	tokenStr := ""

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			tokenStr = strings.TrimSpace(parts[1])
		}
	}

	if tokenStr == "" {
		return nil, errTokenMissing
	}

	return authService.ValidateToken(tokenStr)
}
