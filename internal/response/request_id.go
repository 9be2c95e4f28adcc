package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the Gin context key for the request ID.
const ContextKeyRequestID = "request_id"

const headerRequestID = "X-Request-ID"

// maxRequestIDLen bounds IDs accepted from upstream proxies.
const maxRequestIDLen = 64

// RequestIDMiddleware tags every request with an ID, reusing a well-formed
// X-Request-ID from the caller when present.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(headerRequestID)
		if !validRequestID(reqID) {
			reqID = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Header(headerRequestID, reqID)
		c.Next()
	}
}

// RequestID returns the ID assigned by RequestIDMiddleware, or "" outside it.
func RequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		ch := id[i]
		if ch < 0x21 || ch > 0x7e {
			return false
		}
	}
	return true
}
