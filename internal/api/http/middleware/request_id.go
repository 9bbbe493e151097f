package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/reagent-systems/site-backend/internal/logging"
)

const (
	// HeaderRequestID carries the request id in both directions
	HeaderRequestID = "X-Request-Id"

	// ContextKeyRequestID is the gin context key holding the request id
	ContextKeyRequestID = "request_id"

	maxRequestIDLen = 128
)

// RequestIDMiddleware ensures every request has a stable request ID.
// - Reads X-Request-Id header if present and sane
// - Otherwise generates a new one
// - Stores it in the gin context and in the request context for logging.FromContext
// - Echoes it back in response header X-Request-Id
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if rid == "" || len(rid) > maxRequestIDLen {
			rid = uuid.NewString()
		}

		c.Set(ContextKeyRequestID, rid)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), rid))
		c.Writer.Header().Set(HeaderRequestID, rid)

		c.Next()
	}
}
