package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recipebook-backend/internal/shared"
)

// RequestID keeps an incoming X-Request-ID or stamps a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(shared.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(shared.ContextRequestID, id)
		c.Header(shared.HeaderRequestID, id)
		c.Next()
	}
}
