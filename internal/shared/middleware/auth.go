package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	userModel "recipebook-backend/internal/domains/user/model"
	"recipebook-backend/internal/shared"
	"recipebook-backend/internal/shared/apperror"
	"recipebook-backend/internal/shared/response"
	"recipebook-backend/pkg/logger"
	"recipebook-backend/pkg/token"
)

// Authenticator resolves a raw token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*userModel.User, error)
}

// AuthMiddleware resolves the caller from the Authorization header.
// The raw token may come with or without a "Bearer " prefix.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Token from header
		raw := token.FromHeader(c.GetHeader(shared.HeaderAuthorization))
		if raw == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		// 2. Resolve user
		u, err := auth.Authenticate(c.Request.Context(), raw)
		if err != nil {
			if apperror.KindOf(err) != apperror.KindUnauthorized {
				logger.Error("token lookup failed", err)
				response.HandleError(c, err)
				return
			}
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		// 3. Caller into context
		c.Set(shared.ContextUserID, u.ID)
		c.Set(shared.ContextUser, u)
		c.Next()
	}
}

// ActorID returns the authenticated caller set by AuthMiddleware.
func ActorID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(shared.ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}
