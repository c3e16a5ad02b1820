package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"recipebook-backend/internal/shared"
	"recipebook-backend/internal/shared/apperror"
	"recipebook-backend/internal/shared/response"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("request_id", c.GetString(shared.ContextRequestID)).
					Interface("error", err).
					Msg("Panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error{
					Code:    apperror.CodeInternal,
					Message: "Internal server error",
				})
			}
		}()

		c.Next()
	}
}
