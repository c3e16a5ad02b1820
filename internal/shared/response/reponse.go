package response

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"recipebook-backend/internal/shared"
	"recipebook-backend/internal/shared/apperror"
	"recipebook-backend/pkg/cache"
)

// Error body. Duplicate conflicts carry a numeric code.
type Error struct {
	XMLName xml.Name    `json:"-" xml:"error"`
	Code    string      `json:"code" xml:"code"`
	Message string      `json:"message" xml:"message"`
	Details interface{} `json:"details,omitempty" xml:"-"`
}

// Negotiate picks the rendering format from Accept. ok=false means 415.
func Negotiate(c *gin.Context) (string, bool) {
	switch c.NegotiateFormat(binding.MIMEJSON, binding.MIMEXML) {
	case binding.MIMEJSON:
		return cache.FormatJSON, true
	case binding.MIMEXML:
		return cache.FormatXML, true
	default:
		return "", false
	}
}

// Encode renders v in format.
func Encode(format string, v interface{}) ([]byte, error) {
	if format == cache.FormatXML {
		return xml.Marshal(v)
	}
	return json.Marshal(v)
}

// Body writes a pre-rendered body.
func Body(c *gin.Context, status int, format string, body []byte) {
	contentType := binding.MIMEJSON + "; charset=utf-8"
	if format == cache.FormatXML {
		contentType = binding.MIMEXML + "; charset=utf-8"
	}
	c.Data(status, contentType, body)
}

// Render encodes v in the negotiated format, 415 when none matches.
func Render(c *gin.Context, status int, v interface{}) {
	format, ok := Negotiate(c)
	if !ok {
		UnsupportedMediaType(c)
		return
	}
	body, err := Encode(format, v)
	if err != nil {
		HandleError(c, apperror.Storage(err))
		return
	}
	Body(c, status, format, body)
}

// RenderCached serves the body cached under "kind:id:format", building it with
// load on a miss. load returns the response DTO or a service error.
func RenderCached(c *gin.Context, store cache.Cache, kind cache.Kind, id uuid.UUID, ttl time.Duration, load func(ctx context.Context) (interface{}, error)) {
	format, ok := Negotiate(c)
	if !ok {
		UnsupportedMediaType(c)
		return
	}

	body, err := cache.GetOrLoad(c.Request.Context(), store, cache.RenderKey(kind, id, format), ttl,
		func(ctx context.Context) ([]byte, error) {
			v, err := load(ctx)
			if err != nil {
				return nil, err
			}
			body, err := Encode(format, v)
			if err != nil {
				return nil, apperror.Storage(err)
			}
			return body, nil
		})
	if err != nil {
		HandleError(c, err)
		return
	}
	Body(c, http.StatusOK, format, body)
}

// HandleError maps a service error onto its status code.
// 401 and 404 leave no body.
func HandleError(c *gin.Context, err error) {
	var ce *apperror.CatalogError
	if !errors.As(err, &ce) {
		ce = nil
	}

	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		body := Error{Code: apperror.CodeValidation, Message: "invalid request"}
		if ce != nil {
			body.Message = ce.Message
			body.Details = ce.Details
		}
		abortWithError(c, http.StatusBadRequest, body)
	case apperror.KindConflict:
		body := Error{Code: apperror.CodeOf(err), Message: "conflict"}
		if ce != nil {
			body.Message = ce.Message
		}
		abortWithError(c, http.StatusConflict, body)
	case apperror.KindNotFound:
		c.AbortWithStatus(http.StatusNotFound)
	case apperror.KindUnauthorized:
		c.AbortWithStatus(http.StatusUnauthorized)
	case apperror.KindUnsupported:
		UnsupportedMediaType(c)
	default:
		log.Error().Err(err).
			Str("request_id", c.GetString(shared.ContextRequestID)).
			Str("path", c.FullPath()).
			Msg("request failed")
		abortWithError(c, http.StatusInternalServerError, Error{
			Code:    apperror.CodeInternal,
			Message: "internal server error",
		})
	}
}

func BadRequest(c *gin.Context, message string) {
	abortWithError(c, http.StatusBadRequest, Error{Code: apperror.CodeValidation, Message: message})
}

func UnsupportedMediaType(c *gin.Context) {
	c.AbortWithStatus(http.StatusUnsupportedMediaType)
}

// abortWithError writes XML only when the client asked for it, JSON otherwise.
func abortWithError(c *gin.Context, status int, body Error) {
	if format, ok := Negotiate(c); ok && format == cache.FormatXML {
		c.Abort()
		c.XML(status, body)
		return
	}
	c.AbortWithStatusJSON(status, body)
}
