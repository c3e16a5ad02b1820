package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"recipebook-backend/internal/domains/user/model"
	"recipebook-backend/internal/domains/user/service"
	"recipebook-backend/internal/shared"
	"recipebook-backend/internal/shared/middleware"
	"recipebook-backend/internal/shared/query"
	"recipebook-backend/internal/shared/response"
	"recipebook-backend/internal/shared/utils"
	"recipebook-backend/pkg/cache"
)

// UserHandler serves the user endpoints.
type UserHandler struct {
	service  service.ServiceInterface
	cache    cache.Cache
	cacheTTL cache.TTLConfig
}

func NewUserHandler(svc service.ServiceInterface, c cache.Cache, ttl cache.TTLConfig) *UserHandler {
	return &UserHandler{service: svc, cache: c, cacheTTL: ttl}
}

// ========================================
// REGISTRATION & TOKEN
// ========================================

// Register POST /user
// The raw token is returned once, in the Authorization header.
func (h *UserHandler) Register(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	u, raw, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.Header(shared.HeaderAuthorization, raw)
	c.Header("Location", "/user/"+u.ID.String())
	response.Render(c, http.StatusCreated, model.ToResponse(u))
}

// ResetToken POST /user/resetToken
func (h *UserHandler) ResetToken(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	raw, err := h.service.ResetToken(c.Request.Context(), actorID)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.Header(shared.HeaderAuthorization, raw)
	c.Status(http.StatusOK)
}

// ========================================
// READ
// ========================================

// GetUser GET /user/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := utils.ParseUUID(c.Param("id"))
	if !ok {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	response.RenderCached(c, h.cache, cache.KindUser, id, h.cacheTTL.Entity,
		func(ctx context.Context) (interface{}, error) {
			u, err := h.service.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			return model.ToResponse(u), nil
		})
}

// ListUsers GET /users?page
func (h *UserHandler) ListUsers(c *gin.Context) {
	if _, ok := response.Negotiate(c); !ok {
		response.UnsupportedMediaType(c)
		return
	}

	p, err := h.service.List(c.Request.Context(), query.ParsePage(c.Query("page")))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Render(c, http.StatusOK, model.ToCollection(p.Page, p.Total, p.Users))
}

// SearchUsers GET /users/search?name&city&sortBy&page
func (h *UserHandler) SearchUsers(c *gin.Context) {
	if _, ok := response.Negotiate(c); !ok {
		response.UnsupportedMediaType(c)
		return
	}

	p, err := h.service.Search(c.Request.Context(), model.ParseSearchFilter(c.Request.URL.Query()))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Render(c, http.StatusOK, model.ToCollection(p.Page, p.Total, p.Users))
}

// ========================================
// UPDATE & DELETE (own account only)
// ========================================

// UpdateUser PUT /user
func (h *UserHandler) UpdateUser(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	u, err := h.service.Update(c.Request.Context(), actorID, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Render(c, http.StatusOK, model.ToResponse(u))
}

// PatchUser PATCH /user
func (h *UserHandler) PatchUser(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req model.PatchUserRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	u, err := h.service.Patch(c.Request.Context(), actorID, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Render(c, http.StatusOK, model.ToResponse(u))
}

// DeleteUser DELETE /user
// Removes the caller with all of its recipes and reviews.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), actorID); err != nil {
		response.HandleError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
