package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"recipebook-backend/internal/domains/review/model"
	"recipebook-backend/internal/domains/review/service"
	"recipebook-backend/internal/shared/middleware"
	"recipebook-backend/internal/shared/response"
	"recipebook-backend/internal/shared/utils"
	"recipebook-backend/pkg/cache"
)

// =====================================================
// REVIEW HANDLER
// =====================================================

type ReviewHandler struct {
	reviewService service.ServiceInterface
	cache         cache.Cache
	cacheTTL      cache.TTLConfig
}

func NewReviewHandler(reviewService service.ServiceInterface, c cache.Cache, ttl cache.TTLConfig) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		cache:         c,
		cacheTTL:      ttl,
	}
}

// CreateReview POST /recipe/:id/review
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	// Step 1: caller + recipe id
	userID, ok := middleware.ActorID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	recipeID, ok := utils.ParseUUID(c.Param("id"))
	if !ok {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	// Step 2: bind body
	var req model.ReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 3: call service
	rv, err := h.reviewService.Create(c.Request.Context(), userID, recipeID, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.Header("Location", "/review/"+rv.ID.String())
	response.Render(c, http.StatusCreated, model.ToResponse(rv))
}

// GetReview GET /review/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, ok := utils.ParseUUID(c.Param("id"))
	if !ok {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	response.RenderCached(c, h.cache, cache.KindReview, id, h.cacheTTL.Entity,
		func(ctx context.Context) (interface{}, error) {
			rv, err := h.reviewService.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			return model.ToResponse(rv), nil
		})
}

// UpdateReview PUT /review/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, ok := middleware.ActorID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	id, ok := utils.ParseUUID(c.Param("id"))
	if !ok {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	var req model.ReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rv, err := h.reviewService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Render(c, http.StatusOK, model.ToResponse(rv))
}

// DeleteReview DELETE /review/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := middleware.ActorID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	id, ok := utils.ParseUUID(c.Param("id"))
	if !ok {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), userID, id); err != nil {
		response.HandleError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
