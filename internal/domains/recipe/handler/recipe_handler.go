package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recipebook-backend/internal/domains/recipe/model"
	"recipebook-backend/internal/domains/recipe/service"
	vocabModel "recipebook-backend/internal/domains/vocabulary/model"
	"recipebook-backend/internal/shared/middleware"
	"recipebook-backend/internal/shared/query"
	"recipebook-backend/internal/shared/response"
	"recipebook-backend/internal/shared/utils"
	"recipebook-backend/pkg/cache"
)

// =====================================================
// RECIPE HANDLER
// =====================================================

type RecipeHandler struct {
	service  service.ServiceInterface
	cache    cache.Cache
	cacheTTL cache.TTLConfig
}

func NewRecipeHandler(svc service.ServiceInterface, c cache.Cache, ttl cache.TTLConfig) *RecipeHandler {
	return &RecipeHandler{service: svc, cache: c, cacheTTL: ttl}
}

// actorAndRecipe reads the caller and the :id path param. A malformed id is a 404.
func actorAndRecipe(c *gin.Context) (actorID, recipeID uuid.UUID, ok bool) {
	actorID, ok = middleware.ActorID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}
	recipeID, ok = utils.ParseUUID(c.Param("id"))
	if !ok {
		c.AbortWithStatus(http.StatusNotFound)
		return uuid.Nil, uuid.Nil, false
	}
	return actorID, recipeID, true
}

// =====================================================
// CRUD
// =====================================================

// CreateRecipe POST /recipe
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req model.RecipeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rec, err := h.service.Create(c.Request.Context(), actorID, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.Header("Location", "/recipe/"+rec.ID.String())
	response.Render(c, http.StatusCreated, model.ToResponse(rec))
}

// GetRecipe GET /recipe/:id, reviews included
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := utils.ParseUUID(c.Param("id"))
	if !ok {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	response.RenderCached(c, h.cache, cache.KindRecipe, id, h.cacheTTL.Entity,
		func(ctx context.Context) (interface{}, error) {
			d, err := h.service.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			return model.ToDetailResponse(d), nil
		})
}

// UpdateRecipe PUT /recipe/:id
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	actorID, id, ok := actorAndRecipe(c)
	if !ok {
		return
	}

	var req model.RecipeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rec, err := h.service.Update(c.Request.Context(), actorID, id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Render(c, http.StatusOK, model.ToResponse(rec))
}

// PatchRecipe PATCH /recipe/:id
func (h *RecipeHandler) PatchRecipe(c *gin.Context) {
	actorID, id, ok := actorAndRecipe(c)
	if !ok {
		return
	}

	var req model.PatchRecipeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rec, err := h.service.Patch(c.Request.Context(), actorID, id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Render(c, http.StatusOK, model.ToResponse(rec))
}

// DeleteRecipe DELETE /recipe/:id
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	actorID, id, ok := actorAndRecipe(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actorID, id); err != nil {
		response.HandleError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// =====================================================
// INGREDIENTS & TAGS
// =====================================================

// Attach returns the handler of POST /recipe/:id/{ingredient|tag}/:name
func (h *RecipeHandler) Attach(kind vocabModel.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, id, ok := actorAndRecipe(c)
		if !ok {
			return
		}

		if err := h.service.AttachVocabulary(c.Request.Context(), actorID, id, kind, c.Param("name")); err != nil {
			response.HandleError(c, err)
			return
		}
		c.Status(http.StatusCreated)
	}
}

// Detach returns the handler of DELETE /recipe/:id/{ingredient|tag}/:name
func (h *RecipeHandler) Detach(kind vocabModel.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, id, ok := actorAndRecipe(c)
		if !ok {
			return
		}

		if err := h.service.DetachVocabulary(c.Request.Context(), actorID, id, kind, c.Param("name")); err != nil {
			response.HandleError(c, err)
			return
		}
		c.Status(http.StatusOK)
	}
}

// =====================================================
// COLLECTIONS
// =====================================================

// ListRecipes GET /recipes?page
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	if _, ok := response.Negotiate(c); !ok {
		response.UnsupportedMediaType(c)
		return
	}

	p, err := h.service.List(c.Request.Context(), query.ParsePage(c.Query("page")))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Render(c, http.StatusOK, model.ToCollection(p))
}

// SearchRecipes GET /recipes/search
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	if _, ok := response.Negotiate(c); !ok {
		response.UnsupportedMediaType(c)
		return
	}

	p, err := h.service.Search(c.Request.Context(), model.ParseSearchFilter(c.Request.URL.Query()))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Render(c, http.StatusOK, model.ToCollection(p))
}

// ListUserRecipes GET /user/:id/recipes?page
func (h *RecipeHandler) ListUserRecipes(c *gin.Context) {
	ownerID, ok := utils.ParseUUID(c.Param("id"))
	if !ok {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	if _, ok := response.Negotiate(c); !ok {
		response.UnsupportedMediaType(c)
		return
	}

	p, err := h.service.ListByOwner(c.Request.Context(), ownerID, query.ParsePage(c.Query("page")))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Render(c, http.StatusOK, model.ToCollection(p))
}
