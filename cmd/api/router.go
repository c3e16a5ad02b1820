package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	vocabModel "recipebook-backend/internal/domains/vocabulary/model"
	"recipebook-backend/internal/shared/middleware"
	"recipebook-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	auth := middleware.AuthMiddleware(c.UserService)

	router.GET("/health", healthCheckHandler(c))

	setupUserRoutes(router, c, auth)
	setupRecipeRoutes(router, c, auth)
	setupReviewRoutes(router, c, auth)

	return router
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(r *gin.Engine, c *container.Container, auth gin.HandlerFunc) {
	r.POST("/user", c.UserHandler.Register)

	user := r.Group("/user", auth)
	{
		user.GET("/:id", c.UserHandler.GetUser)
		user.GET("/:id/recipes", c.RecipeHandler.ListUserRecipes)
		user.PUT("", c.UserHandler.UpdateUser)
		user.PATCH("", c.UserHandler.PatchUser)
		user.DELETE("", c.UserHandler.DeleteUser)
		user.POST("/resetToken", c.UserHandler.ResetToken)
	}

	users := r.Group("/users", auth)
	{
		users.GET("", c.UserHandler.ListUsers)
		users.GET("/search", c.UserHandler.SearchUsers)
	}
}

// ========================================
// RECIPE ROUTES
// ========================================
func setupRecipeRoutes(r *gin.Engine, c *container.Container, auth gin.HandlerFunc) {
	h := c.RecipeHandler

	// Public
	r.GET("/recipe/:id", h.GetRecipe)
	r.GET("/recipes", h.ListRecipes)
	r.GET("/recipes/search", h.SearchRecipes)

	recipe := r.Group("/recipe", auth)
	{
		recipe.POST("", h.CreateRecipe)
		recipe.PUT("/:id", h.UpdateRecipe)
		recipe.PATCH("/:id", h.PatchRecipe)
		recipe.DELETE("/:id", h.DeleteRecipe)

		recipe.POST("/:id/ingredient/:name", h.Attach(vocabModel.KindIngredient))
		recipe.DELETE("/:id/ingredient/:name", h.Detach(vocabModel.KindIngredient))
		recipe.POST("/:id/tag/:name", h.Attach(vocabModel.KindTag))
		recipe.DELETE("/:id/tag/:name", h.Detach(vocabModel.KindTag))

		recipe.POST("/:id/review", c.ReviewHandler.CreateReview)
	}
}

// ========================================
// REVIEW ROUTES
// ========================================
func setupReviewRoutes(r *gin.Engine, c *container.Container, auth gin.HandlerFunc) {
	r.GET("/review/:id", c.ReviewHandler.GetReview)

	review := r.Group("/review", auth)
	{
		review.PUT("/:id", c.ReviewHandler.UpdateReview)
		review.DELETE("/:id", c.ReviewHandler.DeleteReview)
	}
}

// ========================================
// HEALTH
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		if err := c.HealthCheck(checkCtx); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": c.Config.App.Version,
			"time":    time.Now().Format(time.RFC3339),
		})
	}
}
