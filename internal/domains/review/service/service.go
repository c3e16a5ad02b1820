package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	recipeModel "recipebook-backend/internal/domains/recipe/model"
	recipeRepo "recipebook-backend/internal/domains/recipe/repository"
	"recipebook-backend/internal/domains/review/model"
	"recipebook-backend/internal/domains/review/repository"
	"recipebook-backend/internal/shared/access"
	"recipebook-backend/internal/shared/apperror"
	"recipebook-backend/pkg/cache"
	"recipebook-backend/pkg/database"
	"recipebook-backend/pkg/logger"
)

// =====================================================
// REVIEW SERVICE
// =====================================================

type reviewService struct {
	reviews  repository.ReviewRepository
	recipes  recipeRepo.RecipeRepository
	tm       database.TransactionManager
	cache    cache.Cache
	cacheTTL cache.TTLConfig
}

func NewReviewService(
	reviews repository.ReviewRepository,
	recipes recipeRepo.RecipeRepository,
	tm database.TransactionManager,
	c cache.Cache,
	ttl cache.TTLConfig,
) ServiceInterface {
	return &reviewService{
		reviews:  reviews,
		recipes:  recipes,
		tm:       tm,
		cache:    c,
		cacheTTL: ttl,
	}
}

func classify(err error) error {
	var ce *apperror.CatalogError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ce):
		return err
	case errors.Is(err, model.ErrReviewNotFound):
		return model.NewReviewNotFoundError()
	case errors.Is(err, model.ErrAlreadyReviewed):
		return model.NewAlreadyReviewedError()
	case errors.Is(err, model.ErrNotAuthor):
		return model.NewNotAuthorError()
	case errors.Is(err, model.ErrVersionConflict):
		return model.NewVersionConflictError()
	case errors.Is(err, recipeModel.ErrRecipeNotFound):
		return recipeModel.NewRecipeNotFoundError()
	default:
		return apperror.Storage(err)
	}
}

// evict drops the review and the recipe whose cached detail embeds it.
func (s *reviewService) evict(ctx context.Context, reviewID, recipeID uuid.UUID) {
	if err := cache.Invalidate(ctx, s.cache, cache.KindReview, reviewID); err != nil {
		logger.Warn("cache invalidation failed", err, map[string]interface{}{"review_id": reviewID.String()})
	}
	if err := cache.Invalidate(ctx, s.cache, cache.KindRecipe, recipeID); err != nil {
		logger.Warn("cache invalidation failed", err, map[string]interface{}{"recipe_id": recipeID.String()})
	}
}

// =====================================================
// CREATE
// =====================================================

// Create adds the caller's review to a recipe; one review per author and recipe.
func (s *reviewService) Create(ctx context.Context, actorID, recipeID uuid.UUID, req model.ReviewRequest) (*model.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}

	now := time.Now()
	rv := &model.Review{
		ID:        uuid.New(),
		Author:    actorID,
		RecipeID:  recipeID,
		Comment:   req.Comment,
		Rating:    req.RatingDecimal(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := database.WithTransaction(ctx, s.tm, func(tx pgx.Tx) error {
		// Step 1: recipe must exist; the lock serialises reviews of the same recipe
		if _, err := s.recipes.FindByIDWithTx(ctx, tx, recipeID); err != nil {
			return err
		}

		// Step 2: duplicate guard
		if _, err := s.reviews.FindByAuthorAndRecipeWithTx(ctx, tx, actorID, recipeID); err == nil {
			return model.ErrAlreadyReviewed
		} else if !errors.Is(err, model.ErrReviewNotFound) {
			return err
		}

		// Step 3: insert
		return s.reviews.CreateWithTx(ctx, tx, rv)
	})
	if err != nil {
		return nil, classify(err)
	}

	s.evict(ctx, rv.ID, recipeID)
	logger.Info("review created", map[string]interface{}{"review_id": rv.ID.String(), "recipe_id": recipeID.String()})
	return rv, nil
}

// =====================================================
// READ
// =====================================================

func (s *reviewService) Get(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	rv, err := cache.GetOrLoad(ctx, s.cache, cache.EntityKey(cache.KindReview, id), s.cacheTTL.Entity,
		func(ctx context.Context) (*model.Review, error) {
			return s.reviews.FindByID(ctx, id)
		})
	return rv, classify(err)
}

// =====================================================
// UPDATE & DELETE
// =====================================================

func (s *reviewService) Update(ctx context.Context, actorID, id uuid.UUID, req model.ReviewRequest) (*model.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}

	rv, err := database.WithTransactionResult(ctx, s.tm, func(tx pgx.Tx) (*model.Review, error) {
		rv, err := s.reviews.FindByIDWithTx(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if !access.IsOwner(rv, actorID) {
			return nil, model.ErrNotAuthor
		}

		rv.Comment = req.Comment
		rv.Rating = req.RatingDecimal()
		if err := s.reviews.UpdateWithTx(ctx, tx, rv); err != nil {
			return nil, err
		}
		return rv, nil
	})
	if err != nil {
		return nil, classify(err)
	}

	s.evict(ctx, rv.ID, rv.RecipeID)
	return rv, nil
}

// Delete: a review that no longer exists is already deleted.
func (s *reviewService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	var recipeID uuid.UUID
	err := database.WithTransaction(ctx, s.tm, func(tx pgx.Tx) error {
		rv, err := s.reviews.FindByIDWithTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if !access.IsOwner(rv, actorID) {
			return model.ErrNotAuthor
		}
		recipeID = rv.RecipeID
		return s.reviews.DeleteWithTx(ctx, tx, id)
	})
	if errors.Is(err, model.ErrReviewNotFound) {
		return nil
	}
	if err != nil {
		return classify(err)
	}

	s.evict(ctx, id, recipeID)
	return nil
}
