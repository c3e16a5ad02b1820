package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recipebook-backend/internal/domains/recipe/model"
	"recipebook-backend/internal/domains/recipe/repository"
	reviewRepo "recipebook-backend/internal/domains/review/repository"
	userModel "recipebook-backend/internal/domains/user/model"
	userRepo "recipebook-backend/internal/domains/user/repository"
	vocabModel "recipebook-backend/internal/domains/vocabulary/model"
	"recipebook-backend/internal/shared/access"
	"recipebook-backend/internal/shared/apperror"
	"recipebook-backend/pkg/cache"
	"recipebook-backend/pkg/database"
	"recipebook-backend/pkg/logger"
)

type recipeService struct {
	recipes  repository.RecipeRepository
	reviews  reviewRepo.ReviewRepository
	users    userRepo.UserRepository
	assoc    *AssociationManager
	cascade  *Cascade
	tm       database.TransactionManager
	cache    cache.Cache
	cacheTTL cache.TTLConfig
}

func NewRecipeService(
	recipes repository.RecipeRepository,
	reviews reviewRepo.ReviewRepository,
	users userRepo.UserRepository,
	assoc *AssociationManager,
	cascade *Cascade,
	tm database.TransactionManager,
	c cache.Cache,
	ttl cache.TTLConfig,
) ServiceInterface {
	return &recipeService{
		recipes:  recipes,
		reviews:  reviews,
		users:    users,
		assoc:    assoc,
		cascade:  cascade,
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
	case errors.Is(err, model.ErrRecipeNotFound):
		return model.NewRecipeNotFoundError()
	case errors.Is(err, model.ErrDuplicateRecipe):
		return model.NewDuplicateRecipeError()
	case errors.Is(err, model.ErrNotOwner):
		return model.NewNotOwnerError()
	case errors.Is(err, model.ErrVersionConflict):
		return model.NewVersionConflictError()
	case errors.Is(err, userModel.ErrUserNotFound):
		return userModel.NewUserNotFoundError()
	default:
		return apperror.Storage(err)
	}
}

func (s *recipeService) evict(ctx context.Context, ids ...uuid.UUID) {
	if err := cache.Invalidate(ctx, s.cache, cache.KindRecipe, ids...); err != nil {
		logger.Warn("cache invalidation failed", err, map[string]interface{}{"kind": string(cache.KindRecipe), "count": len(ids)})
	}
}

// checkUnique fails when another recipe of ownerID already uses name.
func (s *recipeService) checkUnique(ctx context.Context, tx pgx.Tx, name string, ownerID, excludeID uuid.UUID) error {
	existing, err := s.recipes.FindByNameAndOwnerWithTx(ctx, tx, name, ownerID)
	if errors.Is(err, model.ErrRecipeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != excludeID {
		return model.ErrDuplicateRecipe
	}
	return nil
}

// lockOwned loads the recipe under a row lock and checks actorID owns it.
func (s *recipeService) lockOwned(ctx context.Context, tx pgx.Tx, actorID, id uuid.UUID) (*model.Recipe, error) {
	rec, err := s.recipes.FindByIDWithTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !access.IsOwner(rec, actorID) {
		return nil, model.ErrNotOwner
	}
	return rec, nil
}

// ========================================
// CREATE
// ========================================

func (s *recipeService) Create(ctx context.Context, actorID uuid.UUID, req model.RecipeRequest) (*model.Recipe, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}

	now := time.Now()
	rec := &model.Recipe{
		ID:          uuid.New(),
		Owner:       actorID,
		Ingredients: []string{},
		Tags:        []string{},
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	req.Apply(rec)

	err := database.WithTransaction(ctx, s.tm, func(tx pgx.Tx) error {
		if err := s.checkUnique(ctx, tx, rec.Name, actorID, uuid.Nil); err != nil {
			return err
		}
		return s.recipes.CreateWithTx(ctx, tx, rec)
	})
	if err != nil {
		return nil, classify(err)
	}

	logger.Info("recipe created", map[string]interface{}{"recipe_id": rec.ID.String(), "owner_id": actorID.String()})
	return rec, nil
}

// ========================================
// READ
// ========================================

func (s *recipeService) Get(ctx context.Context, id uuid.UUID) (*model.Detail, error) {
	d, err := cache.GetOrLoad(ctx, s.cache, cache.EntityKey(cache.KindRecipe, id), s.cacheTTL.Entity,
		func(ctx context.Context) (*model.Detail, error) {
			rec, err := s.recipes.FindByID(ctx, id)
			if err != nil {
				return nil, err
			}
			reviews, err := s.reviews.ListByRecipe(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("list reviews: %w", err)
			}
			return &model.Detail{Recipe: rec, Reviews: reviews}, nil
		})
	return d, classify(err)
}

func (s *recipeService) List(ctx context.Context, page int) (*model.Page, error) {
	p, err := cache.GetOrLoad(ctx, s.cache, cache.CollectionKey(cache.KindRecipe, page), s.cacheTTL.Collection,
		func(ctx context.Context) (*model.Page, error) {
			return s.search(ctx, model.SearchFilter{Page: page})
		})
	return p, classify(err)
}

func (s *recipeService) Search(ctx context.Context, filter model.SearchFilter) (*model.Page, error) {
	p, err := s.search(ctx, filter)
	return p, classify(err)
}

func (s *recipeService) ListByOwner(ctx context.Context, ownerID uuid.UUID, page int) (*model.Page, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, classify(err)
	}
	p, err := s.search(ctx, model.SearchFilter{UserID: &ownerID, Page: page})
	return p, classify(err)
}

func (s *recipeService) search(ctx context.Context, filter model.SearchFilter) (*model.Page, error) {
	recipes, total, err := s.recipes.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search recipes: %w", err)
	}
	return &model.Page{Page: filter.Page, Total: total, Recipes: recipes}, nil
}

// ========================================
// UPDATE
// ========================================

func (s *recipeService) Update(ctx context.Context, actorID, id uuid.UUID, req model.RecipeRequest) (*model.Recipe, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}
	return s.mutate(ctx, actorID, id, req.Apply)
}

func (s *recipeService) Patch(ctx context.Context, actorID, id uuid.UUID, req model.PatchRecipeRequest) (*model.Recipe, error) {
	if req.Empty() {
		return nil, apperror.Validation(model.ErrNothingToUpdate)
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}
	return s.mutate(ctx, actorID, id, req.Apply)
}

func (s *recipeService) mutate(ctx context.Context, actorID, id uuid.UUID, apply func(*model.Recipe)) (*model.Recipe, error) {
	rec, err := database.WithTransactionResult(ctx, s.tm, func(tx pgx.Tx) (*model.Recipe, error) {
		rec, err := s.lockOwned(ctx, tx, actorID, id)
		if err != nil {
			return nil, err
		}

		previous := rec.Name
		apply(rec)
		// Step 1: uniqueness only matters when the name moved
		if rec.Name != previous {
			if err := s.checkUnique(ctx, tx, rec.Name, rec.Owner, rec.ID); err != nil {
				return nil, err
			}
		}

		// Step 2: write
		if err := s.recipes.UpdateWithTx(ctx, tx, rec); err != nil {
			return nil, err
		}
		return rec, nil
	})
	if err != nil {
		return nil, classify(err)
	}

	s.evict(ctx, id)
	return rec, nil
}

// ========================================
// DELETE
// ========================================

func (s *recipeService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	var reviewIDs []uuid.UUID
	err := database.WithTransaction(ctx, s.tm, func(tx pgx.Tx) error {
		if _, err := s.lockOwned(ctx, tx, actorID, id); err != nil {
			return err
		}
		var err error
		reviewIDs, err = s.cascade.RecipesWithTx(ctx, tx, []uuid.UUID{id})
		return err
	})
	if errors.Is(err, model.ErrRecipeNotFound) {
		return nil
	}
	if err != nil {
		return classify(err)
	}

	s.evict(ctx, id)
	if err := cache.Invalidate(ctx, s.cache, cache.KindReview, reviewIDs...); err != nil {
		logger.Warn("cache invalidation failed", err, map[string]interface{}{"kind": string(cache.KindReview)})
	}

	logger.Info("recipe deleted", map[string]interface{}{"recipe_id": id.String(), "reviews": len(reviewIDs)})
	return nil
}

// ========================================
// INGREDIENTS & TAGS
// ========================================

func (s *recipeService) AttachVocabulary(ctx context.Context, actorID, id uuid.UUID, kind vocabModel.Kind, name string) error {
	result, err := database.WithTransactionResult(ctx, s.tm, func(tx pgx.Tx) (AttachResult, error) {
		if _, err := s.lockOwned(ctx, tx, actorID, id); err != nil {
			return 0, err
		}
		return s.assoc.Attach(ctx, tx, id, kind, name)
	})
	if err != nil {
		return classify(err)
	}
	if result == AttachAlreadyLinked {
		return vocabModel.NewAlreadyLinkedError(kind)
	}

	s.evict(ctx, id)
	return nil
}

func (s *recipeService) DetachVocabulary(ctx context.Context, actorID, id uuid.UUID, kind vocabModel.Kind, name string) error {
	removed, err := database.WithTransactionResult(ctx, s.tm, func(tx pgx.Tx) (bool, error) {
		if _, err := s.lockOwned(ctx, tx, actorID, id); err != nil {
			return false, err
		}
		return s.assoc.Detach(ctx, tx, id, kind, name)
	})
	if err != nil {
		return classify(err)
	}
	if removed {
		s.evict(ctx, id)
	}
	return nil
}
