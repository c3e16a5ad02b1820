package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	recipeRepo "recipebook-backend/internal/domains/recipe/repository"
	reviewRepo "recipebook-backend/internal/domains/review/repository"
	vocabRepo "recipebook-backend/internal/domains/vocabulary/repository"
)

// Cascade holds the explicit delete routines for recipes and for a user's content.
// Everything runs inside the caller's transaction.
type Cascade struct {
	recipes recipeRepo.RecipeRepository
	reviews reviewRepo.ReviewRepository
	vocab   vocabRepo.VocabularyRepository
}

func NewCascade(recipes recipeRepo.RecipeRepository, reviews reviewRepo.ReviewRepository, vocab vocabRepo.VocabularyRepository) *Cascade {
	return &Cascade{recipes: recipes, reviews: reviews, vocab: vocab}
}

// RecipesWithTx deletes the recipes, their reviews and their vocabulary links.
// Ingredients and tags themselves are shared and stay.
func (c *Cascade) RecipesWithTx(ctx context.Context, tx pgx.Tx, recipeIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(recipeIDs) == 0 {
		return nil, nil
	}
	removed, err := c.reviews.DeleteForCascadeWithTx(ctx, tx, nil, recipeIDs)
	if err != nil {
		return nil, err
	}
	if err := c.vocab.UnlinkAllWithTx(ctx, tx, recipeIDs); err != nil {
		return nil, err
	}
	if err := c.recipes.DeleteWithTx(ctx, tx, recipeIDs...); err != nil {
		return nil, err
	}

	reviewIDs := make([]uuid.UUID, 0, len(removed))
	for _, rv := range removed {
		reviewIDs = append(reviewIDs, rv.ID)
	}
	return reviewIDs, nil
}

// UserWithTx deletes every recipe owned by userID and every review it wrote.
// recipeIDs also lists other users' recipes that lost one of those reviews.
func (c *Cascade) UserWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (recipeIDs, reviewIDs []uuid.UUID, err error) {
	owned, err := c.recipes.ListIDsByOwnerWithTx(ctx, tx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list owned recipes: %w", err)
	}

	removed, err := c.reviews.DeleteForCascadeWithTx(ctx, tx, &userID, owned)
	if err != nil {
		return nil, nil, err
	}
	if err := c.vocab.UnlinkAllWithTx(ctx, tx, owned); err != nil {
		return nil, nil, err
	}
	if err := c.recipes.DeleteWithTx(ctx, tx, owned...); err != nil {
		return nil, nil, err
	}

	seen := make(map[uuid.UUID]bool, len(owned))
	for _, id := range owned {
		seen[id] = true
		recipeIDs = append(recipeIDs, id)
	}
	for _, rv := range removed {
		reviewIDs = append(reviewIDs, rv.ID)
		if !seen[rv.RecipeID] {
			seen[rv.RecipeID] = true
			recipeIDs = append(recipeIDs, rv.RecipeID)
		}
	}
	return recipeIDs, reviewIDs, nil
}
