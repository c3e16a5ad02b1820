package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recipebook-backend/internal/domains/recipe/model"
)

// =====================================================
// RECIPE REPOSITORY INTERFACE
// =====================================================

// RecipeRepository: lookups return model.ErrRecipeNotFound on a miss.
// Returned recipes carry their ingredient and tag names.
type RecipeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error)

	// FindByIDWithTx locks the recipe row for the rest of tx
	FindByIDWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Recipe, error)

	// FindByNameAndOwnerWithTx is the uniqueness lookup, exact name match
	FindByNameAndOwnerWithTx(ctx context.Context, tx pgx.Tx, name string, ownerID uuid.UUID) (*model.Recipe, error)

	// CreateWithTx returns model.ErrDuplicateRecipe on a unique violation
	CreateWithTx(ctx context.Context, tx pgx.Tx, r *model.Recipe) error

	// UpdateWithTx writes scalar fields and bumps Version
	UpdateWithTx(ctx context.Context, tx pgx.Tx, r *model.Recipe) error

	DeleteWithTx(ctx context.Context, tx pgx.Tx, ids ...uuid.UUID) error

	// ListIDsByOwnerWithTx locks and returns every recipe of ownerID
	ListIDsByOwnerWithTx(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID) ([]uuid.UUID, error)

	// Search returns one page plus the count of the same predicate
	Search(ctx context.Context, filter model.SearchFilter) ([]*model.Recipe, int, error)
}
