package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recipebook-backend/internal/domains/review/model"
)

// =====================================================
// REVIEW REPOSITORY INTERFACE
// =====================================================

type ReviewRepository interface {
	// ========================================
	// CRUD Operations
	// ========================================

	// FindByID returns model.ErrReviewNotFound on a miss
	FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error)

	// FindByIDWithTx locks the row for the rest of tx
	FindByIDWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Review, error)

	// FindByAuthorAndRecipeWithTx is the uniqueness lookup
	FindByAuthorAndRecipeWithTx(ctx context.Context, tx pgx.Tx, authorID, recipeID uuid.UUID) (*model.Review, error)

	// CreateWithTx returns model.ErrAlreadyReviewed on a unique violation
	CreateWithTx(ctx context.Context, tx pgx.Tx, review *model.Review) error

	// UpdateWithTx bumps Version; model.ErrVersionConflict when stale
	UpdateWithTx(ctx context.Context, tx pgx.Tx, review *model.Review) error

	DeleteWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error

	// ========================================
	// LIST Operations
	// ========================================

	// ListByRecipe returns reviews oldest first
	ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]*model.Review, error)

	// ========================================
	// CASCADE
	// ========================================

	// DeleteForCascadeWithTx removes every review written by authorID (if set) or
	// attached to one of recipeIDs, and returns what it removed.
	DeleteForCascadeWithTx(ctx context.Context, tx pgx.Tx, authorID *uuid.UUID, recipeIDs []uuid.UUID) ([]*model.Review, error)
}
