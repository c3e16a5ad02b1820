package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"recipebook-backend/internal/domains/review/model"
	"recipebook-backend/pkg/database"
)

const reviewColumns = `id, author_id, recipe_id, comment, rating, version, created_at, updated_at`

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &postgresReviewRepository{pool: pool}
}

func scanReview(row pgx.Row) (*model.Review, error) {
	rv := &model.Review{}
	err := row.Scan(&rv.ID, &rv.Author, &rv.RecipeID, &rv.Comment, &rv.Rating, &rv.Version, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, err
	}
	return rv, nil
}

func collectReviews(rows pgx.Rows) ([]*model.Review, error) {
	defer rows.Close()
	reviews := make([]*model.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func findOne(ctx context.Context, db database.DBTX, q string, args ...any) (*model.Review, error) {
	rv, err := scanReview(db.QueryRow(ctx, q, args...))
	if err != nil && !errors.Is(err, model.ErrReviewNotFound) {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return rv, err
}

// =====================================================
// GET
// =====================================================

func (r *postgresReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	return findOne(ctx, r.pool, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id)
}

func (r *postgresReviewRepository) FindByIDWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Review, error) {
	return findOne(ctx, tx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1 FOR UPDATE`, id)
}

func (r *postgresReviewRepository) FindByAuthorAndRecipeWithTx(ctx context.Context, tx pgx.Tx, authorID, recipeID uuid.UUID) (*model.Review, error) {
	return findOne(ctx, tx, `SELECT `+reviewColumns+` FROM reviews WHERE author_id = $1 AND recipe_id = $2`, authorID, recipeID)
}

// =====================================================
// CREATE / UPDATE / DELETE
// =====================================================

func (r *postgresReviewRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, review *model.Review) error {
	q := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.Exec(ctx, q,
		review.ID,
		review.Author,
		review.RecipeID,
		review.Comment,
		review.Rating,
		review.Version,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrAlreadyReviewed
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *postgresReviewRepository) UpdateWithTx(ctx context.Context, tx pgx.Tx, review *model.Review) error {
	q := `
		UPDATE reviews
		SET comment = $1, rating = $2, version = version + 1, updated_at = $3
		WHERE id = $4 AND version = $5
		RETURNING version, updated_at
	`
	err := tx.QueryRow(ctx, q, review.Comment, review.Rating, time.Now(), review.ID, review.Version).
		Scan(&review.Version, &review.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrVersionConflict
		}
		return fmt.Errorf("failed to update review: %w", err)
	}
	return nil
}

func (r *postgresReviewRepository) DeleteWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}

// =====================================================
// LIST
// =====================================================

func (r *postgresReviewRepository) ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]*model.Review, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE recipe_id = $1 ORDER BY created_at, id`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return collectReviews(rows)
}

// =====================================================
// CASCADE
// =====================================================

func (r *postgresReviewRepository) DeleteForCascadeWithTx(ctx context.Context, tx pgx.Tx, authorID *uuid.UUID, recipeIDs []uuid.UUID) ([]*model.Review, error) {
	if authorID == nil && len(recipeIDs) == 0 {
		return nil, nil
	}
	if recipeIDs == nil {
		recipeIDs = []uuid.UUID{}
	}
	rows, err := tx.Query(ctx, `
		DELETE FROM reviews
		WHERE ($1::uuid IS NOT NULL AND author_id = $1) OR recipe_id = ANY($2)
		RETURNING `+reviewColumns, authorID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("cascade reviews: %w", err)
	}
	return collectReviews(rows)
}
