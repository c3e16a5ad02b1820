package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"recipebook-backend/internal/domains/recipe/model"
	"recipebook-backend/pkg/database"
)

// recipeSelect aggregates vocabulary names so one row carries the whole recipe.
const recipeSelect = `
	SELECT
		r.id, r.owner_id, r.name, r.description, r.difficulty, r.steps,
		r.kitchen, r.rations, r.time, r.type, r.version, r.created_at, r.updated_at,
		COALESCE((SELECT array_agg(i.name ORDER BY i.name)
		          FROM recipe_ingredients ri JOIN ingredients i ON i.id = ri.ingredient_id
		          WHERE ri.recipe_id = r.id), '{}') AS ingredients,
		COALESCE((SELECT array_agg(t.name ORDER BY t.name)
		          FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
		          WHERE rt.recipe_id = r.id), '{}') AS tags
	FROM recipes r`

type postgresRecipeRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRecipeRepository(pool *pgxpool.Pool) RecipeRepository {
	return &postgresRecipeRepository{pool: pool}
}

func scanRecipe(row pgx.Row) (*model.Recipe, error) {
	r := &model.Recipe{}
	var ingredients, tags []string
	err := row.Scan(
		&r.ID, &r.Owner, &r.Name, &r.Description, &r.Difficulty, &r.Steps,
		&r.Kitchen, &r.Rations, &r.Time, &r.Type, &r.Version, &r.CreatedAt, &r.UpdatedAt,
		pq.Array(&ingredients), pq.Array(&tags),
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRecipeNotFound
		}
		return nil, err
	}
	r.Ingredients = ingredients
	r.Tags = tags
	return r, nil
}

func findRecipe(ctx context.Context, db database.DBTX, where string, args ...any) (*model.Recipe, error) {
	r, err := scanRecipe(db.QueryRow(ctx, recipeSelect+` WHERE `+where, args...))
	if err != nil && !errors.Is(err, model.ErrRecipeNotFound) {
		return nil, fmt.Errorf("find recipe: %w", err)
	}
	return r, err
}

// =====================================================
// READ
// =====================================================

func (p *postgresRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	return findRecipe(ctx, p.pool, `r.id = $1`, id)
}

func (p *postgresRecipeRepository) FindByIDWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Recipe, error) {
	// lock first; FOR UPDATE is not allowed next to the aggregate subselects
	var locked uuid.UUID
	if err := tx.QueryRow(ctx, `SELECT id FROM recipes WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("lock recipe: %w", err)
	}
	return findRecipe(ctx, tx, `r.id = $1`, id)
}

func (p *postgresRecipeRepository) FindByNameAndOwnerWithTx(ctx context.Context, tx pgx.Tx, name string, ownerID uuid.UUID) (*model.Recipe, error) {
	return findRecipe(ctx, tx, `r.name = $1 AND r.owner_id = $2`, name, ownerID)
}

// =====================================================
// WRITE
// =====================================================

func (p *postgresRecipeRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, r *model.Recipe) error {
	q := `
		INSERT INTO recipes (
			id, owner_id, name, description, difficulty, steps,
			kitchen, rations, time, type, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := tx.Exec(ctx, q,
		r.ID, r.Owner, r.Name, r.Description, r.Difficulty, r.Steps,
		r.Kitchen, r.Rations, r.Time, r.Type, r.Version, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrDuplicateRecipe
		}
		return fmt.Errorf("create recipe: %w", err)
	}
	return nil
}

func (p *postgresRecipeRepository) UpdateWithTx(ctx context.Context, tx pgx.Tx, r *model.Recipe) error {
	q := `
		UPDATE recipes SET
			name = $1, description = $2, difficulty = $3, steps = $4,
			kitchen = $5, rations = $6, time = $7, type = $8,
			version = version + 1, updated_at = $9
		WHERE id = $10 AND version = $11
		RETURNING version, updated_at
	`
	err := tx.QueryRow(ctx, q,
		r.Name, r.Description, r.Difficulty, r.Steps,
		r.Kitchen, r.Rations, r.Time, r.Type,
		time.Now(), r.ID, r.Version,
	).Scan(&r.Version, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrVersionConflict
		}
		if database.IsUniqueViolation(err) {
			return model.ErrDuplicateRecipe
		}
		return fmt.Errorf("update recipe: %w", err)
	}
	return nil
}

func (p *postgresRecipeRepository) DeleteWithTx(ctx context.Context, tx pgx.Tx, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := tx.Exec(ctx, `DELETE FROM recipes WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("delete recipes: %w", err)
	}
	return nil
}

func (p *postgresRecipeRepository) ListIDsByOwnerWithTx(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := tx.Query(ctx, `SELECT id FROM recipes WHERE owner_id = $1 ORDER BY id FOR UPDATE`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list owner recipes: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("collect owner recipes: %w", err)
	}
	return ids, nil
}

// =====================================================
// SEARCH
// =====================================================

func (p *postgresRecipeRepository) Search(ctx context.Context, filter model.SearchFilter) ([]*model.Recipe, int, error) {
	countQuery, countArgs := buildCountQuery(filter)
	var total int
	if err := p.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	q, args := buildSearchQuery(filter)
	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]*model.Recipe, 0, 25)
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, r)
	}
	return recipes, total, rows.Err()
}
