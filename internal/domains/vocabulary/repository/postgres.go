package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recipebook-backend/internal/domains/vocabulary/model"
)

// tables per kind; never built from user input
type kindTables struct {
	entries string
	links   string
	fk      string
}

var tablesByKind = map[model.Kind]kindTables{
	model.KindIngredient: {entries: "ingredients", links: "recipe_ingredients", fk: "ingredient_id"},
	model.KindTag:        {entries: "tags", links: "recipe_tags", fk: "tag_id"},
}

func tablesFor(kind model.Kind) (kindTables, error) {
	t, ok := tablesByKind[kind]
	if !ok {
		return kindTables{}, fmt.Errorf("unknown vocabulary kind %q", kind)
	}
	return t, nil
}

type postgresVocabularyRepository struct{}

func NewPostgresVocabularyRepository() VocabularyRepository {
	return &postgresVocabularyRepository{}
}

func (r *postgresVocabularyRepository) FindByNameWithTx(ctx context.Context, tx pgx.Tx, kind model.Kind, name string) (*model.Entry, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}

	e := &model.Entry{Kind: kind}
	q := fmt.Sprintf(`SELECT id, name, version FROM %s WHERE lower(name) = lower($1)`, t.entries)
	if err := tx.QueryRow(ctx, q, name).Scan(&e.ID, &e.Name, &e.Version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrEntryNotFound
		}
		return nil, fmt.Errorf("find %s by name: %w", kind, err)
	}
	return e, nil
}

func (r *postgresVocabularyRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, e *model.Entry) (*model.Entry, error) {
	t, err := tablesFor(e.Kind)
	if err != nil {
		return nil, err
	}

	// A concurrent writer may have inserted the same name; re-read instead of failing.
	q := fmt.Sprintf(`
		INSERT INTO %s (id, name, version) VALUES ($1, $2, $3)
		ON CONFLICT (lower(name)) DO NOTHING
	`, t.entries)
	tag, err := tx.Exec(ctx, q, e.ID, e.Name, e.Version)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", e.Kind, err)
	}
	if tag.RowsAffected() == 1 {
		return e, nil
	}
	return r.FindByNameWithTx(ctx, tx, e.Kind, e.Name)
}

func (r *postgresVocabularyRepository) IsLinkedWithTx(ctx context.Context, tx pgx.Tx, kind model.Kind, recipeID, entryID uuid.UUID) (bool, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return false, err
	}

	var linked bool
	q := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE recipe_id = $1 AND %s = $2)`, t.links, t.fk)
	if err := tx.QueryRow(ctx, q, recipeID, entryID).Scan(&linked); err != nil {
		return false, fmt.Errorf("check %s link: %w", kind, err)
	}
	return linked, nil
}

func (r *postgresVocabularyRepository) LinkWithTx(ctx context.Context, tx pgx.Tx, kind model.Kind, recipeID, entryID uuid.UUID) (bool, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return false, err
	}

	q := fmt.Sprintf(`INSERT INTO %s (recipe_id, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`, t.links, t.fk)
	tag, err := tx.Exec(ctx, q, recipeID, entryID)
	if err != nil {
		return false, fmt.Errorf("link %s: %w", kind, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresVocabularyRepository) UnlinkWithTx(ctx context.Context, tx pgx.Tx, kind model.Kind, recipeID, entryID uuid.UUID) (bool, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return false, err
	}

	q := fmt.Sprintf(`DELETE FROM %s WHERE recipe_id = $1 AND %s = $2`, t.links, t.fk)
	tag, err := tx.Exec(ctx, q, recipeID, entryID)
	if err != nil {
		return false, fmt.Errorf("unlink %s: %w", kind, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresVocabularyRepository) UnlinkAllWithTx(ctx context.Context, tx pgx.Tx, recipeIDs []uuid.UUID) error {
	if len(recipeIDs) == 0 {
		return nil
	}
	for _, kind := range []model.Kind{model.KindIngredient, model.KindTag} {
		t := tablesByKind[kind]
		q := fmt.Sprintf(`DELETE FROM %s WHERE recipe_id = ANY($1)`, t.links)
		if _, err := tx.Exec(ctx, q, recipeIDs); err != nil {
			return fmt.Errorf("release %s links: %w", kind, err)
		}
	}
	return nil
}
