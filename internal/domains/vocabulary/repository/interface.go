package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recipebook-backend/internal/domains/vocabulary/model"
)

// =====================================================
// VOCABULARY REPOSITORY INTERFACE
// =====================================================

// VocabularyRepository serves both ingredients and tags; kind picks the tables.
type VocabularyRepository interface {
	// FindByNameWithTx is case-insensitive. model.ErrEntryNotFound on a miss.
	FindByNameWithTx(ctx context.Context, tx pgx.Tx, kind model.Kind, name string) (*model.Entry, error)

	// CreateWithTx inserts e unless a case-insensitive match exists, and returns
	// whichever entry ends up stored.
	CreateWithTx(ctx context.Context, tx pgx.Tx, e *model.Entry) (*model.Entry, error)

	// IsLinkedWithTx reports whether recipeID already references entryID.
	IsLinkedWithTx(ctx context.Context, tx pgx.Tx, kind model.Kind, recipeID, entryID uuid.UUID) (bool, error)

	// LinkWithTx returns false when the link already existed.
	LinkWithTx(ctx context.Context, tx pgx.Tx, kind model.Kind, recipeID, entryID uuid.UUID) (bool, error)

	// UnlinkWithTx returns false when there was nothing to remove.
	UnlinkWithTx(ctx context.Context, tx pgx.Tx, kind model.Kind, recipeID, entryID uuid.UUID) (bool, error)

	// UnlinkAllWithTx releases every ingredient and tag link of the recipes.
	UnlinkAllWithTx(ctx context.Context, tx pgx.Tx, recipeIDs []uuid.UUID) error
}
