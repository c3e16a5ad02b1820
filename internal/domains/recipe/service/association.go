package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	vocabModel "recipebook-backend/internal/domains/vocabulary/model"
	vocabRepo "recipebook-backend/internal/domains/vocabulary/repository"
	"recipebook-backend/internal/shared/apperror"
)

// AttachResult of linking a vocabulary name to a recipe.
type AttachResult int

const (
	AttachCreated AttachResult = iota + 1
	AttachAlreadyLinked
)

func (r AttachResult) String() string {
	switch r {
	case AttachCreated:
		return "created"
	case AttachAlreadyLinked:
		return "already_linked"
	default:
		return "unknown"
	}
}

// AssociationManager links recipes to the shared ingredient and tag vocabularies.
// Callers hold the recipe row lock in tx, so check-then-link is atomic per recipe.
type AssociationManager struct {
	vocab vocabRepo.VocabularyRepository
}

func NewAssociationManager(vocab vocabRepo.VocabularyRepository) *AssociationManager {
	return &AssociationManager{vocab: vocab}
}

// Attach reuses a case-insensitive match or creates the canonical entry, then links it.
func (m *AssociationManager) Attach(ctx context.Context, tx pgx.Tx, recipeID uuid.UUID, kind vocabModel.Kind, rawName string) (AttachResult, error) {
	name := strings.TrimSpace(rawName)
	if err := vocabModel.ValidateName(name); err != nil {
		return 0, apperror.Validation(err)
	}

	entry, err := m.vocab.FindByNameWithTx(ctx, tx, kind, name)
	switch {
	case errors.Is(err, vocabModel.ErrEntryNotFound):
		entry, err = m.vocab.CreateWithTx(ctx, tx, &vocabModel.Entry{
			ID:      uuid.New(),
			Kind:    kind,
			Name:    vocabModel.Canonical(name),
			Version: 1,
		})
		if err != nil {
			return 0, err
		}
	case err != nil:
		return 0, err
	default:
		linked, err := m.vocab.IsLinkedWithTx(ctx, tx, kind, recipeID, entry.ID)
		if err != nil {
			return 0, err
		}
		if linked {
			return AttachAlreadyLinked, nil
		}
	}

	inserted, err := m.vocab.LinkWithTx(ctx, tx, kind, recipeID, entry.ID)
	if err != nil {
		return 0, err
	}
	if !inserted {
		return AttachAlreadyLinked, nil
	}
	return AttachCreated, nil
}

// Detach unlinks the named entry. Unknown or unlinked names are a no-op.
func (m *AssociationManager) Detach(ctx context.Context, tx pgx.Tx, recipeID uuid.UUID, kind vocabModel.Kind, rawName string) (bool, error) {
	name := strings.TrimSpace(rawName)
	if name == "" {
		return false, nil
	}

	entry, err := m.vocab.FindByNameWithTx(ctx, tx, kind, name)
	if errors.Is(err, vocabModel.ErrEntryNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return m.vocab.UnlinkWithTx(ctx, tx, kind, recipeID, entry.ID)
}
