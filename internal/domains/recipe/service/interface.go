package service

import (
	"context"

	"github.com/google/uuid"

	"recipebook-backend/internal/domains/recipe/model"
	vocabModel "recipebook-backend/internal/domains/vocabulary/model"
)

// ServiceInterface - recipe use cases. actorID is the authenticated caller.
type ServiceInterface interface {
	Create(ctx context.Context, actorID uuid.UUID, req model.RecipeRequest) (*model.Recipe, error)

	// Get returns the recipe together with its reviews
	Get(ctx context.Context, id uuid.UUID) (*model.Detail, error)

	Update(ctx context.Context, actorID, id uuid.UUID, req model.RecipeRequest) (*model.Recipe, error)
	Patch(ctx context.Context, actorID, id uuid.UUID, req model.PatchRecipeRequest) (*model.Recipe, error)

	// Delete is idempotent for a missing recipe
	Delete(ctx context.Context, actorID, id uuid.UUID) error

	// AttachVocabulary links an ingredient or tag. Conflict when already linked.
	AttachVocabulary(ctx context.Context, actorID, id uuid.UUID, kind vocabModel.Kind, name string) error

	// DetachVocabulary is a no-op when the name is not linked
	DetachVocabulary(ctx context.Context, actorID, id uuid.UUID, kind vocabModel.Kind, name string) error

	List(ctx context.Context, page int) (*model.Page, error)
	Search(ctx context.Context, filter model.SearchFilter) (*model.Page, error)

	// ListByOwner pages the recipes of one user; NotFound when the user does not exist
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page int) (*model.Page, error)
}
