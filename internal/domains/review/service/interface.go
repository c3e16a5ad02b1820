package service

import (
	"context"

	"github.com/google/uuid"

	"recipebook-backend/internal/domains/review/model"
)

// ServiceInterface defines review business logic. Adding a review is open to
// any authenticated user; update and delete are for the author only.
type ServiceInterface interface {
	Create(ctx context.Context, actorID, recipeID uuid.UUID, req model.ReviewRequest) (*model.Review, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Review, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req model.ReviewRequest) (*model.Review, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}
