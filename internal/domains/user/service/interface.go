package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recipebook-backend/internal/domains/user/model"
)

// ServiceInterface is the user use-case boundary. actorID is the authenticated caller.
type ServiceInterface interface {
	// Register returns the new user and its raw token; only the digest is stored.
	Register(ctx context.Context, req model.CreateUserRequest) (*model.User, string, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	Update(ctx context.Context, actorID uuid.UUID, req model.UpdateUserRequest) (*model.User, error)
	Patch(ctx context.Context, actorID uuid.UUID, req model.PatchUserRequest) (*model.User, error)
	Delete(ctx context.Context, actorID uuid.UUID) error
	ResetToken(ctx context.Context, actorID uuid.UUID) (string, error)

	// Authenticate resolves a raw token to its user, Unauthorized otherwise.
	Authenticate(ctx context.Context, rawToken string) (*model.User, error)

	List(ctx context.Context, page int) (*model.Page, error)
	Search(ctx context.Context, filter model.SearchFilter) (*model.Page, error)
}

// ContentCascader removes everything a user owns inside the delete transaction.
// It returns every recipe and review whose cached form is now stale.
type ContentCascader interface {
	UserWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (recipeIDs, reviewIDs []uuid.UUID, err error)
}
