package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recipebook-backend/internal/domains/user/model"
)

// UserRepository: methods ending in WithTx run inside the caller's transaction.
// Lookups return model.ErrUserNotFound when nothing matches.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByIDWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.User, error)
	FindByDNIWithTx(ctx context.Context, tx pgx.Tx, dni string) (*model.User, error)
	CreateWithTx(ctx context.Context, tx pgx.Tx, u *model.User) error
	// UpdateWithTx bumps Version; model.ErrVersionConflict if u.Version is stale.
	UpdateWithTx(ctx context.Context, tx pgx.Tx, u *model.User) error
	DeleteWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	Search(ctx context.Context, filter model.SearchFilter) ([]*model.User, int, error)
}

// TokenRepository stores token digests, one per user.
type TokenRepository interface {
	CreateWithTx(ctx context.Context, tx pgx.Tx, t *model.Token) error
	// DeleteByUserWithTx returns the removed digest, "" if the user had none.
	DeleteByUserWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (string, error)
	// FindUserIDByDigest returns model.ErrTokenNotFound on a miss.
	FindUserIDByDigest(ctx context.Context, digest string) (uuid.UUID, error)
}
