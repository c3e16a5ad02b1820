package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recipebook-backend/internal/domains/user/model"
	"recipebook-backend/internal/domains/user/repository"
	"recipebook-backend/internal/shared/apperror"
	"recipebook-backend/pkg/cache"
	"recipebook-backend/pkg/database"
	"recipebook-backend/pkg/logger"
	"recipebook-backend/pkg/token"
)

type userService struct {
	users    repository.UserRepository
	tokens   repository.TokenRepository
	cascade  ContentCascader
	tm       database.TransactionManager
	cache    cache.Cache
	cacheTTL cache.TTLConfig
}

func NewUserService(
	users repository.UserRepository,
	tokens repository.TokenRepository,
	cascade ContentCascader,
	tm database.TransactionManager,
	c cache.Cache,
	ttl cache.TTLConfig,
) ServiceInterface {
	return &userService{
		users:    users,
		tokens:   tokens,
		cascade:  cascade,
		tm:       tm,
		cache:    c,
		cacheTTL: ttl,
	}
}

// classify maps repository errors onto the client taxonomy.
func classify(err error) error {
	var ce *apperror.CatalogError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ce):
		return err
	case errors.Is(err, model.ErrUserNotFound):
		return model.NewUserNotFoundError()
	case errors.Is(err, model.ErrDuplicateDNI):
		return model.NewDuplicateUserError()
	case errors.Is(err, model.ErrVersionConflict):
		return model.NewVersionConflictError()
	default:
		return apperror.Storage(err)
	}
}

func (s *userService) evict(ctx context.Context, kind cache.Kind, ids ...uuid.UUID) {
	if err := cache.Invalidate(ctx, s.cache, kind, ids...); err != nil {
		logger.Warn("cache invalidation failed", err, map[string]interface{}{"kind": string(kind), "count": len(ids)})
	}
}

// ========================================
// REGISTRATION & TOKENS
// ========================================

// Register: validate, duplicate check and insert user + token in one transaction
func (s *userService) Register(ctx context.Context, req model.CreateUserRequest) (*model.User, string, error) {
	if err := req.Validate(); err != nil {
		return nil, "", apperror.Validation(err)
	}

	raw, err := token.Generate()
	if err != nil {
		return nil, "", apperror.Storage(err)
	}

	now := time.Now()
	u := &model.User{
		ID:        uuid.New(),
		DNI:       model.NormalizeDNI(req.DNI),
		Name:      req.Name,
		City:      req.City,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = database.WithTransaction(ctx, s.tm, func(tx pgx.Tx) error {
		// Step 1: duplicate guard
		if _, err := s.users.FindByDNIWithTx(ctx, tx, u.DNI); err == nil {
			return model.ErrDuplicateDNI
		} else if !errors.Is(err, model.ErrUserNotFound) {
			return err
		}

		// Step 2: user + token
		if err := s.users.CreateWithTx(ctx, tx, u); err != nil {
			return err
		}
		return s.tokens.CreateWithTx(ctx, tx, &model.Token{
			ID:        uuid.New(),
			UserID:    u.ID,
			Digest:    token.Digest(raw),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, "", classify(err)
	}

	logger.Info("user registered", map[string]interface{}{"user_id": u.ID.String()})
	return u, raw, nil
}

// ResetToken replaces the caller's token; the old one stops working immediately.
func (s *userService) ResetToken(ctx context.Context, actorID uuid.UUID) (string, error) {
	raw, err := token.Generate()
	if err != nil {
		return "", apperror.Storage(err)
	}

	var oldDigest string
	err = database.WithTransaction(ctx, s.tm, func(tx pgx.Tx) error {
		if _, err := s.users.FindByIDWithTx(ctx, tx, actorID); err != nil {
			return err
		}
		digest, err := s.tokens.DeleteByUserWithTx(ctx, tx, actorID)
		if err != nil {
			return err
		}
		oldDigest = digest
		return s.tokens.CreateWithTx(ctx, tx, &model.Token{
			ID:        uuid.New(),
			UserID:    actorID,
			Digest:    token.Digest(raw),
			CreatedAt: time.Now(),
		})
	})
	if err != nil {
		return "", classify(err)
	}

	if oldDigest != "" {
		if err := s.cache.Delete(ctx, cache.TokenKey(oldDigest)); err != nil {
			logger.Warn("token cache invalidation failed", err, nil)
		}
	}
	return raw, nil
}

func (s *userService) Authenticate(ctx context.Context, rawToken string) (*model.User, error) {
	if rawToken == "" {
		return nil, model.NewUnauthorizedError(model.ErrMissingAuthToken)
	}

	digest := token.Digest(rawToken)
	userID, err := cache.GetOrLoad(ctx, s.cache, cache.TokenKey(digest), s.cacheTTL.Entity,
		func(ctx context.Context) (uuid.UUID, error) {
			return s.tokens.FindUserIDByDigest(ctx, digest)
		})
	if err != nil {
		if errors.Is(err, model.ErrTokenNotFound) {
			return nil, model.NewUnauthorizedError(err)
		}
		return nil, apperror.Storage(err)
	}

	u, err := s.Get(ctx, userID)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			return nil, model.NewUnauthorizedError(model.ErrTokenNotFound)
		}
		return nil, err
	}
	return u, nil
}

// ========================================
// READ
// ========================================

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := cache.GetOrLoad(ctx, s.cache, cache.EntityKey(cache.KindUser, id), s.cacheTTL.Entity,
		func(ctx context.Context) (*model.User, error) {
			return s.users.FindByID(ctx, id)
		})
	return u, classify(err)
}

func (s *userService) List(ctx context.Context, page int) (*model.Page, error) {
	p, err := cache.GetOrLoad(ctx, s.cache, cache.CollectionKey(cache.KindUser, page), s.cacheTTL.Collection,
		func(ctx context.Context) (*model.Page, error) {
			return s.search(ctx, model.SearchFilter{Page: page})
		})
	return p, classify(err)
}

func (s *userService) Search(ctx context.Context, filter model.SearchFilter) (*model.Page, error) {
	p, err := s.search(ctx, filter)
	return p, classify(err)
}

func (s *userService) search(ctx context.Context, filter model.SearchFilter) (*model.Page, error) {
	users, total, err := s.users.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return &model.Page{Page: filter.Page, Total: total, Users: users}, nil
}

// ========================================
// UPDATE & DELETE
// ========================================

func (s *userService) Update(ctx context.Context, actorID uuid.UUID, req model.UpdateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}
	return s.mutate(ctx, actorID, func(u *model.User) {
		u.Name = req.Name
		u.City = req.City
	})
}

func (s *userService) Patch(ctx context.Context, actorID uuid.UUID, req model.PatchUserRequest) (*model.User, error) {
	if req.Empty() {
		return nil, apperror.Validation(model.ErrNothingToUpdate)
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}
	return s.mutate(ctx, actorID, func(u *model.User) {
		if req.Name != nil {
			u.Name = *req.Name
		}
		if req.City != nil {
			u.City = *req.City
		}
	})
}

func (s *userService) mutate(ctx context.Context, actorID uuid.UUID, apply func(*model.User)) (*model.User, error) {
	u, err := database.WithTransactionResult(ctx, s.tm, func(tx pgx.Tx) (*model.User, error) {
		u, err := s.users.FindByIDWithTx(ctx, tx, actorID)
		if err != nil {
			return nil, err
		}
		apply(u)
		if err := s.users.UpdateWithTx(ctx, tx, u); err != nil {
			return nil, err
		}
		return u, nil
	})
	if err != nil {
		return nil, classify(err)
	}

	s.evict(ctx, cache.KindUser, actorID)
	return u, nil
}

// Delete removes the caller with every recipe and review it owns, reviews left
// on its recipes by others, and its token.
func (s *userService) Delete(ctx context.Context, actorID uuid.UUID) error {
	var (
		recipeIDs, reviewIDs []uuid.UUID
		digest               string
	)
	err := database.WithTransaction(ctx, s.tm, func(tx pgx.Tx) error {
		if _, err := s.users.FindByIDWithTx(ctx, tx, actorID); err != nil {
			return err
		}

		var err error
		if recipeIDs, reviewIDs, err = s.cascade.UserWithTx(ctx, tx, actorID); err != nil {
			return fmt.Errorf("cascade user content: %w", err)
		}
		if digest, err = s.tokens.DeleteByUserWithTx(ctx, tx, actorID); err != nil {
			return err
		}
		return s.users.DeleteWithTx(ctx, tx, actorID)
	})
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.NewUserNotFoundError()
		}
		return apperror.Storage(err)
	}

	s.evict(ctx, cache.KindUser, actorID)
	s.evict(ctx, cache.KindRecipe, recipeIDs...)
	s.evict(ctx, cache.KindReview, reviewIDs...)
	if digest != "" {
		if err := s.cache.Delete(ctx, cache.TokenKey(digest)); err != nil {
			logger.Warn("token cache invalidation failed", err, nil)
		}
	}

	logger.Info("user deleted", map[string]interface{}{
		"user_id": actorID.String(),
		"recipes": len(recipeIDs),
		"reviews": len(reviewIDs),
	})
	return nil
}
