package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recipebook-backend/internal/domains/user/model"
	"recipebook-backend/internal/domains/user/repository"
	"recipebook-backend/internal/shared/query"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func copyUser(u *model.User) *model.User {
	cp := *u
	return &cp
}

func (r *userRepository) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	var out *model.User
	r.store.read(func(st *state) {
		if u, ok := st.users[id]; ok {
			out = copyUser(u)
		}
	})
	if out == nil {
		return nil, model.ErrUserNotFound
	}
	return out, nil
}

func (r *userRepository) FindByIDWithTx(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*model.User, error) {
	return r.FindByID(ctx, id)
}

func (r *userRepository) FindByDNIWithTx(_ context.Context, _ pgx.Tx, dni string) (*model.User, error) {
	var out *model.User
	r.store.read(func(st *state) {
		for _, u := range st.users {
			if strings.EqualFold(u.DNI, dni) {
				out = copyUser(u)
				return
			}
		}
	})
	if out == nil {
		return nil, model.ErrUserNotFound
	}
	return out, nil
}

func (r *userRepository) CreateWithTx(_ context.Context, _ pgx.Tx, u *model.User) error {
	var err error
	r.store.write(func(st *state) {
		for _, existing := range st.users {
			if strings.EqualFold(existing.DNI, u.DNI) {
				err = model.ErrDuplicateDNI
				return
			}
		}
		st.users[u.ID] = copyUser(u)
	})
	return err
}

func (r *userRepository) UpdateWithTx(_ context.Context, _ pgx.Tx, u *model.User) error {
	var err error
	r.store.write(func(st *state) {
		stored, ok := st.users[u.ID]
		if !ok || stored.Version != u.Version {
			err = model.ErrVersionConflict
			return
		}
		next := copyUser(u)
		next.DNI = stored.DNI
		next.Version++
		next.UpdatedAt = timeNow()
		st.users[u.ID] = next

		u.Version = next.Version
		u.UpdatedAt = next.UpdatedAt
	})
	return err
}

func (r *userRepository) DeleteWithTx(_ context.Context, _ pgx.Tx, id uuid.UUID) error {
	r.store.write(func(st *state) {
		delete(st.users, id)
	})
	return nil
}

func (r *userRepository) Search(_ context.Context, filter model.SearchFilter) ([]*model.User, int, error) {
	var matched []*model.User
	r.store.read(func(st *state) {
		for _, u := range st.users {
			if filter.Matches(u) {
				matched = append(matched, copyUser(u))
			}
		}
	})
	sort.SliceStable(matched, func(i, j int) bool {
		return filter.Less(matched[i], matched[j])
	})
	return query.Slice(matched, filter.Page), len(matched), nil
}

// =====================================================
// TOKENS
// =====================================================

type tokenRepository struct {
	store *Store
}

func NewTokenRepository(store *Store) repository.TokenRepository {
	return &tokenRepository{store: store}
}

func (r *tokenRepository) CreateWithTx(_ context.Context, _ pgx.Tx, t *model.Token) error {
	r.store.write(func(st *state) {
		cp := *t
		st.tokens[t.UserID] = &cp
	})
	return nil
}

func (r *tokenRepository) DeleteByUserWithTx(_ context.Context, _ pgx.Tx, userID uuid.UUID) (string, error) {
	var digest string
	r.store.write(func(st *state) {
		if t, ok := st.tokens[userID]; ok {
			digest = t.Digest
			delete(st.tokens, userID)
		}
	})
	return digest, nil
}

func (r *tokenRepository) FindUserIDByDigest(_ context.Context, digest string) (uuid.UUID, error) {
	userID := uuid.Nil
	r.store.read(func(st *state) {
		for _, t := range st.tokens {
			if t.Digest == digest {
				userID = t.UserID
				return
			}
		}
	})
	if userID == uuid.Nil {
		return uuid.Nil, model.ErrTokenNotFound
	}
	return userID, nil
}
