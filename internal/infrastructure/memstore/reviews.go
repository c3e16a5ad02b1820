package memstore

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recipebook-backend/internal/domains/review/model"
	"recipebook-backend/internal/domains/review/repository"
)

type reviewRepository struct {
	store *Store
}

func NewReviewRepository(store *Store) repository.ReviewRepository {
	return &reviewRepository{store: store}
}

func copyReview(rv *model.Review) *model.Review {
	cp := *rv
	return &cp
}

func (r *reviewRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Review, error) {
	var out *model.Review
	r.store.read(func(st *state) {
		if rv, ok := st.reviews[id]; ok {
			out = copyReview(rv)
		}
	})
	if out == nil {
		return nil, model.ErrReviewNotFound
	}
	return out, nil
}

func (r *reviewRepository) FindByIDWithTx(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*model.Review, error) {
	return r.FindByID(ctx, id)
}

func (r *reviewRepository) FindByAuthorAndRecipeWithTx(_ context.Context, _ pgx.Tx, authorID, recipeID uuid.UUID) (*model.Review, error) {
	var out *model.Review
	r.store.read(func(st *state) {
		for _, rv := range st.reviews {
			if rv.Author == authorID && rv.RecipeID == recipeID {
				out = copyReview(rv)
				return
			}
		}
	})
	if out == nil {
		return nil, model.ErrReviewNotFound
	}
	return out, nil
}

func (r *reviewRepository) CreateWithTx(_ context.Context, _ pgx.Tx, review *model.Review) error {
	var err error
	r.store.write(func(st *state) {
		for _, rv := range st.reviews {
			if rv.Author == review.Author && rv.RecipeID == review.RecipeID {
				err = model.ErrAlreadyReviewed
				return
			}
		}
		st.reviews[review.ID] = copyReview(review)
	})
	return err
}

func (r *reviewRepository) UpdateWithTx(_ context.Context, _ pgx.Tx, review *model.Review) error {
	var err error
	r.store.write(func(st *state) {
		current, ok := st.reviews[review.ID]
		if !ok || current.Version != review.Version {
			err = model.ErrVersionConflict
			return
		}
		next := copyReview(current)
		next.Comment = review.Comment
		next.Rating = review.Rating
		next.Version++
		next.UpdatedAt = timeNow()
		st.reviews[review.ID] = next

		review.Version = next.Version
		review.UpdatedAt = next.UpdatedAt
	})
	return err
}

func (r *reviewRepository) DeleteWithTx(_ context.Context, _ pgx.Tx, id uuid.UUID) error {
	r.store.write(func(st *state) { delete(st.reviews, id) })
	return nil
}

func (r *reviewRepository) ListByRecipe(_ context.Context, recipeID uuid.UUID) ([]*model.Review, error) {
	out := make([]*model.Review, 0)
	r.store.read(func(st *state) {
		for _, rv := range st.reviews {
			if rv.RecipeID == recipeID {
				out = append(out, copyReview(rv))
			}
		}
	})
	sortOldestFirst(out)
	return out, nil
}

func (r *reviewRepository) DeleteForCascadeWithTx(_ context.Context, _ pgx.Tx, authorID *uuid.UUID, recipeIDs []uuid.UUID) ([]*model.Review, error) {
	targets := make(map[uuid.UUID]bool, len(recipeIDs))
	for _, id := range recipeIDs {
		targets[id] = true
	}

	removed := make([]*model.Review, 0)
	r.store.write(func(st *state) {
		for id, rv := range st.reviews {
			if (authorID != nil && rv.Author == *authorID) || targets[rv.RecipeID] {
				removed = append(removed, rv)
				delete(st.reviews, id)
			}
		}
	})
	sortOldestFirst(removed)
	return removed, nil
}

func sortOldestFirst(reviews []*model.Review) {
	sort.Slice(reviews, func(i, j int) bool {
		if !reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].CreatedAt.Before(reviews[j].CreatedAt)
		}
		return reviews[i].ID.String() < reviews[j].ID.String()
	})
}
