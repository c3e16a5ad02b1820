package memstore

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recipebook-backend/internal/domains/recipe/model"
	"recipebook-backend/internal/domains/recipe/repository"
	vocabModel "recipebook-backend/internal/domains/vocabulary/model"
	"recipebook-backend/internal/shared/query"
)

type recipeRepository struct {
	store *Store
}

func NewRecipeRepository(store *Store) repository.RecipeRepository {
	return &recipeRepository{store: store}
}

// hydrate copies the row and fills in its ingredient and tag names, sorted.
func hydrate(st *state, rec *model.Recipe) *model.Recipe {
	cp := *rec
	cp.Ingredients = linkedNames(st, vocabModel.KindIngredient, rec.ID)
	cp.Tags = linkedNames(st, vocabModel.KindTag, rec.ID)
	return &cp
}

func linkedNames(st *state, kind vocabModel.Kind, recipeID uuid.UUID) []string {
	names := make([]string, 0, len(st.links[kind][recipeID]))
	for entryID := range st.links[kind][recipeID] {
		if e, ok := st.vocab[kind][entryID]; ok {
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)
	return names
}

func (r *recipeRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Recipe, error) {
	var out *model.Recipe
	r.store.read(func(st *state) {
		if rec, ok := st.recipes[id]; ok {
			out = hydrate(st, rec)
		}
	})
	if out == nil {
		return nil, model.ErrRecipeNotFound
	}
	return out, nil
}

func (r *recipeRepository) FindByIDWithTx(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*model.Recipe, error) {
	return r.FindByID(ctx, id)
}

func (r *recipeRepository) FindByNameAndOwnerWithTx(_ context.Context, _ pgx.Tx, name string, ownerID uuid.UUID) (*model.Recipe, error) {
	var out *model.Recipe
	r.store.read(func(st *state) {
		for _, rec := range st.recipes {
			if rec.Owner == ownerID && rec.Name == name {
				out = hydrate(st, rec)
				return
			}
		}
	})
	if out == nil {
		return nil, model.ErrRecipeNotFound
	}
	return out, nil
}

func nameTaken(st *state, rec *model.Recipe) bool {
	for _, other := range st.recipes {
		if other.ID != rec.ID && other.Owner == rec.Owner && other.Name == rec.Name {
			return true
		}
	}
	return false
}

// stored strips the derived name lists before a row is kept.
func stored(rec *model.Recipe) *model.Recipe {
	cp := *rec
	cp.Ingredients = nil
	cp.Tags = nil
	return &cp
}

func (r *recipeRepository) CreateWithTx(_ context.Context, _ pgx.Tx, rec *model.Recipe) error {
	var err error
	r.store.write(func(st *state) {
		if nameTaken(st, rec) {
			err = model.ErrDuplicateRecipe
			return
		}
		st.recipes[rec.ID] = stored(rec)
	})
	return err
}

func (r *recipeRepository) UpdateWithTx(_ context.Context, _ pgx.Tx, rec *model.Recipe) error {
	var err error
	r.store.write(func(st *state) {
		current, ok := st.recipes[rec.ID]
		if !ok || current.Version != rec.Version {
			err = model.ErrVersionConflict
			return
		}
		if nameTaken(st, rec) {
			err = model.ErrDuplicateRecipe
			return
		}
		next := stored(rec)
		next.Owner = current.Owner
		next.CreatedAt = current.CreatedAt
		next.Version++
		next.UpdatedAt = timeNow()
		st.recipes[rec.ID] = next

		rec.Version = next.Version
		rec.UpdatedAt = next.UpdatedAt
	})
	return err
}

func (r *recipeRepository) DeleteWithTx(_ context.Context, _ pgx.Tx, ids ...uuid.UUID) error {
	r.store.write(func(st *state) {
		for _, id := range ids {
			delete(st.recipes, id)
			for _, set := range st.links {
				delete(set, id)
			}
		}
	})
	return nil
}

func (r *recipeRepository) ListIDsByOwnerWithTx(_ context.Context, _ pgx.Tx, ownerID uuid.UUID) ([]uuid.UUID, error) {
	var owned []*model.Recipe
	r.store.read(func(st *state) {
		for _, rec := range st.recipes {
			if rec.Owner == ownerID {
				owned = append(owned, rec)
			}
		}
	})
	sort.Slice(owned, func(i, j int) bool { return model.SearchFilter{}.Less(owned[i], owned[j]) })

	ids := make([]uuid.UUID, 0, len(owned))
	for _, rec := range owned {
		ids = append(ids, rec.ID)
	}
	return ids, nil
}

func (r *recipeRepository) Search(_ context.Context, filter model.SearchFilter) ([]*model.Recipe, int, error) {
	var matched []*model.Recipe
	r.store.read(func(st *state) {
		for _, rec := range st.recipes {
			if h := hydrate(st, rec); filter.Matches(h) {
				matched = append(matched, h)
			}
		}
	})
	sort.SliceStable(matched, func(i, j int) bool {
		return filter.Less(matched[i], matched[j])
	})
	return query.Slice(matched, filter.Page), len(matched), nil
}
