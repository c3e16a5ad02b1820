package memstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"recipebook-backend/internal/domains/vocabulary/model"
	"recipebook-backend/internal/domains/vocabulary/repository"
)

type vocabularyRepository struct {
	store *Store
}

func NewVocabularyRepository(store *Store) repository.VocabularyRepository {
	return &vocabularyRepository{store: store}
}

func findEntry(st *state, kind model.Kind, name string) *model.Entry {
	for _, e := range st.vocab[kind] {
		if model.SameName(e.Name, name) {
			cp := *e
			return &cp
		}
	}
	return nil
}

func (r *vocabularyRepository) FindByNameWithTx(_ context.Context, _ pgx.Tx, kind model.Kind, name string) (*model.Entry, error) {
	var out *model.Entry
	r.store.read(func(st *state) { out = findEntry(st, kind, name) })
	if out == nil {
		return nil, model.ErrEntryNotFound
	}
	return out, nil
}

func (r *vocabularyRepository) CreateWithTx(_ context.Context, _ pgx.Tx, e *model.Entry) (*model.Entry, error) {
	var out *model.Entry
	r.store.write(func(st *state) {
		if existing := findEntry(st, e.Kind, e.Name); existing != nil {
			out = existing
			return
		}
		cp := *e
		st.vocab[e.Kind][e.ID] = &cp
		out = &model.Entry{ID: cp.ID, Kind: cp.Kind, Name: cp.Name, Version: cp.Version}
	})
	return out, nil
}

func (r *vocabularyRepository) IsLinkedWithTx(_ context.Context, _ pgx.Tx, kind model.Kind, recipeID, entryID uuid.UUID) (bool, error) {
	var linked bool
	r.store.read(func(st *state) { linked = st.links[kind][recipeID][entryID] })
	return linked, nil
}

func (r *vocabularyRepository) LinkWithTx(_ context.Context, _ pgx.Tx, kind model.Kind, recipeID, entryID uuid.UUID) (bool, error) {
	var inserted bool
	r.store.write(func(st *state) {
		set := st.links[kind][recipeID]
		if set == nil {
			set = make(map[uuid.UUID]bool)
			st.links[kind][recipeID] = set
		}
		if !set[entryID] {
			set[entryID] = true
			inserted = true
		}
	})
	return inserted, nil
}

func (r *vocabularyRepository) UnlinkWithTx(_ context.Context, _ pgx.Tx, kind model.Kind, recipeID, entryID uuid.UUID) (bool, error) {
	var removed bool
	r.store.write(func(st *state) {
		if set := st.links[kind][recipeID]; set[entryID] {
			delete(set, entryID)
			removed = true
		}
	})
	return removed, nil
}

func (r *vocabularyRepository) UnlinkAllWithTx(_ context.Context, _ pgx.Tx, recipeIDs []uuid.UUID) error {
	r.store.write(func(st *state) {
		for _, id := range recipeIDs {
			for _, set := range st.links {
				delete(set, id)
			}
		}
	})
	return nil
}
