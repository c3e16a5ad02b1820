// Package memstore is the in-process catalog store: every repository plus a
// TransactionManager, used by STORE_DRIVER=memory and by tests.
//
// Transactions are serialised by one mutex and rolled back by restoring a
// snapshot. Readers outside a transaction may see uncommitted writes.
package memstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	recipeModel "recipebook-backend/internal/domains/recipe/model"
	reviewModel "recipebook-backend/internal/domains/review/model"
	userModel "recipebook-backend/internal/domains/user/model"
	vocabModel "recipebook-backend/internal/domains/vocabulary/model"
)

var timeNow = time.Now

var errForeignTx = errors.New("memstore: transaction was not started by this store")

type linkSet map[uuid.UUID]map[uuid.UUID]bool // recipe id -> entry ids

type state struct {
	users   map[uuid.UUID]*userModel.User
	tokens  map[uuid.UUID]*userModel.Token // by user id
	recipes map[uuid.UUID]*recipeModel.Recipe
	reviews map[uuid.UUID]*reviewModel.Review
	vocab   map[vocabModel.Kind]map[uuid.UUID]*vocabModel.Entry
	links   map[vocabModel.Kind]linkSet
}

func newState() *state {
	return &state{
		users:   make(map[uuid.UUID]*userModel.User),
		tokens:  make(map[uuid.UUID]*userModel.Token),
		recipes: make(map[uuid.UUID]*recipeModel.Recipe),
		reviews: make(map[uuid.UUID]*reviewModel.Review),
		vocab: map[vocabModel.Kind]map[uuid.UUID]*vocabModel.Entry{
			vocabModel.KindIngredient: {},
			vocabModel.KindTag:        {},
		},
		links: map[vocabModel.Kind]linkSet{
			vocabModel.KindIngredient: {},
			vocabModel.KindTag:        {},
		},
	}
}

// clone copies the maps. Rows are replaced on write, never mutated in place,
// so row pointers can be shared with the snapshot.
func (s *state) clone() *state {
	out := newState()
	for k, v := range s.users {
		out.users[k] = v
	}
	for k, v := range s.tokens {
		out.tokens[k] = v
	}
	for k, v := range s.recipes {
		out.recipes[k] = v
	}
	for k, v := range s.reviews {
		out.reviews[k] = v
	}
	for kind, entries := range s.vocab {
		for k, v := range entries {
			out.vocab[kind][k] = v
		}
	}
	for kind, set := range s.links {
		for recipeID, entries := range set {
			cp := make(map[uuid.UUID]bool, len(entries))
			for id := range entries {
				cp[id] = true
			}
			out.links[kind][recipeID] = cp
		}
	}
	return out
}

// Store owns the data shared by every memstore repository.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *state
}

func New() *Store {
	return &Store{data: newState()}
}

func (s *Store) read(fn func(*state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func (s *Store) write(fn func(*state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

// =====================================================
// TRANSACTIONS
// =====================================================

// memTx satisfies pgx.Tx for the repository signatures. Only the store's
// own bookkeeping is used; the embedded interface is never called.
type memTx struct {
	pgx.Tx
	snapshot *state
	done     bool
}

func (s *Store) BeginTx(ctx context.Context) (pgx.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.txMu.Lock()

	var snap *state
	s.read(func(st *state) { snap = st.clone() })
	return &memTx{snapshot: snap}, nil
}

func (s *Store) CommitTx(_ context.Context, tx pgx.Tx) error {
	t, ok := tx.(*memTx)
	if !ok {
		return errForeignTx
	}
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.snapshot = nil
	s.txMu.Unlock()
	return nil
}

func (s *Store) RollbackTx(_ context.Context, tx pgx.Tx) error {
	t, ok := tx.(*memTx)
	if !ok {
		return errForeignTx
	}
	if t.done {
		return nil
	}
	t.done = true
	s.write(func(st *state) { *st = *t.snapshot })
	t.snapshot = nil
	s.txMu.Unlock()
	return nil
}

// Ping reports the store as healthy; it lives in process.
func (s *Store) Ping(context.Context) error {
	return nil
}
