package memstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	recipeModel "recipebook-backend/internal/domains/recipe/model"
	userModel "recipebook-backend/internal/domains/user/model"
	vocabModel "recipebook-backend/internal/domains/vocabulary/model"
	"recipebook-backend/internal/shared/query"
	"recipebook-backend/pkg/database"
)

func seedRecipe(t *testing.T, s *Store, repos *Repositories, owner uuid.UUID, name string, rations int, created time.Time) *recipeModel.Recipe {
	t.Helper()
	rec := &recipeModel.Recipe{
		ID:          uuid.New(),
		Owner:       owner,
		Name:        name,
		Description: "desc " + name,
		Difficulty:  recipeModel.DifficultyBaja,
		Steps:       "steps",
		Kitchen:     "Española",
		Rations:     rations,
		Time:        20,
		Type:        recipeModel.CoursePrimero,
		Version:     1,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	err := database.WithTransaction(context.Background(), s, func(tx pgx.Tx) error {
		return repos.Recipes.CreateWithTx(context.Background(), tx, rec)
	})
	require.NoError(t, err)
	return rec
}

func TestRollbackRestoresSnapshot(t *testing.T) {
	s := New()
	repos := NewRepositories(s)
	ctx := context.Background()
	boom := errors.New("boom")

	u := &userModel.User{ID: uuid.New(), DNI: "70917793F", Name: "Ana", City: "Madrid", Version: 1}
	err := database.WithTransaction(ctx, s, func(tx pgx.Tx) error {
		require.NoError(t, repos.Users.CreateWithTx(ctx, tx, u))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repos.Users.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, userModel.ErrUserNotFound)
}

func TestUniqueBackstops(t *testing.T) {
	s := New()
	repos := NewRepositories(s)
	ctx := context.Background()
	owner := uuid.New()
	now := time.Now()

	seedRecipe(t, s, repos, owner, "Pasta", 2, now)

	err := database.WithTransaction(ctx, s, func(tx pgx.Tx) error {
		return repos.Recipes.CreateWithTx(ctx, tx, &recipeModel.Recipe{ID: uuid.New(), Owner: owner, Name: "Pasta"})
	})
	assert.ErrorIs(t, err, recipeModel.ErrDuplicateRecipe)

	err = database.WithTransaction(ctx, s, func(tx pgx.Tx) error {
		if err := repos.Users.CreateWithTx(ctx, tx, &userModel.User{ID: uuid.New(), DNI: "70917793F"}); err != nil {
			return err
		}
		return repos.Users.CreateWithTx(ctx, tx, &userModel.User{ID: uuid.New(), DNI: "70917793f"})
	})
	assert.ErrorIs(t, err, userModel.ErrDuplicateDNI)
}

func TestVersionConflict(t *testing.T) {
	s := New()
	repos := NewRepositories(s)
	ctx := context.Background()
	rec := seedRecipe(t, s, repos, uuid.New(), "Pasta", 2, time.Now())

	stale := *rec
	err := database.WithTransaction(ctx, s, func(tx pgx.Tx) error {
		return repos.Recipes.UpdateWithTx(ctx, tx, rec)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Version)

	err = database.WithTransaction(ctx, s, func(tx pgx.Tx) error {
		return repos.Recipes.UpdateWithTx(ctx, tx, &stale)
	})
	assert.ErrorIs(t, err, recipeModel.ErrVersionConflict)
}

func TestSearchRationsGreaterThan(t *testing.T) {
	s := New()
	repos := NewRepositories(s)
	ctx := context.Background()
	owner := uuid.New()
	base := time.Now()

	for i, rations := range []int{2, 4, 5, 6} {
		seedRecipe(t, s, repos, owner, fmt.Sprintf("R%d", rations), rations, base.Add(time.Duration(i)*time.Second))
	}

	v := url.Values{}
	v.Set("rations", "4:gt")
	got, total, err := repos.Recipes.Search(ctx, recipeModel.ParseSearchFilter(v))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Greater(t, r.Rations, 4)
	}

	// malformed range is not applied
	v.Set("rations", "4:between")
	_, total, err = repos.Recipes.Search(ctx, recipeModel.ParseSearchFilter(v))
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}

func TestSearchByIngredient(t *testing.T) {
	s := New()
	repos := NewRepositories(s)
	ctx := context.Background()
	owner := uuid.New()
	pasta := seedRecipe(t, s, repos, owner, "Pasta", 2, time.Now())
	seedRecipe(t, s, repos, owner, "Flan", 2, time.Now())

	err := database.WithTransaction(ctx, s, func(tx pgx.Tx) error {
		e, err := repos.Vocabulary.CreateWithTx(ctx, tx, &vocabModel.Entry{ID: uuid.New(), Kind: vocabModel.KindIngredient, Name: "Tomato"})
		if err != nil {
			return err
		}
		_, err = repos.Vocabulary.LinkWithTx(ctx, tx, vocabModel.KindIngredient, pasta.ID, e.ID)
		return err
	})
	require.NoError(t, err)

	got, total, err := repos.Recipes.Search(ctx, recipeModel.SearchFilter{Ingredient: "TOMATO"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, pasta.ID, got[0].ID)
}

func TestSearchPagination(t *testing.T) {
	s := New()
	repos := NewRepositories(s)
	ctx := context.Background()
	owner := uuid.New()
	base := time.Now()

	n := query.PageSize + 5
	for i := 0; i < n; i++ {
		seedRecipe(t, s, repos, owner, fmt.Sprintf("R%03d", i), 2, base.Add(time.Duration(i)*time.Millisecond))
	}

	first, total, err := repos.Recipes.Search(ctx, recipeModel.SearchFilter{Page: 0})
	require.NoError(t, err)
	assert.Equal(t, n, total)
	assert.Len(t, first, query.PageSize)
	assert.Equal(t, "R000", first[0].Name, "default order is created_at")

	second, _, err := repos.Recipes.Search(ctx, recipeModel.SearchFilter{Page: 1})
	require.NoError(t, err)
	assert.Len(t, second, 5)

	beyond, total, err := repos.Recipes.Search(ctx, recipeModel.SearchFilter{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, beyond)
	assert.Equal(t, n, total)

	huge := recipeModel.ParseSearchFilter(url.Values{"page": {"400000000000000000"}})
	farBeyond, total, err := repos.Recipes.Search(ctx, huge)
	require.NoError(t, err)
	assert.Empty(t, farBeyond)
	assert.Equal(t, n, total)

	users, userTotal, err := repos.Users.Search(ctx, userModel.SearchFilter{Page: huge.Page})
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Zero(t, userTotal)

	sorted, _, err := repos.Recipes.Search(ctx, recipeModel.SearchFilter{Sort: &query.Sort{Field: "name", Desc: true}})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("R%03d", n-1), sorted[0].Name)
}
