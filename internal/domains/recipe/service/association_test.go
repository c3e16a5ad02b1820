package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebook-backend/internal/domains/recipe/service"
	vocabModel "recipebook-backend/internal/domains/vocabulary/model"
	"recipebook-backend/internal/shared/apperror"
	"recipebook-backend/internal/testsupport"
	"recipebook-backend/pkg/database"
)

func TestAttachIsSetLike(t *testing.T) {
	env := testsupport.NewEnv(t)
	owner, _ := env.MustUser(t, 0, "Ana")
	rec := env.MustRecipe(t, owner.ID, testsupport.RecipeRequest("Pasta"))
	ctx := context.Background()

	attach := func(name string) service.AttachResult {
		res, err := database.WithTransactionResult(ctx, env.Store, func(tx pgx.Tx) (service.AttachResult, error) {
			return env.Assoc.Attach(ctx, tx, rec.ID, vocabModel.KindIngredient, name)
		})
		require.NoError(t, err)
		return res
	}

	assert.Equal(t, service.AttachCreated, attach("tomato"))
	assert.Equal(t, service.AttachAlreadyLinked, attach("  TOMATO "))

	got, err := env.Repos.Recipes.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tomato"}, got.Ingredients, "stored canonical, linked once")
}

func TestAttachReusesVocabularyAcrossRecipes(t *testing.T) {
	env := testsupport.NewEnv(t)
	owner, _ := env.MustUser(t, 0, "Ana")
	first := env.MustRecipe(t, owner.ID, testsupport.RecipeRequest("Pasta"))
	second := env.MustRecipe(t, owner.ID, testsupport.RecipeRequest("Pizza"))
	ctx := context.Background()

	require.NoError(t, env.Recipes.AttachVocabulary(ctx, owner.ID, first.ID, vocabModel.KindTag, "vegano"))
	require.NoError(t, env.Recipes.AttachVocabulary(ctx, owner.ID, second.ID, vocabModel.KindTag, "VEGANO"))

	err := database.WithTransaction(ctx, env.Store, func(tx pgx.Tx) error {
		e, err := env.Repos.Vocabulary.FindByNameWithTx(ctx, tx, vocabModel.KindTag, "Vegano")
		require.NoError(t, err)
		assert.Equal(t, "Vegano", e.Name)
		return nil
	})
	require.NoError(t, err)

	got, err := env.Repos.Recipes.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Vegano"}, got.Tags)
}

func TestAttachRejectsBlankName(t *testing.T) {
	env := testsupport.NewEnv(t)
	owner, _ := env.MustUser(t, 0, "Ana")
	rec := env.MustRecipe(t, owner.ID, testsupport.RecipeRequest("Pasta"))

	err := env.Recipes.AttachVocabulary(context.Background(), owner.ID, rec.ID, vocabModel.KindIngredient, "   ")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestAttachRejectsOverlongName(t *testing.T) {
	env := testsupport.NewEnv(t)
	owner, _ := env.MustUser(t, 0, "Ana")
	rec := env.MustRecipe(t, owner.ID, testsupport.RecipeRequest("Pasta"))
	ctx := context.Background()

	long := strings.Repeat("x", vocabModel.MaxNameLength+1)
	err := env.Recipes.AttachVocabulary(ctx, owner.ID, rec.ID, vocabModel.KindTag, long)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	got, err := env.Repos.Recipes.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)

	require.NoError(t, env.Recipes.AttachVocabulary(ctx, owner.ID, rec.ID, vocabModel.KindTag, long[:vocabModel.MaxNameLength]))
}

func TestAttachConflictCodes(t *testing.T) {
	env := testsupport.NewEnv(t)
	owner, _ := env.MustUser(t, 0, "Ana")
	rec := env.MustRecipe(t, owner.ID, testsupport.RecipeRequest("Pasta"))
	ctx := context.Background()

	tests := []struct {
		kind vocabModel.Kind
		code string
	}{
		{vocabModel.KindIngredient, apperror.CodeDuplicateIngredient},
		{vocabModel.KindTag, apperror.CodeDuplicateTag},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			require.NoError(t, env.Recipes.AttachVocabulary(ctx, owner.ID, rec.ID, tt.kind, "sal"))
			err := env.Recipes.AttachVocabulary(ctx, owner.ID, rec.ID, tt.kind, "Sal")
			require.Error(t, err)
			assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
			assert.Equal(t, tt.code, apperror.CodeOf(err))
		})
	}
}

func TestDetachIsIdempotent(t *testing.T) {
	env := testsupport.NewEnv(t)
	owner, _ := env.MustUser(t, 0, "Ana")
	rec := env.MustRecipe(t, owner.ID, testsupport.RecipeRequest("Pasta"))
	ctx := context.Background()

	require.NoError(t, env.Recipes.AttachVocabulary(ctx, owner.ID, rec.ID, vocabModel.KindIngredient, "tomato"))
	require.NoError(t, env.Recipes.DetachVocabulary(ctx, owner.ID, rec.ID, vocabModel.KindIngredient, "tomato"))
	require.NoError(t, env.Recipes.DetachVocabulary(ctx, owner.ID, rec.ID, vocabModel.KindIngredient, "tomato"))
	require.NoError(t, env.Recipes.DetachVocabulary(ctx, owner.ID, rec.ID, vocabModel.KindIngredient, "never-seen"))

	got, err := env.Repos.Recipes.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Ingredients)
}

func TestAttachOwnerGated(t *testing.T) {
	env := testsupport.NewEnv(t)
	owner, _ := env.MustUser(t, 0, "Ana")
	other, _ := env.MustUser(t, 1, "Luis")
	rec := env.MustRecipe(t, owner.ID, testsupport.RecipeRequest("Pasta"))
	ctx := context.Background()

	err := env.Recipes.AttachVocabulary(ctx, other.ID, rec.ID, vocabModel.KindIngredient, "tomato")
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

	err = env.Recipes.DetachVocabulary(ctx, other.ID, rec.ID, vocabModel.KindIngredient, "tomato")
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}

func TestConcurrentAttachCreatesOnce(t *testing.T) {
	env := testsupport.NewEnv(t)
	owner, _ := env.MustUser(t, 0, "Ana")
	rec := env.MustRecipe(t, owner.ID, testsupport.RecipeRequest("Pasta"))
	ctx := context.Background()

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = map[service.AttachResult]int{}
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := database.WithTransactionResult(ctx, env.Store, func(tx pgx.Tx) (service.AttachResult, error) {
				return env.Assoc.Attach(ctx, tx, rec.ID, vocabModel.KindIngredient, "Tomato")
			})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			results[res]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, results[service.AttachCreated])
	assert.Equal(t, workers-1, results[service.AttachAlreadyLinked])
}
