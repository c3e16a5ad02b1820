package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebook-backend/internal/domains/recipe/model"
	reviewModel "recipebook-backend/internal/domains/review/model"
	vocabModel "recipebook-backend/internal/domains/vocabulary/model"
	"recipebook-backend/internal/shared/apperror"
	"recipebook-backend/internal/testsupport"
	"recipebook-backend/pkg/cache"
)

func strPtr(s string) *string { return &s }

func TestCreateRejectsDuplicateNamePerOwner(t *testing.T) {
	env := testsupport.NewEnv(t)
	ana, _ := env.MustUser(t, 0, "Ana")
	luis, _ := env.MustUser(t, 1, "Luis")
	ctx := context.Background()

	env.MustRecipe(t, ana.ID, testsupport.RecipeRequest("Pasta"))

	_, err := env.Recipes.Create(ctx, ana.ID, testsupport.RecipeRequest("Pasta"))
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, apperror.CodeDuplicateRecipe, apperror.CodeOf(err))

	// another owner may reuse the name
	_, err = env.Recipes.Create(ctx, luis.ID, testsupport.RecipeRequest("Pasta"))
	assert.NoError(t, err)
}

func TestCreateValidates(t *testing.T) {
	env := testsupport.NewEnv(t)
	ana, _ := env.MustUser(t, 0, "Ana")

	req := testsupport.RecipeRequest("Pasta")
	req.Difficulty = "Imposible"
	req.Rations = 0

	_, err := env.Recipes.Create(context.Background(), ana.ID, req)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestUpdateUniquenessExcludesSelf(t *testing.T) {
	env := testsupport.NewEnv(t)
	ana, _ := env.MustUser(t, 0, "Ana")
	ctx := context.Background()

	pasta := env.MustRecipe(t, ana.ID, testsupport.RecipeRequest("Pasta"))
	env.MustRecipe(t, ana.ID, testsupport.RecipeRequest("Pizza"))

	// same name on itself is fine
	req := testsupport.RecipeRequest("Pasta")
	req.Rations = 6
	updated, err := env.Recipes.Update(ctx, ana.ID, pasta.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Rations)
	assert.Equal(t, 2, updated.Version)

	// renaming onto a sibling conflicts
	_, err = env.Recipes.Patch(ctx, ana.ID, pasta.ID, model.PatchRecipeRequest{Name: strPtr("Pizza")})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeDuplicateRecipe, apperror.CodeOf(err))
}

func TestPatchRequiresSomething(t *testing.T) {
	env := testsupport.NewEnv(t)
	ana, _ := env.MustUser(t, 0, "Ana")
	pasta := env.MustRecipe(t, ana.ID, testsupport.RecipeRequest("Pasta"))

	_, err := env.Recipes.Patch(context.Background(), ana.ID, pasta.ID, model.PatchRecipeRequest{})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestWritesAreOwnerGated(t *testing.T) {
	env := testsupport.NewEnv(t)
	ana, _ := env.MustUser(t, 0, "Ana")
	luis, _ := env.MustUser(t, 1, "Luis")
	pasta := env.MustRecipe(t, ana.ID, testsupport.RecipeRequest("Pasta"))
	ctx := context.Background()

	_, err := env.Recipes.Update(ctx, luis.ID, pasta.ID, testsupport.RecipeRequest("Mine"))
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

	err = env.Recipes.Delete(ctx, luis.ID, pasta.ID)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

	_, err = env.Recipes.Get(ctx, pasta.ID)
	assert.NoError(t, err, "recipe survives the rejected delete")
}

func TestMissingRecipe(t *testing.T) {
	env := testsupport.NewEnv(t)
	ana, _ := env.MustUser(t, 0, "Ana")
	ctx := context.Background()
	missing := uuid.New()

	_, err := env.Recipes.Get(ctx, missing)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	err = env.Recipes.AttachVocabulary(ctx, ana.ID, missing, vocabModel.KindIngredient, "tomato")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	err = env.Recipes.DetachVocabulary(ctx, ana.ID, missing, vocabModel.KindIngredient, "tomato")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	assert.NoError(t, env.Recipes.Delete(ctx, ana.ID, missing), "delete is idempotent")
}

func TestDeleteCascadesReviewsAndLinks(t *testing.T) {
	env := testsupport.NewEnv(t)
	ana, _ := env.MustUser(t, 0, "Ana")
	luis, _ := env.MustUser(t, 1, "Luis")
	pasta := env.MustRecipe(t, ana.ID, testsupport.RecipeRequest("Pasta"))
	ctx := context.Background()

	require.NoError(t, env.Recipes.AttachVocabulary(ctx, ana.ID, pasta.ID, vocabModel.KindIngredient, "tomato"))
	rating := 4.5
	rv, err := env.Reviews.Create(ctx, luis.ID, pasta.ID, reviewModel.ReviewRequest{Comment: "Rica", Rating: &rating})
	require.NoError(t, err)

	require.NoError(t, env.Recipes.Delete(ctx, ana.ID, pasta.ID))

	_, err = env.Recipes.Get(ctx, pasta.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	_, err = env.Reviews.Get(ctx, rv.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	// the vocabulary entry is shared and survives
	other := env.MustRecipe(t, ana.ID, testsupport.RecipeRequest("Pizza"))
	require.NoError(t, env.Recipes.AttachVocabulary(ctx, ana.ID, other.ID, vocabModel.KindIngredient, "TOMATO"))
	got, err := env.Recipes.Get(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tomato"}, got.Recipe.Ingredients)
}

func TestGetStaysCoherentWithWrites(t *testing.T) {
	env := testsupport.NewEnv(t)
	ana, _ := env.MustUser(t, 0, "Ana")
	luis, _ := env.MustUser(t, 1, "Luis")
	pasta := env.MustRecipe(t, ana.ID, testsupport.RecipeRequest("Pasta"))
	ctx := context.Background()

	// warm every key
	first, err := env.Recipes.Get(ctx, pasta.ID)
	require.NoError(t, err)
	assert.Empty(t, first.Recipe.Ingredients)
	for _, f := range cache.Formats {
		require.NoError(t, env.Cache.Set(ctx, cache.RenderKey(cache.KindRecipe, pasta.ID, f), []byte("stale"), env.TTL.Entity))
	}

	require.NoError(t, env.Recipes.AttachVocabulary(ctx, ana.ID, pasta.ID, vocabModel.KindIngredient, "tomato"))
	for _, key := range cache.EntityKeys(cache.KindRecipe, pasta.ID) {
		var v interface{}
		found, err := env.Cache.Get(ctx, key, &v)
		require.NoError(t, err)
		assert.False(t, found, "key %s must be evicted", key)
	}

	afterAttach, err := env.Recipes.Get(ctx, pasta.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tomato"}, afterAttach.Recipe.Ingredients)

	rating := 3.0
	_, err = env.Reviews.Create(ctx, luis.ID, pasta.ID, reviewModel.ReviewRequest{Comment: "Bien", Rating: &rating})
	require.NoError(t, err)

	afterReview, err := env.Recipes.Get(ctx, pasta.ID)
	require.NoError(t, err)
	assert.Len(t, afterReview.Reviews, 1)
}

func TestListByOwner(t *testing.T) {
	env := testsupport.NewEnv(t)
	ana, _ := env.MustUser(t, 0, "Ana")
	luis, _ := env.MustUser(t, 1, "Luis")
	ctx := context.Background()

	env.MustRecipe(t, ana.ID, testsupport.RecipeRequest("Pasta"))
	env.MustRecipe(t, ana.ID, testsupport.RecipeRequest("Pizza"))
	env.MustRecipe(t, luis.ID, testsupport.RecipeRequest("Paella"))

	page, err := env.Recipes.ListByOwner(ctx, ana.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	for _, r := range page.Recipes {
		assert.Equal(t, ana.ID, r.Owner)
	}

	_, err = env.Recipes.ListByOwner(ctx, uuid.New(), 0)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestConcurrentCreateKeepsNamePerOwnerUnique(t *testing.T) {
	env := testsupport.NewEnv(t)
	ana, _ := env.MustUser(t, 0, "Ana")
	ctx := context.Background()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts []string
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.Recipes.Create(ctx, ana.ID, testsupport.RecipeRequest("Pasta"))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
				return
			}
			conflicts = append(conflicts, apperror.CodeOf(err))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	require.Len(t, conflicts, workers-1)
	for _, code := range conflicts {
		assert.Equal(t, apperror.CodeDuplicateRecipe, code)
	}

	page, err := env.Recipes.ListByOwner(ctx, ana.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}
