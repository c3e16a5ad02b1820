package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebook-backend/internal/domains/review/model"
	"recipebook-backend/internal/shared/apperror"
	"recipebook-backend/internal/testsupport"
)

func review(comment string, rating float64) model.ReviewRequest {
	return model.ReviewRequest{Comment: comment, Rating: &rating}
}

func TestCreateReview(t *testing.T) {
	env := testsupport.NewEnv(t)
	ana, _ := env.MustUser(t, 0, "Ana")
	luis, _ := env.MustUser(t, 1, "Luis")
	pasta := env.MustRecipe(t, ana.ID, testsupport.RecipeRequest("Pasta"))
	ctx := context.Background()

	rv, err := env.Reviews.Create(ctx, luis.ID, pasta.ID, review("Muy rica", 4.26))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(4.3).Equal(rv.Rating), "rounded to one decimal")
	assert.Equal(t, luis.ID, rv.Author)

	// one review per author and recipe
	_, err = env.Reviews.Create(ctx, luis.ID, pasta.ID, review("Otra vez", 2))
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, apperror.CodeDuplicateReview, apperror.CodeOf(err))

	// the owner may review its own recipe, it is not gated
	_, err = env.Reviews.Create(ctx, ana.ID, pasta.ID, review("Mia", 5))
	assert.NoError(t, err)
}

func TestCreateReviewErrors(t *testing.T) {
	env := testsupport.NewEnv(t)
	ana, _ := env.MustUser(t, 0, "Ana")
	pasta := env.MustRecipe(t, ana.ID, testsupport.RecipeRequest("Pasta"))
	ctx := context.Background()

	_, err := env.Reviews.Create(ctx, ana.ID, uuid.New(), review("x", 3))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = env.Reviews.Create(ctx, ana.ID, pasta.ID, review("x", 5.5))
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = env.Reviews.Create(ctx, ana.ID, pasta.ID, model.ReviewRequest{Comment: "sin nota"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestUpdateAndDeleteAreAuthorGated(t *testing.T) {
	env := testsupport.NewEnv(t)
	ana, _ := env.MustUser(t, 0, "Ana")
	luis, _ := env.MustUser(t, 1, "Luis")
	pasta := env.MustRecipe(t, ana.ID, testsupport.RecipeRequest("Pasta"))
	ctx := context.Background()

	rv, err := env.Reviews.Create(ctx, luis.ID, pasta.ID, review("Rica", 4))
	require.NoError(t, err)

	_, err = env.Reviews.Update(ctx, ana.ID, rv.ID, review("Hack", 0))
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(env.Reviews.Delete(ctx, ana.ID, rv.ID)))

	updated, err := env.Reviews.Update(ctx, luis.ID, rv.ID, review("Mejor", 5))
	require.NoError(t, err)
	assert.Equal(t, "Mejor", updated.Comment)
	assert.Equal(t, 2, updated.Version)

	got, err := env.Reviews.Get(ctx, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mejor", got.Comment)

	require.NoError(t, env.Reviews.Delete(ctx, luis.ID, rv.ID))
	assert.NoError(t, env.Reviews.Delete(ctx, luis.ID, rv.ID), "second delete is a no-op")

	detail, err := env.Recipes.Get(ctx, pasta.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Reviews)
}

func TestConcurrentCreateReviewOnePerAuthor(t *testing.T) {
	env := testsupport.NewEnv(t)
	ana, _ := env.MustUser(t, 0, "Ana")
	luis, _ := env.MustUser(t, 1, "Luis")
	pasta := env.MustRecipe(t, ana.ID, testsupport.RecipeRequest("Pasta"))
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
			_, err := env.Reviews.Create(ctx, luis.ID, pasta.ID, review("Muy buena", 4.5))
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
		assert.Equal(t, apperror.CodeDuplicateReview, code)
	}
}
