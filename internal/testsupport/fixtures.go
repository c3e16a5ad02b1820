// Package testsupport wires the services on top of the in-memory store and the
// sturdyc cache for tests.
package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	recipeModel "recipebook-backend/internal/domains/recipe/model"
	recipeService "recipebook-backend/internal/domains/recipe/service"
	reviewService "recipebook-backend/internal/domains/review/service"
	userModel "recipebook-backend/internal/domains/user/model"
	userService "recipebook-backend/internal/domains/user/service"
	infraCache "recipebook-backend/internal/infrastructure/cache"
	"recipebook-backend/internal/infrastructure/memstore"
	"recipebook-backend/pkg/cache"
)

// Env is one isolated catalog: store, cache and every service over them.
type Env struct {
	Store *memstore.Store
	Cache *infraCache.MemoryCache
	TTL   cache.TTLConfig

	Repos *memstore.Repositories

	Assoc   *recipeService.AssociationManager
	Cascade *recipeService.Cascade

	Users   userService.ServiceInterface
	Recipes recipeService.ServiceInterface
	Reviews reviewService.ServiceInterface
}

func NewEnv(t testing.TB) *Env {
	t.Helper()

	store := memstore.New()
	repos := memstore.NewRepositories(store)
	c := infraCache.NewMemoryCache(1000)
	ttl := cache.TTLConfig{Entity: time.Minute, Collection: time.Minute}
	t.Cleanup(func() { _ = c.Close() })

	assoc := recipeService.NewAssociationManager(repos.Vocabulary)
	cascade := recipeService.NewCascade(repos.Recipes, repos.Reviews, repos.Vocabulary)

	return &Env{
		Store:   store,
		Cache:   c,
		TTL:     ttl,
		Repos:   repos,
		Assoc:   assoc,
		Cascade: cascade,
		Users:   userService.NewUserService(repos.Users, repos.Tokens, cascade, store, c, ttl),
		Recipes: recipeService.NewRecipeService(
			repos.Recipes, repos.Reviews, repos.Users, assoc, cascade, store, c, ttl,
		),
		Reviews: reviewService.NewReviewService(repos.Reviews, repos.Recipes, store, c, ttl),
	}
}

// Valid DNIs, control letter included.
var DNIs = []string{"70917793F", "12345678Z", "00000000T", "87654321X", "11111111H"}

// MustUser registers a user with the i-th DNI and returns it with its raw token.
func (e *Env) MustUser(t testing.TB, i int, name string) (*userModel.User, string) {
	t.Helper()
	u, raw, err := e.Users.Register(context.Background(), userModel.CreateUserRequest{
		DNI:  DNIs[i],
		Name: name,
		City: "Madrid",
	})
	require.NoError(t, err)
	return u, raw
}

// RecipeRequest returns a valid request for name.
func RecipeRequest(name string) recipeModel.RecipeRequest {
	return recipeModel.RecipeRequest{
		Name:        name,
		Description: "Receta de " + name,
		Difficulty:  recipeModel.DifficultyMedia,
		Steps:       "Cocer y servir",
		Kitchen:     "Italiana",
		Rations:     4,
		Time:        30,
		Type:        recipeModel.CoursePrimero,
	}
}

// MustRecipe creates a recipe owned by ownerID.
func (e *Env) MustRecipe(t testing.TB, ownerID uuid.UUID, req recipeModel.RecipeRequest) *recipeModel.Recipe {
	t.Helper()
	rec, err := e.Recipes.Create(context.Background(), ownerID, req)
	require.NoError(t, err)
	return rec
}
