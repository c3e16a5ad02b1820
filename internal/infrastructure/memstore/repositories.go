package memstore

import (
	recipeRepo "recipebook-backend/internal/domains/recipe/repository"
	reviewRepo "recipebook-backend/internal/domains/review/repository"
	userRepo "recipebook-backend/internal/domains/user/repository"
	vocabRepo "recipebook-backend/internal/domains/vocabulary/repository"
)

// Repositories bundles every repository over one Store.
type Repositories struct {
	Users      userRepo.UserRepository
	Tokens     userRepo.TokenRepository
	Recipes    recipeRepo.RecipeRepository
	Reviews    reviewRepo.ReviewRepository
	Vocabulary vocabRepo.VocabularyRepository
}

func NewRepositories(store *Store) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(store),
		Tokens:     NewTokenRepository(store),
		Recipes:    NewRecipeRepository(store),
		Reviews:    NewReviewRepository(store),
		Vocabulary: NewVocabularyRepository(store),
	}
}
