package model

import (
	"errors"

	"recipebook-backend/internal/shared/apperror"
)

var (
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrDuplicateRecipe  = errors.New("recipe with this name already exists for owner")
	ErrNotOwner         = errors.New("recipe belongs to another user")
	ErrNothingToUpdate  = errors.New("nothing to update")
	ErrVersionConflict  = errors.New("recipe was modified concurrently")
)

func NewRecipeNotFoundError() *apperror.CatalogError {
	return apperror.NotFound(ErrRecipeNotFound)
}

func NewDuplicateRecipeError() *apperror.CatalogError {
	return apperror.Conflict(apperror.CodeDuplicateRecipe, "You already have a recipe with this name", ErrDuplicateRecipe)
}

func NewNotOwnerError() *apperror.CatalogError {
	return apperror.Unauthorized(ErrNotOwner)
}

func NewVersionConflictError() *apperror.CatalogError {
	return apperror.Conflict(apperror.CodeVersionConflict, "Recipe was modified concurrently, retry", ErrVersionConflict)
}
