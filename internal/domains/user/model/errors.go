package model

import (
	"errors"

	"recipebook-backend/internal/shared/apperror"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateDNI     = errors.New("user with this dni already exists")
	ErrTokenNotFound    = errors.New("token not found")
	ErrNothingToUpdate  = errors.New("nothing to update")
	ErrVersionConflict  = errors.New("user was modified concurrently")
	ErrMissingAuthToken = errors.New("missing authorization token")
)

// Error constructors
func NewUserNotFoundError() *apperror.CatalogError {
	return apperror.NotFound(ErrUserNotFound)
}

func NewDuplicateUserError() *apperror.CatalogError {
	return apperror.Conflict(apperror.CodeDuplicateUser, "A user with this DNI already exists", ErrDuplicateDNI)
}

func NewUnauthorizedError(err error) *apperror.CatalogError {
	return apperror.Unauthorized(err)
}

func NewVersionConflictError() *apperror.CatalogError {
	return apperror.Conflict(apperror.CodeVersionConflict, "User was modified concurrently, retry", ErrVersionConflict)
}
