package model

import (
	"errors"

	"recipebook-backend/internal/shared/apperror"
)

// Errors
var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("already reviewed this recipe")
	ErrNotAuthor       = errors.New("review belongs to another user")
	ErrVersionConflict = errors.New("review was modified concurrently")
)

// Error constructors
func NewReviewNotFoundError() *apperror.CatalogError {
	return apperror.NotFound(ErrReviewNotFound)
}

func NewAlreadyReviewedError() *apperror.CatalogError {
	return apperror.Conflict(apperror.CodeDuplicateReview, "You have already reviewed this recipe", ErrAlreadyReviewed)
}

func NewNotAuthorError() *apperror.CatalogError {
	return apperror.Unauthorized(ErrNotAuthor)
}

func NewVersionConflictError() *apperror.CatalogError {
	return apperror.Conflict(apperror.CodeVersionConflict, "Review was modified concurrently, retry", ErrVersionConflict)
}
