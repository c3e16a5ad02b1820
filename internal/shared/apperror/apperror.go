package apperror

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Kind classifies a failure for the HTTP boundary.
type Kind int

const (
	KindStorage Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthorized
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindUnsupported:
		return "unsupported"
	default:
		return "storage"
	}
}

// Error codes exposed to clients. Duplicate codes are stable.
const (
	CodeDuplicateRecipe     = "1"
	CodeDuplicateIngredient = "2"
	CodeDuplicateTag        = "3"
	CodeDuplicateReview     = "4"
	CodeDuplicateUser       = "5"

	CodeValidation      = "VALIDATION_ERROR"
	CodeVersionConflict = "VERSION_CONFLICT"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// CatalogError is the coded error every service returns.
type CatalogError struct {
	Kind    Kind
	Code    string
	Message string
	Details interface{}
	Err     error
}

func (e *CatalogError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

// Validation wraps a field-level failure. ozzo validation.Errors become the details map.
func Validation(err error) *CatalogError {
	e := &CatalogError{Kind: KindValidation, Code: CodeValidation, Message: "invalid request", Err: err}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		e.Details = verrs
	} else if err != nil {
		e.Message = err.Error()
	}
	return e
}

func Conflict(code, message string, err error) *CatalogError {
	return &CatalogError{Kind: KindConflict, Code: code, Message: message, Err: err}
}

func NotFound(err error) *CatalogError {
	return &CatalogError{Kind: KindNotFound, Message: "not found", Err: err}
}

func Unauthorized(err error) *CatalogError {
	return &CatalogError{Kind: KindUnauthorized, Message: "unauthorized", Err: err}
}

func Storage(err error) *CatalogError {
	return &CatalogError{Kind: KindStorage, Code: CodeInternal, Message: "storage failure", Err: err}
}

// KindOf returns the kind of err; anything unclassified is a storage failure.
func KindOf(err error) Kind {
	var ce *CatalogError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindStorage
}

// CodeOf returns the client error code of err, empty if none.
func CodeOf(err error) string {
	var ce *CatalogError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
