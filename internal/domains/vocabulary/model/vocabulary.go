package model

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"recipebook-backend/internal/shared/apperror"
	"recipebook-backend/internal/shared/utils"
)

// Kind selects the shared vocabulary: ingredients or tags.
type Kind string

const (
	KindIngredient Kind = "ingredient"
	KindTag        Kind = "tag"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindIngredient, KindTag:
		return k, nil
	default:
		return "", fmt.Errorf("unknown vocabulary kind %q", s)
	}
}

// Entry is one ingredient or tag. Name is stored canonical, looked up case-insensitively.
type Entry struct {
	ID      uuid.UUID `json:"id"`
	Kind    Kind      `json:"kind"`
	Name    string    `json:"name"`
	Version int       `json:"version"`
}

// Canonical: trimmed, first letter upper, rest lower.
func Canonical(raw string) string {
	return utils.Capitalize(raw)
}

// MaxNameLength matches the name column of ingredients and tags.
const MaxNameLength = 255

// ValidateName checks a trimmed attach name.
func ValidateName(name string) error {
	return validation.Errors{
		"name": validation.Validate(name,
			validation.Required.Error(ErrEmptyName.Error()),
			validation.RuneLength(1, MaxNameLength),
		),
	}.Filter()
}

// SameName compares two names the way lookups do.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

var (
	ErrEntryNotFound = errors.New("vocabulary entry not found")
	ErrEmptyName     = errors.New("name cannot be blank")
	ErrAlreadyLinked = errors.New("already linked to recipe")
)

// NewAlreadyLinkedError: code 2 for ingredients, 3 for tags.
func NewAlreadyLinkedError(kind Kind) *apperror.CatalogError {
	if kind == KindTag {
		return apperror.Conflict(apperror.CodeDuplicateTag, "Tag already exists in this recipe", ErrAlreadyLinked)
	}
	return apperror.Conflict(apperror.CodeDuplicateIngredient, "Ingredient already exists in this recipe", ErrAlreadyLinked)
}
