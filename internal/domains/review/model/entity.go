package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// ratings render as numbers: 4.5, not "4.5"
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	MaxCommentLength = 255
	MinRating        = 0
	MaxRating        = 5
)

// Review of a recipe. One per (author, recipe).
type Review struct {
	ID        uuid.UUID       `json:"id"`
	Author    uuid.UUID       `json:"author_id"`
	RecipeID  uuid.UUID       `json:"recipe_id"`
	Comment   string          `json:"comment"`
	Rating    decimal.Decimal `json:"rating"`
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OwnerID implements access.Owned: a review belongs to its author.
func (r *Review) OwnerID() uuid.UUID {
	return r.Author
}
