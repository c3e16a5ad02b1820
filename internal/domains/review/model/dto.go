package model

import (
	"encoding/xml"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"recipebook-backend/internal/shared/utils"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// ReviewRequest POST /recipe/:id/review and PUT /review/:id
type ReviewRequest struct {
	Comment string   `json:"comment" xml:"comment"`
	Rating  *float64 `json:"rating" xml:"rating"`
}

// Validate: rating 0 is a valid score, so NotNil instead of Required.
func (r ReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Comment, validation.Required, validation.Length(1, MaxCommentLength)),
		validation.Field(&r.Rating, validation.NotNil, validation.Min(float64(MinRating)), validation.Max(float64(MaxRating))),
	)
}

// RatingDecimal rounds to one decimal place, the stored precision.
func (r ReviewRequest) RatingDecimal() decimal.Decimal {
	d := utils.ParseFloatToDecimal(r.Rating)
	if d == nil {
		return decimal.Zero
	}
	return d.Round(1)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type ReviewResponse struct {
	XMLName  xml.Name        `json:"-" xml:"review"`
	ID       string          `json:"id" xml:"id"`
	AuthorID string          `json:"author_id" xml:"author_id"`
	RecipeID string          `json:"recipe_id" xml:"recipe_id"`
	Comment  string          `json:"comment" xml:"comment"`
	Rating   decimal.Decimal `json:"rating" xml:"rating"`
}

func ToResponse(r *Review) ReviewResponse {
	return ReviewResponse{
		ID:       r.ID.String(),
		AuthorID: r.Author.String(),
		RecipeID: r.RecipeID.String(),
		Comment:  r.Comment,
		Rating:   r.Rating,
	}
}
