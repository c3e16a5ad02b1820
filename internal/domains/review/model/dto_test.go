package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestReviewRequestValidate(t *testing.T) {
	assert.NoError(t, ReviewRequest{Comment: "Rica", Rating: ptr(0)}.Validate())
	assert.NoError(t, ReviewRequest{Comment: "Rica", Rating: ptr(5)}.Validate())

	assert.Error(t, ReviewRequest{Comment: "Rica"}.Validate(), "rating required")
	assert.Error(t, ReviewRequest{Comment: "Rica", Rating: ptr(5.5)}.Validate())
	assert.Error(t, ReviewRequest{Comment: "Rica", Rating: ptr(-1)}.Validate())
	assert.Error(t, ReviewRequest{Comment: "", Rating: ptr(3)}.Validate())
	assert.Error(t, ReviewRequest{Comment: strings.Repeat("a", 256), Rating: ptr(3)}.Validate())
}

func TestRatingDecimal(t *testing.T) {
	assert.True(t, decimal.RequireFromString("4.3").Equal(ReviewRequest{Rating: ptr(4.26)}.RatingDecimal()))
}

func TestReviewResponseJSON(t *testing.T) {
	rv := &Review{ID: uuid.New(), Author: uuid.New(), RecipeID: uuid.New(), Comment: "ok", Rating: decimal.RequireFromString("4.5")}
	raw, err := json.Marshal(ToResponse(rv))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"rating":4.5`)
}
