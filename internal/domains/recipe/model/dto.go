package model

import (
	"encoding/xml"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	reviewModel "recipebook-backend/internal/domains/review/model"
)

var (
	difficultyRule = validation.In(DifficultyAlta, DifficultyMedia, DifficultyBaja).Error("must be one of Alta, Media, Baja")
	courseRule     = validation.In(CourseEntrante, CoursePrimero, CourseSegundo, CoursePostre).Error("must be one of Entrante, Primero, Segundo, Postre")
)

// =====================================================
// REQUEST DTOs
// =====================================================

// RecipeRequest is the body of POST /recipe and PUT /recipe/:id. Every field is required.
// Ingredients and tags are only managed through their own endpoints.
type RecipeRequest struct {
	Name        string     `json:"name" xml:"name"`
	Description string     `json:"description" xml:"description"`
	Difficulty  Difficulty `json:"difficulty" xml:"difficulty"`
	Steps       string     `json:"steps" xml:"steps"`
	Kitchen     string     `json:"kitchen" xml:"kitchen"`
	Rations     int        `json:"rations" xml:"rations"`
	Time        int        `json:"time" xml:"time"`
	Type        Course     `json:"type" xml:"type"`
}

func (r RecipeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Description, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Difficulty, validation.Required, difficultyRule),
		validation.Field(&r.Steps, validation.Required),
		validation.Field(&r.Kitchen, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Rations, validation.Required, validation.Min(1)),
		validation.Field(&r.Time, validation.Required, validation.Min(1)),
		validation.Field(&r.Type, validation.Required, courseRule),
	)
}

// Apply copies every field onto rec.
func (r RecipeRequest) Apply(rec *Recipe) {
	rec.Name = r.Name
	rec.Description = r.Description
	rec.Difficulty = r.Difficulty
	rec.Steps = r.Steps
	rec.Kitchen = r.Kitchen
	rec.Rations = r.Rations
	rec.Time = r.Time
	rec.Type = r.Type
}

// PatchRecipeRequest PATCH /recipe/:id, nil = unchanged
type PatchRecipeRequest struct {
	Name        *string     `json:"name" xml:"name"`
	Description *string     `json:"description" xml:"description"`
	Difficulty  *Difficulty `json:"difficulty" xml:"difficulty"`
	Steps       *string     `json:"steps" xml:"steps"`
	Kitchen     *string     `json:"kitchen" xml:"kitchen"`
	Rations     *int        `json:"rations" xml:"rations"`
	Time        *int        `json:"time" xml:"time"`
	Type        *Course     `json:"type" xml:"type"`
}

func (r PatchRecipeRequest) Empty() bool {
	return r.Name == nil && r.Description == nil && r.Difficulty == nil && r.Steps == nil &&
		r.Kitchen == nil && r.Rations == nil && r.Time == nil && r.Type == nil
}

func (r PatchRecipeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.Description, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.Difficulty, validation.NilOrNotEmpty, difficultyRule),
		validation.Field(&r.Steps, validation.NilOrNotEmpty),
		validation.Field(&r.Kitchen, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.Rations, validation.NilOrNotEmpty, validation.Min(1)),
		validation.Field(&r.Time, validation.NilOrNotEmpty, validation.Min(1)),
		validation.Field(&r.Type, validation.NilOrNotEmpty, courseRule),
	)
}

func (r PatchRecipeRequest) Apply(rec *Recipe) {
	if r.Name != nil {
		rec.Name = *r.Name
	}
	if r.Description != nil {
		rec.Description = *r.Description
	}
	if r.Difficulty != nil {
		rec.Difficulty = *r.Difficulty
	}
	if r.Steps != nil {
		rec.Steps = *r.Steps
	}
	if r.Kitchen != nil {
		rec.Kitchen = *r.Kitchen
	}
	if r.Rations != nil {
		rec.Rations = *r.Rations
	}
	if r.Time != nil {
		rec.Time = *r.Time
	}
	if r.Type != nil {
		rec.Type = *r.Type
	}
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type RecipeResponse struct {
	XMLName     xml.Name                     `json:"-" xml:"recipe"`
	ID          string                       `json:"id" xml:"id"`
	OwnerID     string                       `json:"owner_id" xml:"owner_id"`
	Name        string                       `json:"name" xml:"name"`
	Description string                       `json:"description" xml:"description"`
	Difficulty  Difficulty                   `json:"difficulty" xml:"difficulty"`
	Steps       string                       `json:"steps" xml:"steps"`
	Kitchen     string                       `json:"kitchen" xml:"kitchen"`
	Rations     int                          `json:"rations" xml:"rations"`
	Time        int                          `json:"time" xml:"time"`
	Type        Course                       `json:"type" xml:"type"`
	Ingredients []string                     `json:"ingredients" xml:"ingredients>ingredient"`
	Tags        []string                     `json:"tags" xml:"tags>tag"`
	Reviews     []reviewModel.ReviewResponse `json:"reviews,omitempty" xml:"reviews>review,omitempty"`
}

func ToResponse(r *Recipe) RecipeResponse {
	ingredients := append([]string{}, r.Ingredients...)
	tags := append([]string{}, r.Tags...)
	sort.Strings(ingredients)
	sort.Strings(tags)
	return RecipeResponse{
		ID:          r.ID.String(),
		OwnerID:     r.Owner.String(),
		Name:        r.Name,
		Description: r.Description,
		Difficulty:  r.Difficulty,
		Steps:       r.Steps,
		Kitchen:     r.Kitchen,
		Rations:     r.Rations,
		Time:        r.Time,
		Type:        r.Type,
		Ingredients: ingredients,
		Tags:        tags,
	}
}

// ToDetailResponse includes the reviews.
func ToDetailResponse(d *Detail) RecipeResponse {
	resp := ToResponse(d.Recipe)
	resp.Reviews = make([]reviewModel.ReviewResponse, 0, len(d.Reviews))
	for _, rv := range d.Reviews {
		resp.Reviews = append(resp.Reviews, reviewModel.ToResponse(rv))
	}
	return resp
}

// RecipeCollection: {page, total, recipes}
type RecipeCollection struct {
	XMLName xml.Name         `json:"-" xml:"recipes"`
	Page    int              `json:"page" xml:"page,attr"`
	Total   int              `json:"total" xml:"total,attr"`
	Recipes []RecipeResponse `json:"recipes" xml:"recipe"`
}

func ToCollection(p *Page) RecipeCollection {
	out := RecipeCollection{Page: p.Page, Total: p.Total, Recipes: make([]RecipeResponse, 0, len(p.Recipes))}
	for _, r := range p.Recipes {
		out.Recipes = append(out.Recipes, ToResponse(r))
	}
	return out
}
