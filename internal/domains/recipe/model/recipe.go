package model

import (
	"time"

	"github.com/google/uuid"

	reviewModel "recipebook-backend/internal/domains/review/model"
)

type Difficulty string

const (
	DifficultyAlta  Difficulty = "Alta"
	DifficultyMedia Difficulty = "Media"
	DifficultyBaja  Difficulty = "Baja"
)

// Course is the recipe type.
type Course string

const (
	CourseEntrante Course = "Entrante"
	CoursePrimero  Course = "Primero"
	CourseSegundo  Course = "Segundo"
	CoursePostre   Course = "Postre"
)

// Recipe: Ingredients and Tags hold canonical vocabulary names, sorted.
type Recipe struct {
	ID          uuid.UUID  `json:"id"`
	Owner       uuid.UUID  `json:"owner_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	Steps       string     `json:"steps"`
	Kitchen     string     `json:"kitchen"`
	Rations     int        `json:"rations"`
	Time        int        `json:"time"`
	Type        Course     `json:"type"`
	Ingredients []string   `json:"ingredients"`
	Tags        []string   `json:"tags"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// OwnerID implements access.Owned.
func (r *Recipe) OwnerID() uuid.UUID {
	return r.Owner
}

// Detail is the cached whole object: the recipe plus its reviews.
type Detail struct {
	Recipe  *Recipe               `json:"recipe"`
	Reviews []*reviewModel.Review `json:"reviews"`
}

// Page of recipes, the cached collection form.
type Page struct {
	Page    int       `json:"page"`
	Total   int       `json:"total"`
	Recipes []*Recipe `json:"recipes"`
}
