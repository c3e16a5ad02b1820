package model

import (
	"net/url"
	"strings"

	"github.com/google/uuid"

	"recipebook-backend/internal/shared/query"
	"recipebook-backend/internal/shared/utils"
)

// SearchFilter is the parsed form of GET /recipes/search. Empty strings and nil
// pointers mean "not filtered". Malformed range or sort parameters parse to nil.
type SearchFilter struct {
	Name        string
	Description string
	Difficulty  string
	UserID      *uuid.UUID
	Kitchen     string
	Rations     *query.Range
	Time        *query.Range
	Type        string
	Ingredient  string
	Tag         string
	Sort        *query.Sort
	Page        int
}

// SortFields maps a sortBy field (lower-cased) to its column. Anything else leaves the default order.
var SortFields = map[string]string{
	"id":          "id",
	"name":        "name",
	"description": "description",
	"difficulty":  "difficulty",
	"kitchen":     "kitchen",
	"rations":     "rations",
	"time":        "time",
	"type":        "type",
}

// ParseSearchFilter reads query parameters. It never fails.
// userId that is not a UUID matches nothing sensible, so it is skipped.
func ParseSearchFilter(values url.Values) SearchFilter {
	f := SearchFilter{
		Name:        strings.TrimSpace(values.Get("name")),
		Description: strings.TrimSpace(values.Get("description")),
		Difficulty:  strings.TrimSpace(values.Get("difficulty")),
		Kitchen:     strings.TrimSpace(values.Get("kitchen")),
		Type:        strings.TrimSpace(values.Get("type")),
		Ingredient:  strings.TrimSpace(values.Get("ingredient")),
		Tag:         strings.TrimSpace(values.Get("tag")),
		Page:        query.ParsePage(values.Get("page")),
	}
	if id, ok := utils.ParseUUID(strings.TrimSpace(values.Get("userId"))); ok {
		f.UserID = &id
	}
	if raw := values.Get("rations"); raw != "" {
		f.Rations = query.ParseRange(raw)
	}
	if raw := values.Get("time"); raw != "" {
		f.Time = query.ParseRange(raw)
	}
	if s := query.ParseSort(values.Get("sortBy")); s != nil {
		if _, ok := SortFields[strings.ToLower(s.Field)]; ok {
			s.Field = strings.ToLower(s.Field)
			f.Sort = s
		}
	}
	return f
}

// Matches evaluates the filter in the same order the SQL builder emits it.
func (f SearchFilter) Matches(r *Recipe) bool {
	if f.Name != "" && !containsFold(r.Name, f.Name) {
		return false
	}
	if f.Description != "" && !containsFold(r.Description, f.Description) {
		return false
	}
	if f.Difficulty != "" && !strings.EqualFold(string(r.Difficulty), f.Difficulty) {
		return false
	}
	if f.UserID != nil && r.Owner != *f.UserID {
		return false
	}
	if f.Kitchen != "" && !containsFold(r.Kitchen, f.Kitchen) {
		return false
	}
	if f.Rations != nil && !f.Rations.Match(r.Rations) {
		return false
	}
	if f.Time != nil && !f.Time.Match(r.Time) {
		return false
	}
	if f.Type != "" && !strings.EqualFold(string(r.Type), f.Type) {
		return false
	}
	if f.Ingredient != "" && !hasFold(r.Ingredients, f.Ingredient) {
		return false
	}
	if f.Tag != "" && !hasFold(r.Tags, f.Tag) {
		return false
	}
	return true
}

// Less orders a before b: the requested sort, then created_at, id.
// Text fields use utils.CompareText. Postgres orders them by the database
// collation, so both agree only when that collation is Spanish (es_ES).
func (f SearchFilter) Less(a, b *Recipe) bool {
	if f.Sort != nil {
		c := compareField(f.Sort.Field, a, b)
		if f.Sort.Desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		if f.Sort.Field != "id" {
			return a.ID.String() < b.ID.String()
		}
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

func compareField(field string, a, b *Recipe) int {
	switch field {
	case "id":
		return strings.Compare(a.ID.String(), b.ID.String())
	case "name":
		return utils.CompareText(a.Name, b.Name)
	case "description":
		return utils.CompareText(a.Description, b.Description)
	case "difficulty":
		return strings.Compare(string(a.Difficulty), string(b.Difficulty))
	case "kitchen":
		return utils.CompareText(a.Kitchen, b.Kitchen)
	case "type":
		return strings.Compare(string(a.Type), string(b.Type))
	case "rations":
		return a.Rations - b.Rations
	case "time":
		return a.Time - b.Time
	}
	return 0
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func hasFold(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
