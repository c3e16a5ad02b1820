package model

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"recipebook-backend/internal/shared/query"
	"recipebook-backend/internal/shared/utils"
)

// User is the cached and stored form. DNI never leaves the service through a response.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	DNI       string    `json:"dni" db:"dni"`
	Name      string    `json:"name" db:"name"`
	City      string    `json:"city" db:"city"`
	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Token is the one credential of a user, stored by digest only.
type Token struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Digest    string    `json:"-" db:"digest"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SearchFilter backs GET /users and /users/search.
type SearchFilter struct {
	Name   string
	City   string
	SortBy string // "field:asc|desc"
	Page   int
}

// Matches is the in-memory form of the SQL predicate.
func (f SearchFilter) Matches(u *User) bool {
	if f.Name != "" && !containsFold(u.Name, f.Name) {
		return false
	}
	if f.City != "" && !containsFold(u.City, f.City) {
		return false
	}
	return true
}

// ParseSearchFilter reads name, city, sortBy and page. It never fails.
func ParseSearchFilter(values url.Values) SearchFilter {
	return SearchFilter{
		Name:   strings.TrimSpace(values.Get("name")),
		City:   strings.TrimSpace(values.Get("city")),
		SortBy: strings.TrimSpace(values.Get("sortBy")),
		Page:   query.ParsePage(values.Get("page")),
	}
}

// Less orders a before b the way Search does: sortBy on id, name or city,
// else created_at, id.
func (f SearchFilter) Less(a, b *User) bool {
	if s := query.ParseSort(f.SortBy); s != nil {
		c, known := 0, true
		switch strings.ToLower(s.Field) {
		case "id":
			c = strings.Compare(a.ID.String(), b.ID.String())
		case "name":
			c = utils.CompareText(a.Name, b.Name)
		case "city":
			c = utils.CompareText(a.City, b.City)
		default:
			known = false
		}
		if known {
			if c != 0 {
				return (c < 0) != s.Desc
			}
			return a.ID.String() < b.ID.String()
		}
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

// Page of users, the cached collection form.
type Page struct {
	Page  int     `json:"page"`
	Total int     `json:"total"`
	Users []*User `json:"users"`
}
