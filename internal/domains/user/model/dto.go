package model

import (
	"encoding/xml"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var namePattern = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚ\s]{1,255}$`)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateUserRequest POST /user
type CreateUserRequest struct {
	DNI  string `json:"dni" xml:"dni"`
	Name string `json:"name" xml:"name"`
	City string `json:"city" xml:"city"`
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DNI, validation.Required, validation.By(ValidateDNI)),
		validation.Field(&r.Name, validation.Required, validation.Match(namePattern)),
		validation.Field(&r.City, validation.Required, validation.Length(1, 255)),
	)
}

// UpdateUserRequest PUT /user. DNI is immutable and ignored here.
type UpdateUserRequest struct {
	Name string `json:"name" xml:"name"`
	City string `json:"city" xml:"city"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Match(namePattern)),
		validation.Field(&r.City, validation.Required, validation.Length(1, 255)),
	)
}

// PatchUserRequest PATCH /user
type PatchUserRequest struct {
	Name *string `json:"name" xml:"name"`
	City *string `json:"city" xml:"city"`
}

func (r PatchUserRequest) Empty() bool {
	return r.Name == nil && r.City == nil
}

func (r PatchUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Match(namePattern)),
		validation.Field(&r.City, validation.NilOrNotEmpty, validation.Length(1, 255)),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type UserResponse struct {
	XMLName xml.Name `json:"-" xml:"user"`
	ID      string   `json:"id" xml:"id"`
	Name    string   `json:"name" xml:"name"`
	City    string   `json:"city" xml:"city"`
}

func ToResponse(u *User) UserResponse {
	return UserResponse{ID: u.ID.String(), Name: u.Name, City: u.City}
}

// UserCollection: {page, total, users}
type UserCollection struct {
	XMLName xml.Name       `json:"-" xml:"users"`
	Page    int            `json:"page" xml:"page,attr"`
	Total   int            `json:"total" xml:"total,attr"`
	Users   []UserResponse `json:"users" xml:"user"`
}

func ToCollection(page, total int, users []*User) UserCollection {
	out := UserCollection{Page: page, Total: total, Users: make([]UserResponse, 0, len(users))}
	for _, u := range users {
		out.Users = append(out.Users, ToResponse(u))
	}
	return out
}
