// Package query parses the sparse listing parameters shared by every
// search endpoint. Malformed input never errors: the parameter is dropped.
package query

import (
	"math"
	"strconv"
	"strings"
)

// PageSize is fixed for every collection.
const PageSize = 25

// MaxPage is the last page whose offset still fits in an int.
const MaxPage = math.MaxInt / PageSize

// ParsePage returns a zero-based page; invalid or negative input is page 0.
// Pages past MaxPage are clamped, they are empty anyway.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 0 {
		return 0
	}
	if page > MaxPage {
		return MaxPage
	}
	return page
}

// Offset of page, saturated to [0, MaxPage*PageSize].
func Offset(page int) int {
	switch {
	case page <= 0:
		return 0
	case page > MaxPage:
		page = MaxPage
	}
	return page * PageSize
}

type Operator string

const (
	OpEq Operator = "eq"
	OpGt Operator = "gt"
	OpLt Operator = "lt"
)

// Range is a numeric filter "value:op".
type Range struct {
	Value int
	Op    Operator
}

// ParseRange returns nil unless raw is exactly "<int>:<eq|gt|lt>".
func ParseRange(raw string) *Range {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil
	}
	switch op := Operator(strings.ToLower(strings.TrimSpace(parts[1]))); op {
	case OpEq, OpGt, OpLt:
		return &Range{Value: value, Op: op}
	default:
		return nil
	}
}

// Match reports whether v satisfies the range.
func (r Range) Match(v int) bool {
	switch r.Op {
	case OpGt:
		return v > r.Value
	case OpLt:
		return v < r.Value
	default:
		return v == r.Value
	}
}

// SQL comparison operator.
func (r Range) SQL() string {
	switch r.Op {
	case OpGt:
		return ">"
	case OpLt:
		return "<"
	default:
		return "="
	}
}

// Sort is "field:direction".
type Sort struct {
	Field string
	Desc  bool
}

// ParseSort returns nil unless raw is "field:asc" or "field:desc" (direction case-insensitive).
// The field is not checked here; each search whitelists its own.
func ParseSort(raw string) *Sort {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return nil
	}
	field := strings.TrimSpace(parts[0])
	if field == "" {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(parts[1])) {
	case "asc":
		return &Sort{Field: field}
	case "desc":
		return &Sort{Field: field, Desc: true}
	default:
		return nil
	}
}

// Page is one slice of a filtered collection.
type Page[T any] struct {
	Page  int `json:"page"`
	Total int `json:"total"`
	Items []T `json:"items"`
}

// Slice cuts page out of items already filtered and ordered.
func Slice[T any](items []T, page int) []T {
	start := Offset(page)
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
