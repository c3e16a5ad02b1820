package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// WhereBuilder collects conditions and their positional args ($1, $2, ...).
type WhereBuilder struct {
	conditions []string
	args       []interface{}
}

// Arg registers v and returns its placeholder.
func (b *WhereBuilder) Arg(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *WhereBuilder) Where(cond string) {
	b.conditions = append(b.conditions, cond)
}

// Clause returns " WHERE a AND b", or "" when nothing was added.
func (b *WhereBuilder) Clause() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return " WHERE " + JoinWithAnd(b.conditions)
}

// Args returns a copy so callers can append limit/offset safely.
func (b *WhereBuilder) Args() []interface{} {
	out := make([]interface{}, len(b.args))
	copy(out, b.args)
	return out
}

// EscapeLike escapes LIKE wildcards so user input matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ContainsPattern -> %escaped%
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}
