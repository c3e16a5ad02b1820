package utils

import (
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Tomato", Capitalize("tomato"))
	assert.Equal(t, "Tomato", Capitalize("  TOMATO "))
	assert.Equal(t, "Ñora", Capitalize("ñORA"))
	assert.Equal(t, "Aceite de oliva", Capitalize("aceite DE oliva"))
	assert.Equal(t, "", Capitalize("   "))
}

func TestParseUUID(t *testing.T) {
	id := uuid.New()
	got, ok := ParseUUID(id.String())
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = ParseUUID("nope")
	assert.False(t, ok)
	_, ok = ParseUUID("")
	assert.False(t, ok)
}

func TestWhereBuilder(t *testing.T) {
	var b WhereBuilder
	assert.Equal(t, "", b.Clause())

	b.Where("name ILIKE " + b.Arg("%a%"))
	b.Where("rations > " + b.Arg(4))

	assert.Equal(t, " WHERE name ILIKE $1 AND rations > $2", b.Clause())
	assert.Equal(t, []interface{}{"%a%", 4}, b.Args())

	args := b.Args()
	args = append(args, 25)
	assert.Len(t, b.Args(), 2)
	assert.Len(t, args, 3)
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, `%50\%\_off%`, ContainsPattern("50%_off"))
}

func TestCompareText(t *testing.T) {
	names := []string{"Zumo", "Pasta", "Ñoquis", "arroz", "Olla", "Nata"}
	sort.SliceStable(names, func(i, j int) bool { return CompareText(names[i], names[j]) < 0 })
	assert.Equal(t, []string{"arroz", "Nata", "Ñoquis", "Olla", "Pasta", "Zumo"}, names)

	assert.Equal(t, 0, CompareText("Tomate", "Tomate"))
	assert.Negative(t, CompareText("cafe", "Café"))
}
