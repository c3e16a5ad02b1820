package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	tests := map[string]int{
		"":    0,
		"0":   0,
		"3":   3,
		"-1":  0,
		"abc": 0,
		" 2 ": 2,

		"400000000000000000": MaxPage,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParsePage(in), "input %q", in)
	}
	assert.Equal(t, 50, Offset(2))
	assert.Equal(t, 0, Offset(-3))
	assert.Equal(t, MaxPage*PageSize, Offset(MaxPage+1))
	assert.Positive(t, Offset(ParsePage("400000000000000000")))
}

func TestSliceBeyondLastPage(t *testing.T) {
	items := []int{1, 2, 3}

	assert.Equal(t, []int{1, 2, 3}, Slice(items, 0))
	assert.Empty(t, Slice(items, 1))
	assert.Empty(t, Slice(items, ParsePage("400000000000000000")))
	assert.Equal(t, []int{1, 2, 3}, Slice(items, -1))
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in   string
		want *Range
	}{
		{"4:gt", &Range{Value: 4, Op: OpGt}},
		{"4:GT", &Range{Value: 4, Op: OpGt}},
		{"10:lt", &Range{Value: 10, Op: OpLt}},
		{"2:eq", &Range{Value: 2, Op: OpEq}},
		{"4", nil},
		{"4:", nil},
		{"4:ge", nil},
		{"x:gt", nil},
		{"4:gt:1", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRange(tt.in))
		})
	}
}

func TestRangeMatch(t *testing.T) {
	r := ParseRange("4:gt")
	require.NotNil(t, r)
	assert.False(t, r.Match(2))
	assert.False(t, r.Match(4))
	assert.True(t, r.Match(6))
	assert.Equal(t, ">", r.SQL())
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, &Sort{Field: "name"}, ParseSort("name:asc"))
	assert.Equal(t, &Sort{Field: "time", Desc: true}, ParseSort("time:DESC"))
	assert.Nil(t, ParseSort("name:up"))
	assert.Nil(t, ParseSort("name"))
	assert.Nil(t, ParseSort(":asc"))
}

func TestSlice(t *testing.T) {
	items := make([]int, 30)
	assert.Len(t, Slice(items, 0), 25)
	assert.Len(t, Slice(items, 1), 5)
	assert.Empty(t, Slice(items, 2))
	assert.NotNil(t, Slice(items, 9))
}
