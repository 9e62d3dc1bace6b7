package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumPages(t *testing.T) {
	assert.Equal(t, 1, New(0, 2).NumPages())
	assert.Equal(t, 1, New(2, 2).NumPages())
	assert.Equal(t, 2, New(3, 2).NumPages())
	assert.Equal(t, 5, New(5, 0).NumPages())
}

func TestValidate(t *testing.T) {
	p := New(5, 2)

	n, err := p.Validate("2")
	assert.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = p.Validate("abc")
	assert.ErrorIs(t, err, ErrPageNotAnInteger)

	_, err = p.Validate("")
	assert.ErrorIs(t, err, ErrPageNotAnInteger)

	_, err = p.Validate("4")
	assert.ErrorIs(t, err, ErrEmptyPage)

	_, err = p.Validate("0")
	assert.ErrorIs(t, err, ErrEmptyPage)

	_, err = p.Validate("99999999999999999999999")
	assert.ErrorIs(t, err, ErrEmptyPage)
}

func TestResolve(t *testing.T) {
	p := New(5, 2)

	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"1.5", 1},
		{"2", 2},
		{"3", 3},
		{"9999", 3},
		{"-1", 3},
		{"99999999999999999999999", 3},
		{"-99999999999999999999999", 3},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Resolve(tt.raw).Number)
		})
	}
}

func TestPageNavigation(t *testing.T) {
	p := New(5, 2)

	first := p.Resolve("1")
	assert.False(t, first.HasPrevious())
	assert.True(t, first.HasNext())
	assert.Equal(t, 0, first.Offset())
	assert.Equal(t, 2, first.Limit())
	assert.Equal(t, 2, first.NextNumber())

	last := p.Resolve("3")
	assert.True(t, last.HasPrevious())
	assert.False(t, last.HasNext())
	assert.Equal(t, 4, last.Offset())
	assert.Equal(t, 2, last.PreviousNumber())

	empty := New(0, 2).Resolve("7")
	assert.Equal(t, 1, empty.Number)
	assert.Equal(t, 0, empty.Offset())
}
