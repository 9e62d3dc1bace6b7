package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrigrams(t *testing.T) {
	got := Trigrams("Word")
	assert.Len(t, got, 5)
	for _, tri := range []string{"  w", " wo", "wor", "ord", "rd "} {
		assert.Contains(t, got, tri)
	}

	assert.Empty(t, Trigrams("  ...  "))
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "django", "django", 1},
		{"case insensitive", "Django", "DJANGO", 1},
		{"pg_trgm reference", "word", "two words", 4.0 / 11.0},
		{"disjoint", "abc", "xyz", 0},
		{"empty", "", "anything", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	a, b := "Learning Go the hard way", "learn go"
	assert.InDelta(t, Similarity(a, b), Similarity(b, a), 1e-12)
	assert.Greater(t, Similarity(a, b), DefaultThreshold)
}
