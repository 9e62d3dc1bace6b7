package models

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugStrip = regexp.MustCompile(`[^\w\s-]`)
	slugDash  = regexp.MustCompile(`[-\s]+`)

	asciiOnly = transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
)

// Slugify turns s into a URL-safe identifier: transliterated to ASCII, lowercased,
// stripped of punctuation, with whitespace and dash runs collapsed to one dash.
func Slugify(s string) string {
	s = unidecode.Unidecode(s)
	if ascii, _, err := transform.String(asciiOnly, s); err == nil {
		s = ascii
	}
	s = slugStrip.ReplaceAllString(strings.ToLower(s), "")
	s = slugDash.ReplaceAllString(s, "-")
	return strings.Trim(s, "-_")
}

// NewTag builds a tag whose slug is derived from its name.
func NewTag(name string) Tag {
	name = strings.TrimSpace(name)
	return Tag{Name: name, Slug: Slugify(name)}
}

// BeforeSave derives the slug when it is missing.
func (t *Tag) BeforeSave() {
	if t.Slug == "" {
		t.Slug = Slugify(t.Name)
	}
}
