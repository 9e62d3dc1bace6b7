// Package pagination splits a counted result set into fixed-size pages.
package pagination

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrPageNotAnInteger = errors.New("page number is not an integer")
	ErrEmptyPage        = errors.New("page number is out of range")
)

// Paginator describes Count items split into pages of PerPage items. An empty
// result set still has one (empty) page.
type Paginator struct {
	Count   int
	PerPage int
}

// Page is one resolved page of a paginator.
type Page struct {
	Number   int `json:"number"`
	NumPages int `json:"num_pages"`
	Count    int `json:"count"`
	PerPage  int `json:"per_page"`
}

// New returns a paginator; a non-positive perPage is treated as 1.
func New(count, perPage int) *Paginator {
	if perPage < 1 {
		perPage = 1
	}
	if count < 0 {
		count = 0
	}
	return &Paginator{Count: count, PerPage: perPage}
}

// NumPages returns the number of pages, at least one.
func (p *Paginator) NumPages() int {
	if p.Count == 0 {
		return 1
	}
	return (p.Count + p.PerPage - 1) / p.PerPage
}

// Validate parses raw as a page number and checks it is in range.
func (p *Paginator) Validate(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) {
		return 0, ErrEmptyPage
	}
	if err != nil {
		return 0, ErrPageNotAnInteger
	}
	if n < 1 || n > p.NumPages() {
		return 0, ErrEmptyPage
	}
	return n, nil
}

// Resolve returns the page for raw, falling back to the first page when raw is
// not an integer and to the last page when it is out of range.
func (p *Paginator) Resolve(raw string) Page {
	n, err := p.Validate(raw)
	switch {
	case errors.Is(err, ErrPageNotAnInteger):
		n = 1
	case errors.Is(err, ErrEmptyPage):
		n = p.NumPages()
	}
	return Page{Number: n, NumPages: p.NumPages(), Count: p.Count, PerPage: p.PerPage}
}

// Offset is the index of the first item on the page.
func (pg Page) Offset() int {
	return (pg.Number - 1) * pg.PerPage
}

// Limit is the maximum number of items on the page.
func (pg Page) Limit() int {
	return pg.PerPage
}

func (pg Page) HasPrevious() bool { return pg.Number > 1 }

func (pg Page) HasNext() bool { return pg.Number < pg.NumPages }

func (pg Page) PreviousNumber() int { return pg.Number - 1 }

func (pg Page) NextNumber() int { return pg.Number + 1 }
