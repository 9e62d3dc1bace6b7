package models

import (
	"errors"
	"strconv"
	"time"
)

// now is swapped in tests that need deterministic timestamps.
var now = time.Now

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// BeforeSave fills the fields a post derives on every save: the slug when it is
// empty, the publish time when unset, the creation time once, the update time always.
func (p *Post) BeforeSave() {
	t := now()
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if p.Publish.IsZero() {
		p.Publish = t
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = t
	}
	p.UpdatedAt = t
	for i := range p.Tags {
		p.Tags[i].BeforeSave()
	}
}

// IsPublished reports whether the post is visible in listings.
func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}

// URL returns the path of the post detail page.
func (p *Post) URL() string {
	return "/" + p.Slug + "/"
}

// ShareURL returns the path of the post share page.
func (p *Post) ShareURL() string {
	return "/" + strconv.Itoa(p.ID) + "/share/"
}

// HasTag reports whether the post carries the tag with the given slug.
func (p *Post) HasTag(slug string) bool {
	for _, t := range p.Tags {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

// TagSlugs returns the set of tag slugs on the post.
func (p *Post) TagSlugs() map[string]struct{} {
	slugs := make(map[string]struct{}, len(p.Tags))
	for _, t := range p.Tags {
		slugs[t.Slug] = struct{}{}
	}
	return slugs
}

// SetTags replaces the post's tags with tags built from names, skipping blanks
// and duplicate slugs.
func (p *Post) SetTags(names ...string) {
	p.Tags = p.Tags[:0]
	seen := make(map[string]bool)
	for _, name := range names {
		tag := NewTag(name)
		if tag.Slug == "" || seen[tag.Slug] {
			continue
		}
		seen[tag.Slug] = true
		p.Tags = append(p.Tags, tag)
	}
}

// AddComment adds a comment to the post
func (p *Post) AddComment(comment *Comment) error {
	if comment == nil {
		return errors.New("comment cannot be nil")
	}

	comment.PostID = p.ID
	p.Comments = append(p.Comments, comment)
	return nil
}
