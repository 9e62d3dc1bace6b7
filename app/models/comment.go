package models

import (
	"errors"
)

// NewComment returns an active comment on the given post.
func NewComment(post *Post, name, email, body string) *Comment {
	c := &Comment{
		Name:   name,
		Email:  email,
		Body:   body,
		Active: true,
	}
	if post != nil {
		c.Post = post
		c.PostID = post.ID
	}
	return c
}

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// BeforeSave sets the creation time once and the update time on every save.
func (c *Comment) BeforeSave() {
	t := now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = t
	}
	c.UpdatedAt = t
}

// SetPost sets the parent post and updates the PostID
func (c *Comment) SetPost(post *Post) error {
	if post == nil {
		return errors.New("post cannot be nil")
	}

	c.Post = post
	c.PostID = post.ID
	return nil
}
