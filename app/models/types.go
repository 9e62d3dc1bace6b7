package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Status is the publication state of a post.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Post represents a blog post with its tags and comments.
type Post struct {
	ID        int        `json:"id" gorm:"primaryKey"`
	Title     string     `json:"title" gorm:"size:255;not null" validate:"required,max=255"`
	Slug      string     `json:"slug" gorm:"size:250;uniqueIndex;not null" validate:"required,max=250"`
	AuthorID  int        `json:"author_id" gorm:"not null;index" validate:"gt=0"`
	Author    *User      `json:"author,omitempty" gorm:"constraint:OnDelete:CASCADE" validate:"-"`
	Body      string     `json:"body" gorm:"type:text;not null" validate:"required"`
	Publish   time.Time  `json:"publish" gorm:"index"`
	CreatedAt time.Time  `json:"created"`
	UpdatedAt time.Time  `json:"updated"`
	Status    Status     `json:"status" gorm:"size:10;not null;index" validate:"oneof=draft published"`
	Tags      []Tag      `json:"tags" gorm:"many2many:post_tags;constraint:OnDelete:CASCADE" validate:"-"`
	Comments  []*Comment `json:"comments,omitempty" gorm:"constraint:OnDelete:CASCADE" validate:"-"`
}

// Comment represents a visitor comment on a blog post.
type Comment struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	PostID    int       `json:"post_id" gorm:"not null;index" validate:"gt=0"`
	Name      string    `json:"name" gorm:"size:80;not null" validate:"required,max=80"`
	Email     string    `json:"email" gorm:"size:254;not null" validate:"required,email"`
	Body      string    `json:"body" gorm:"type:text;not null" validate:"required"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
	Active    bool      `json:"active" gorm:"not null"`
	Post      *Post     `json:"-" gorm:"-" validate:"-"`
}

// Tag is a label attached to any number of posts.
type Tag struct {
	ID   int    `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:100;not null" validate:"required,max=100"`
	Slug string `json:"slug" gorm:"size:100;uniqueIndex;not null" validate:"required,max=100"`
}

// User is a post author.
type User struct {
	ID       int    `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"size:150;uniqueIndex;not null" validate:"required,max=150"`
	Email    string `json:"email,omitempty" gorm:"size:254" validate:"omitempty,email"`
}

// SearchResult pairs a post with its title similarity to a query.
type SearchResult struct {
	Post       *Post   `json:"post"`
	Similarity float64 `json:"similarity"`
}

// Validate checks the user's username and optional email.
func (u *User) Validate() error {
	return validate.Struct(u)
}
