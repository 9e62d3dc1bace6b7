package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommentValidation(t *testing.T) {
	tests := []struct {
		name    string
		comment *Comment
		wantErr bool
	}{
		{
			name: "valid comment",
			comment: &Comment{
				ID:        1,
				PostID:    1,
				Name:      "John Doe",
				Email:     "john@example.com",
				Body:      "This is a valid comment",
				CreatedAt: time.Now(),
			},
			wantErr: false,
		},
		{
			name: "bad email",
			comment: &Comment{
				ID:        1,
				PostID:    1,
				Name:      "John Doe",
				Email:     "not-an-email",
				Body:      "This is a valid comment",
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "empty body",
			comment: &Comment{
				ID:        1,
				PostID:    1,
				Name:      "John Doe",
				Email:     "john@example.com",
				Body:      "",
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "zero creation time",
			comment: &Comment{
				ID:     1,
				PostID: 1,
				Name:   "John Doe",
				Email:  "john@example.com",
				Body:   "Valid content",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.comment.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewComment(t *testing.T) {
	post := &Post{ID: 3, Title: "Test Post"}
	comment := NewComment(post, "Jane", "jane@example.com", "Nice")

	assert.True(t, comment.Active)
	assert.Equal(t, 3, comment.PostID)
	assert.Same(t, post, comment.Post)
}

func TestCommentBeforeSave(t *testing.T) {
	comment := &Comment{
		ID:     1,
		PostID: 1,
		Name:   "John Doe",
		Body:   "Test Comment",
	}

	assert.True(t, comment.CreatedAt.IsZero())
	comment.BeforeSave()
	assert.False(t, comment.CreatedAt.IsZero())
	assert.Equal(t, comment.CreatedAt, comment.UpdatedAt)
}

func TestCommentSetPost(t *testing.T) {
	comment := &Comment{
		ID:   1,
		Name: "John Doe",
		Body: "Test Comment",
	}

	t.Run("set valid post", func(t *testing.T) {
		post := &Post{
			ID:    1,
			Title: "Test Post",
			Body:  "Test Content",
		}

		err := comment.SetPost(post)
		assert.NoError(t, err)
		assert.Equal(t, post.ID, comment.PostID)
		assert.Equal(t, post, comment.Post)
	})

	t.Run("set nil post", func(t *testing.T) {
		err := comment.SetPost(nil)
		assert.Error(t, err)
	})
}
