package services

import (
	"fmt"

	"inkwell/app/forms"
	"inkwell/app/models"
	"inkwell/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

// AddComment validates form and stores it as an active comment on post. An
// invalid form is returned as forms.ValidationErrors and nothing is stored.
func (s *CommentService) AddComment(post *models.Post, form *forms.CommentForm) (*models.Comment, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	comment := models.NewComment(post, form.Name, form.Email, form.Body)
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("save comment on post %d: %w", post.ID, err)
	}
	return comment, nil
}

// ActiveComments lists the visible comments of a post, oldest first.
func (s *CommentService) ActiveComments(postID int) ([]*models.Comment, error) {
	comments, err := s.commentRepo.ListActiveByPost(postID)
	if err != nil {
		return nil, fmt.Errorf("comments for post %d: %w", postID, err)
	}
	return comments, nil
}

// ListPostComments lists every comment of a post, hidden ones included.
func (s *CommentService) ListPostComments(postID int) ([]*models.Comment, error) {
	return s.commentRepo.ListByPost(postID)
}

// SetActive shows or hides a comment.
func (s *CommentService) SetActive(id int, active bool) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	comment.Active = active
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("update comment %d: %w", id, err)
	}
	return comment, nil
}
