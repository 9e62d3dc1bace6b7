package repositories

import (
	"errors"

	"inkwell/app/models"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateSlug     = errors.New("slug already in use")
	ErrDuplicateUsername = errors.New("username already in use")
	ErrUnknownAuthor     = errors.New("author does not exist")
)

// PostRepository defines the interface for post data access. Posts are returned
// with their tags and author loaded, never with comments.
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id int) (*models.Post, error)
	GetBySlug(slug string) (*models.Post, error)
	// CountPublished and ListPublished see only published posts, optionally
	// restricted to one tag slug, ordered by publish time descending.
	CountPublished(tagSlug string) (int, error)
	ListPublished(tagSlug string, limit, offset int) ([]*models.Post, error)
	// ListSimilar returns other posts sharing at least one tag with post, by
	// shared-tag count then publish time, both descending.
	ListSimilar(post *models.Post, limit int) ([]*models.Post, error)
	// SearchTitles returns posts whose title similarity to query is above
	// threshold, ordered by ascending similarity.
	SearchTitles(query string, threshold float64) ([]*models.SearchResult, error)
	Update(post *models.Post) error
	Delete(id int) error
}

// CommentRepository defines the interface for comment data access. Listings are
// ordered by creation time ascending.
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id int) (*models.Comment, error)
	ListByPost(postID int) ([]*models.Comment, error)
	ListActiveByPost(postID int) ([]*models.Comment, error)
	Update(comment *models.Comment) error
	Delete(id int) error
}

// TagRepository gives read access to tags. Tags are created when posts are saved.
type TagRepository interface {
	GetBySlug(slug string) (*models.Tag, error)
	List() ([]*models.Tag, error)
}

// UserRepository stores post authors.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
}

// Store bundles the repositories of one storage backend.
type Store struct {
	Posts    PostRepository
	Comments CommentRepository
	Tags     TagRepository
	Users    UserRepository

	close func() error
}

// Close releases the backend.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
