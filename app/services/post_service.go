package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"inkwell/app/config"
	"inkwell/app/models"
	"inkwell/app/pagination"
	"inkwell/app/repositories"
)

// PostList is one page of the published post listing.
type PostList struct {
	Posts []*models.Post  `json:"posts"`
	Page  pagination.Page `json:"page"`
	Tag   *models.Tag     `json:"tag,omitempty"`
}

// PostService handles business logic for blog posts
type PostService struct {
	postRepo repositories.PostRepository
	tagRepo  repositories.TagRepository
	userRepo repositories.UserRepository
	cfg      config.BlogConfig
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, tagRepo repositories.TagRepository, userRepo repositories.UserRepository, cfg config.BlogConfig) *PostService {
	return &PostService{
		postRepo: postRepo,
		tagRepo:  tagRepo,
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// ListPublished returns the requested page of published posts, optionally
// restricted to a tag. An unknown tag yields ErrNotFound; a bad page number
// falls back to the first or last page.
func (s *PostService) ListPublished(tagSlug, rawPage string) (*PostList, error) {
	list := &PostList{}
	if tagSlug != "" {
		tag, err := s.tagRepo.GetBySlug(tagSlug)
		if err != nil {
			return nil, err
		}
		list.Tag = tag
	}

	count, err := s.postRepo.CountPublished(tagSlug)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	list.Page = pagination.New(count, s.cfg.PageSize).Resolve(rawPage)

	list.Posts, err = s.postRepo.ListPublished(tagSlug, list.Page.Limit(), list.Page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return list, nil
}

// GetBySlug returns the post with the given slug, whatever its status.
func (s *PostService) GetBySlug(slug string) (*models.Post, error) {
	return s.postRepo.GetBySlug(slug)
}

// GetPost retrieves a post by ID
func (s *PostService) GetPost(id int) (*models.Post, error) {
	return s.postRepo.GetByID(id)
}

// SimilarPosts returns the posts that share the most tags with post.
func (s *PostService) SimilarPosts(post *models.Post) ([]*models.Post, error) {
	similar, err := s.postRepo.ListSimilar(post, s.cfg.SimilarLimit)
	if err != nil {
		return nil, fmt.Errorf("similar posts for %d: %w", post.ID, err)
	}
	return similar, nil
}

// Search scores every post title against query and returns the matches above
// the configured threshold in the configured order.
func (s *PostService) Search(query string) ([]*models.SearchResult, error) {
	results, err := s.postRepo.SearchTitles(query, s.cfg.SearchThreshold)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if s.cfg.SearchOrder == config.OrderDesc {
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].Similarity != results[j].Similarity {
				return results[i].Similarity > results[j].Similarity
			}
			return results[i].Post.Publish.After(results[j].Post.Publish)
		})
	}
	return results, nil
}

// CreatePost validates and stores a post written by the named author.
func (s *PostService) CreatePost(username string, post *models.Post) error {
	author, err := s.userRepo.GetByUsername(username)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("author %q: %w", username, repositories.ErrUnknownAuthor)
	}
	if err != nil {
		return err
	}
	post.AuthorID = author.ID
	post.Author = author

	post.BeforeSave()
	if err := post.Validate(); err != nil {
		return fmt.Errorf("invalid post: %w", err)
	}
	return s.postRepo.Create(post)
}

// Publish makes the post with the given slug visible in listings.
func (s *PostService) Publish(slug string) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	post.Status = models.StatusPublished
	if err := s.postRepo.Update(post); err != nil {
		return nil, fmt.Errorf("publish %q: %w", slug, err)
	}
	return post, nil
}

// DeletePost deletes a post together with its comments
func (s *PostService) DeletePost(id int) error {
	return s.postRepo.Delete(id)
}

// AddAuthor registers a user who can write posts.
func (s *PostService) AddAuthor(username, email string) (*models.User, error) {
	user := &models.User{Username: strings.TrimSpace(username), Email: strings.TrimSpace(email)}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("invalid author: %w", err)
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Tags lists every tag in use.
func (s *PostService) Tags() ([]*models.Tag, error) {
	return s.tagRepo.List()
}
