// Package mock provides in-memory repositories for service and controller tests.
package mock

import (
	"errors"
	"sort"
	"sync"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

// ErrForced is returned by a repository whose Err field is set.
var ErrForced = errors.New("forced failure")

type PostRepository struct {
	posts  map[int]*models.Post
	nextID int
	users  *UserRepository
	tags   *TagRepository
	mutex  sync.RWMutex

	// Err, when set, is returned by every call.
	Err error
}

type CommentRepository struct {
	comments map[int]*models.Comment
	nextID   int
	posts    *PostRepository
	mutex    sync.RWMutex

	Err error
}

type TagRepository struct {
	tags   map[string]*models.Tag
	nextID int
	mutex  sync.RWMutex
}

type UserRepository struct {
	users  map[int]*models.User
	nextID int
	mutex  sync.RWMutex
}

// NewStore wires the four mock repositories together.
func NewStore() *repositories.Store {
	users := NewUserRepository()
	tags := NewTagRepository()
	posts := NewPostRepository(users, tags)
	return &repositories.Store{
		Posts:    posts,
		Comments: NewCommentRepository(posts),
		Tags:     tags,
		Users:    users,
	}
}

func NewPostRepository(users *UserRepository, tags *TagRepository) *PostRepository {
	return &PostRepository{
		posts:  make(map[int]*models.Post),
		nextID: 1,
		users:  users,
		tags:   tags,
	}
}

func NewCommentRepository(posts *PostRepository) *CommentRepository {
	return &CommentRepository{
		comments: make(map[int]*models.Comment),
		nextID:   1,
		posts:    posts,
	}
}

func NewTagRepository() *TagRepository {
	return &TagRepository{tags: make(map[string]*models.Tag), nextID: 1}
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int]*models.User), nextID: 1}
}

func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[int]*models.Post)
	m.nextID = 1
}

// PostRepository implementation
func (m *PostRepository) Create(post *models.Post) error {
	if m.Err != nil {
		return m.Err
	}
	post.BeforeSave()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.checkSlugFree(post.Slug, 0); err != nil {
		return err
	}
	if _, err := m.users.GetByID(post.AuthorID); err != nil {
		return repositories.ErrUnknownAuthor
	}
	post.ID = m.nextID
	m.nextID++
	m.put(post)
	return nil
}

func (m *PostRepository) GetByID(id int) (*models.Post, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return m.load(post), nil
}

func (m *PostRepository) GetBySlug(slug string) (*models.Post, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, post := range m.posts {
		if post.Slug == slug {
			return m.load(post), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *PostRepository) CountPublished(tagSlug string) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return len(repositories.FilterPublished(m.all(), tagSlug)), nil
}

func (m *PostRepository) ListPublished(tagSlug string, limit, offset int) ([]*models.Post, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return repositories.Window(repositories.FilterPublished(m.all(), tagSlug), limit, offset), nil
}

func (m *PostRepository) ListSimilar(post *models.Post, limit int) ([]*models.Post, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return repositories.RankSimilar(post, m.all(), limit), nil
}

func (m *PostRepository) SearchTitles(query string, threshold float64) ([]*models.SearchResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return repositories.RankByTitle(m.all(), query, threshold), nil
}

func (m *PostRepository) Update(post *models.Post) error {
	if m.Err != nil {
		return m.Err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	existing, exists := m.posts[post.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	post.CreatedAt = existing.CreatedAt
	post.BeforeSave()
	if err := m.checkSlugFree(post.Slug, post.ID); err != nil {
		return err
	}
	m.put(post)
	return nil
}

func (m *PostRepository) Delete(id int) error {
	if m.Err != nil {
		return m.Err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *PostRepository) exists(id int) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	_, ok := m.posts[id]
	return ok
}

func (m *PostRepository) all() []*models.Post {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := make([]*models.Post, 0, len(m.posts))
	for _, post := range m.posts {
		posts = append(posts, m.load(post))
	}
	return posts
}

func (m *PostRepository) checkSlugFree(slug string, selfID int) error {
	for id, post := range m.posts {
		if post.Slug == slug && id != selfID {
			return repositories.ErrDuplicateSlug
		}
	}
	return nil
}

// put stores a copy of post with its tags resolved against the tag repository.
func (m *PostRepository) put(post *models.Post) {
	for i := range post.Tags {
		post.Tags[i] = m.tags.resolve(post.Tags[i])
	}
	stored := *post
	stored.Author = nil
	stored.Comments = nil
	stored.Tags = append([]models.Tag(nil), post.Tags...)
	m.posts[post.ID] = &stored
}

// load returns a copy of post with its author attached.
func (m *PostRepository) load(post *models.Post) *models.Post {
	p := *post
	p.Tags = append([]models.Tag(nil), post.Tags...)
	if user, err := m.users.GetByID(p.AuthorID); err == nil {
		p.Author = user
	}
	return &p
}

// CommentRepository implementation
func (m *CommentRepository) Create(comment *models.Comment) error {
	if m.Err != nil {
		return m.Err
	}
	if !m.posts.exists(comment.PostID) {
		return repositories.ErrNotFound
	}
	comment.BeforeSave()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	comment.ID = m.nextID
	m.nextID++
	stored := *comment
	stored.Post = nil
	m.comments[comment.ID] = &stored
	return nil
}

func (m *CommentRepository) GetByID(id int) (*models.Comment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comment, exists := m.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	c := *comment
	return &c, nil
}

func (m *CommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comments := []*models.Comment{}
	for _, comment := range m.comments {
		if comment.PostID == postID {
			c := *comment
			comments = append(comments, &c)
		}
	}
	repositories.SortComments(comments)
	return comments, nil
}

func (m *CommentRepository) ListActiveByPost(postID int) ([]*models.Comment, error) {
	comments, err := m.ListByPost(postID)
	if err != nil {
		return nil, err
	}
	return repositories.ActiveOnly(comments), nil
}

func (m *CommentRepository) Update(comment *models.Comment) error {
	if m.Err != nil {
		return m.Err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	existing, exists := m.comments[comment.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	comment.PostID = existing.PostID
	comment.CreatedAt = existing.CreatedAt
	comment.BeforeSave()
	stored := *comment
	stored.Post = nil
	m.comments[comment.ID] = &stored
	return nil
}

func (m *CommentRepository) Delete(id int) error {
	if m.Err != nil {
		return m.Err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

// TagRepository implementation
func (m *TagRepository) GetBySlug(slug string) (*models.Tag, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	tag, exists := m.tags[slug]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	t := *tag
	return &t, nil
}

func (m *TagRepository) List() ([]*models.Tag, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	tags := make([]*models.Tag, 0, len(m.tags))
	for _, tag := range m.tags {
		t := *tag
		tags = append(tags, &t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

func (m *TagRepository) resolve(tag models.Tag) models.Tag {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if stored, ok := m.tags[tag.Slug]; ok {
		return *stored
	}
	tag.ID = m.nextID
	m.nextID++
	m.tags[tag.Slug] = &tag
	return tag
}

// UserRepository implementation
func (m *UserRepository) Create(user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return repositories.ErrDuplicateUsername
		}
	}
	user.ID = m.nextID
	m.nextID++
	u := *user
	m.users[user.ID] = &u
	return nil
}

func (m *UserRepository) GetByID(id int) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (m *UserRepository) GetByUsername(username string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, user := range m.users {
		if user.Username == username {
			u := *user
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}
