package services

import (
	"fmt"
	"testing"
	"time"

	"inkwell/app/config"
	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestPostService(t *testing.T, cfg config.BlogConfig) (*PostService, *repositories.Store) {
	t.Helper()
	store := mock.NewStore()
	require.NoError(t, store.Users.Create(&models.User{Username: "admin"}))
	return NewPostService(store.Posts, store.Tags, store.Users, cfg), store
}

func addPost(t *testing.T, s *PostService, title string, status models.Status, publish time.Time, tags ...string) *models.Post {
	t.Helper()
	post := &models.Post{Title: title, Body: "Body of " + title, Status: status, Publish: publish}
	post.SetTags(tags...)
	require.NoError(t, s.CreatePost("admin", post))
	return post
}

func TestPostServiceListPublished(t *testing.T) {
	service, _ := newTestPostService(t, config.Default().Blog)

	for i := 0; i < 5; i++ {
		tags := []string{"go"}
		if i%2 == 0 {
			tags = append(tags, "even")
		}
		addPost(t, service, fmt.Sprintf("Post %d", i), models.StatusPublished, day.Add(time.Duration(i)*time.Hour), tags...)
	}
	addPost(t, service, "Hidden draft", models.StatusDraft, day.Add(10*time.Hour), "go")

	tests := []struct {
		name     string
		tag      string
		page     string
		number   int
		numPages int
		titles   []string
	}{
		{"first page by default", "", "", 1, 3, []string{"Post 4", "Post 3"}},
		{"second page", "", "2", 2, 3, []string{"Post 2", "Post 1"}},
		{"last page", "", "3", 3, 3, []string{"Post 0"}},
		{"not an integer", "", "abc", 1, 3, []string{"Post 4", "Post 3"}},
		{"out of range", "", "99", 3, 3, []string{"Post 0"}},
		{"zero", "", "0", 3, 3, []string{"Post 0"}},
		{"negative", "", "-1", 3, 3, []string{"Post 0"}},
		{"by tag", "even", "", 1, 2, []string{"Post 4", "Post 2"}},
		{"by tag last page", "even", "2", 2, 2, []string{"Post 0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := service.ListPublished(tt.tag, tt.page)
			require.NoError(t, err)
			assert.Equal(t, tt.number, list.Page.Number)
			assert.Equal(t, tt.numPages, list.Page.NumPages)

			var titles []string
			for _, p := range list.Posts {
				titles = append(titles, p.Title)
			}
			assert.Equal(t, tt.titles, titles)
			if tt.tag != "" {
				require.NotNil(t, list.Tag)
				assert.Equal(t, tt.tag, list.Tag.Slug)
			} else {
				assert.Nil(t, list.Tag)
			}
		})
	}

	t.Run("unknown tag", func(t *testing.T) {
		_, err := service.ListPublished("nope", "")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestPostServiceListEmpty(t *testing.T) {
	service, _ := newTestPostService(t, config.Default().Blog)

	list, err := service.ListPublished("", "7")
	require.NoError(t, err)
	assert.Empty(t, list.Posts)
	assert.Equal(t, 1, list.Page.Number)
	assert.Equal(t, 1, list.Page.NumPages)
}

func TestPostServiceDetail(t *testing.T) {
	service, _ := newTestPostService(t, config.Default().Blog)

	target := addPost(t, service, "Main", models.StatusPublished, day, "a", "b", "c")
	two := addPost(t, service, "Two shared", models.StatusPublished, day.Add(time.Hour), "a", "b")
	old := addPost(t, service, "One shared old", models.StatusPublished, day.Add(-time.Hour), "c")
	draft := addPost(t, service, "One shared draft", models.StatusDraft, day.Add(2*time.Hour), "a")
	addPost(t, service, "Unrelated", models.StatusPublished, day.Add(3*time.Hour), "z")
	three := addPost(t, service, "Three shared", models.StatusPublished, day.Add(-2*time.Hour), "a", "b", "c")
	addPost(t, service, "One shared oldest", models.StatusPublished, day.Add(-3*time.Hour), "b")

	t.Run("draft detail is reachable", func(t *testing.T) {
		post, err := service.GetBySlug(draft.Slug)
		require.NoError(t, err)
		assert.Equal(t, draft.ID, post.ID)
		require.NotNil(t, post.Author)
		assert.Equal(t, "admin", post.Author.Username)
	})

	t.Run("similar posts are capped and ranked", func(t *testing.T) {
		post, err := service.GetBySlug(target.Slug)
		require.NoError(t, err)

		similar, err := service.SimilarPosts(post)
		require.NoError(t, err)
		require.Len(t, similar, 4)
		assert.Equal(t, three.ID, similar[0].ID)
		assert.Equal(t, two.ID, similar[1].ID)
		assert.Equal(t, draft.ID, similar[2].ID)
		assert.Equal(t, old.ID, similar[3].ID)
		for _, p := range similar {
			assert.NotEqual(t, target.ID, p.ID)
		}
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := service.GetBySlug("missing")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		_, err = service.GetPost(999)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestPostServiceSearch(t *testing.T) {
	cfg := config.Default().Blog
	service, store := newTestPostService(t, cfg)

	exact := addPost(t, service, "Django", models.StatusPublished, day, "web")
	partial := addPost(t, service, "Django tips and tricks", models.StatusDraft, day.Add(time.Hour))
	addPost(t, service, "Gardening", models.StatusPublished, day)

	t.Run("ascending by default", func(t *testing.T) {
		results, err := service.Search("django")
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, partial.ID, results[0].Post.ID)
		assert.Equal(t, exact.ID, results[1].Post.ID)
		assert.Less(t, results[0].Similarity, results[1].Similarity)
		assert.InDelta(t, 1.0, results[1].Similarity, 1e-9)
	})

	t.Run("descending when configured", func(t *testing.T) {
		cfg.SearchOrder = config.OrderDesc
		desc := NewPostService(store.Posts, store.Tags, store.Users, cfg)
		results, err := desc.Search("django")
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, exact.ID, results[0].Post.ID)
	})

	t.Run("no match", func(t *testing.T) {
		results, err := service.Search("xyz")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("storage failure", func(t *testing.T) {
		store.Posts.(*mock.PostRepository).Err = mock.ErrForced
		defer func() { store.Posts.(*mock.PostRepository).Err = nil }()
		_, err := service.Search("django")
		assert.ErrorIs(t, err, mock.ErrForced)
	})
}

func TestPostServiceAuthoring(t *testing.T) {
	service, _ := newTestPostService(t, config.Default().Blog)

	t.Run("create derives slug and defaults", func(t *testing.T) {
		post := &models.Post{Title: "Héllo, World!", Body: "text"}
		require.NoError(t, service.CreatePost("admin", post))
		assert.Equal(t, "hello-world", post.Slug)
		assert.Equal(t, models.StatusDraft, post.Status)
		assert.False(t, post.Publish.IsZero())
	})

	t.Run("unknown author", func(t *testing.T) {
		err := service.CreatePost("ghost", &models.Post{Title: "x", Body: "y"})
		assert.ErrorIs(t, err, repositories.ErrUnknownAuthor)
	})

	t.Run("invalid post", func(t *testing.T) {
		err := service.CreatePost("admin", &models.Post{Title: "No body"})
		assert.Error(t, err)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		err := service.CreatePost("admin", &models.Post{Title: "Hello world", Body: "again"})
		assert.ErrorIs(t, err, repositories.ErrDuplicateSlug)
	})

	t.Run("publish", func(t *testing.T) {
		post, err := service.Publish("hello-world")
		require.NoError(t, err)
		assert.True(t, post.IsPublished())

		list, err := service.ListPublished("", "")
		require.NoError(t, err)
		require.Len(t, list.Posts, 1)
		assert.Equal(t, "hello-world", list.Posts[0].Slug)

		_, err = service.Publish("missing")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("authors", func(t *testing.T) {
		user, err := service.AddAuthor(" editor ", "ed@example.com")
		require.NoError(t, err)
		assert.Equal(t, "editor", user.Username)

		_, err = service.AddAuthor("editor", "")
		assert.ErrorIs(t, err, repositories.ErrDuplicateUsername)

		_, err = service.AddAuthor("bad", "not-an-email")
		assert.Error(t, err)
	})

	t.Run("tags", func(t *testing.T) {
		post := &models.Post{Title: "Tagged", Body: "b"}
		post.SetTags("Go", "Web Dev")
		require.NoError(t, service.CreatePost("admin", post))

		tags, err := service.Tags()
		require.NoError(t, err)
		require.Len(t, tags, 2)
		assert.Equal(t, "Go", tags[0].Name)
		assert.Equal(t, "web-dev", tags[1].Slug)
	})

	t.Run("delete", func(t *testing.T) {
		post, err := service.GetBySlug("tagged")
		require.NoError(t, err)
		require.NoError(t, service.DeletePost(post.ID))
		_, err = service.GetBySlug("tagged")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}
