package views

import (
	"bytes"
	"html/template"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"inkwell/app/forms"
	"inkwell/app/models"
	"inkwell/app/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPost() *models.Post {
	post := &models.Post{
		ID:      7,
		Title:   "Hello <World>",
		Slug:    "hello-world",
		Body:    "First line\nsecond line\n\nNext paragraph",
		Publish: time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC),
		Author:  &models.User{Username: "admin"},
	}
	post.SetTags("Go", "Web")
	return post
}

func render(t *testing.T, r *Renderer, name string, data any) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, name, data))
	return buf.String()
}

func TestRenderPages(t *testing.T) {
	r, err := New("", "", "inkwell")
	require.NoError(t, err)
	post := testPost()

	t.Run("list", func(t *testing.T) {
		html := render(t, r, PageList, ListPage{
			Posts: []*models.Post{post},
			Page:  pagination.New(3, 2).Resolve("1"),
			Tag:   &post.Tags[0],
		})
		assert.Contains(t, html, `<title>Posts tagged with "Go" | inkwell</title>`)
		assert.Contains(t, html, `<a href="/hello-world/">Hello &lt;World&gt;</a>`)
		assert.Contains(t, html, `<a href="/tag/web/">Web</a>`)
		assert.Contains(t, html, "Published January 2, 2024, 3:04 pm by admin")
		assert.Contains(t, html, "Page 1 of 2.")
		assert.Contains(t, html, `<a href="?page=2">Next</a>`)
		assert.NotContains(t, html, "Previous")
	})

	t.Run("empty list", func(t *testing.T) {
		html := render(t, r, PageList, ListPage{Page: pagination.New(0, 2).Resolve("")})
		assert.Contains(t, html, "There are no posts yet.")
		assert.Contains(t, html, "Page 1 of 1.")
	})

	t.Run("detail with form errors", func(t *testing.T) {
		html := render(t, r, PageDetail, DetailPage{
			Post:     post,
			Comments: []*models.Comment{{Name: "Ann", Body: "Nice"}},
			Form:     &forms.CommentForm{Name: "Bob"},
			Errors:   forms.ValidationErrors{"email": "This field is required."},
			Similar:  []*models.Post{{Title: "Other", Slug: "other"}},
		})
		assert.Contains(t, html, "<p>First line<br>second line</p>")
		assert.Contains(t, html, "1 comment</h2>")
		assert.Contains(t, html, "Comment 1 by Ann")
		assert.Contains(t, html, `<a href="/other/">Other</a>`)
		assert.Contains(t, html, `<a href="/7/share/">Share this post</a>`)
		assert.Contains(t, html, "This field is required.")
		assert.Contains(t, html, `value="Bob"`)
	})

	t.Run("detail after comment", func(t *testing.T) {
		html := render(t, r, PageDetail, DetailPage{
			Post:       post,
			NewComment: &models.Comment{Name: "Ann"},
			Form:       &forms.CommentForm{},
		})
		assert.Contains(t, html, "Your comment has been added.")
		assert.Contains(t, html, "0 comments</h2>")
		assert.Contains(t, html, "There are no similar posts yet.")
		assert.NotContains(t, html, "Add a new comment")
	})

	t.Run("share", func(t *testing.T) {
		html := render(t, r, PageShare, SharePage{Post: post, Form: &forms.ShareForm{}})
		assert.Contains(t, html, `<form action="/7/share/" method="post">`)

		html = render(t, r, PageShare, SharePage{Post: post, Form: &forms.ShareForm{To: "bob@example.com"}, Sent: true})
		assert.Contains(t, html, "E-mail successfully sent")
		assert.Contains(t, html, "bob@example.com")
	})

	t.Run("search", func(t *testing.T) {
		html := render(t, r, PageSearch, SearchPage{Form: &forms.SearchForm{}})
		assert.Contains(t, html, "Search for posts")

		html = render(t, r, PageSearch, SearchPage{
			Form:    &forms.SearchForm{Query: "hello"},
			Query:   "hello",
			Results: []*models.SearchResult{{Post: post, Similarity: 0.5}},
		})
		assert.Contains(t, html, `Posts containing "hello"`)
		assert.Contains(t, html, "Found 1 result</h3>")
	})

	t.Run("unknown page", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, r.Render(&buf, "missing", nil))
	})

	t.Run("failed render writes nothing", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, r.Render(&buf, PageDetail, DetailPage{Post: post}))
		assert.Zero(t, buf.Len())
	})
}

func TestTemplateDirOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "posts"), 0o755))
	files := map[string]string{
		"layout.html":           `{{define "layout"}}custom {{template "content" .}}{{end}}`,
		"posts/list.html":       `{{define "title"}}{{end}}{{define "content"}}{{len .Posts}} posts{{end}}`,
		"posts/pagination.html": `{{define "pagination"}}{{end}}`,
		"posts/detail.html":     `{{define "title"}}{{end}}{{define "content"}}{{end}}`,
		"posts/share.html":      `{{define "title"}}{{end}}{{define "content"}}{{end}}`,
		"posts/search.html":     `{{define "title"}}{{end}}{{define "content"}}{{end}}`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	r, err := New(dir, "", "inkwell")
	require.NoError(t, err)
	assert.Equal(t, "custom 0 posts", render(t, r, PageList, ListPage{}))

	_, err = New(t.TempDir(), "", "inkwell")
	assert.Error(t, err)
}

func TestStatic(t *testing.T) {
	r, err := New("", "", "inkwell")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.Static().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/css/blog.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "#sidebar")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "one two …", TruncateWords("one two three", 2))
	assert.Equal(t, "one two", TruncateWords("one two", 2))
	assert.Equal(t, template.HTML("<p>a &amp; b</p>\n<p>c</p>\n"), Linebreaks("a & b\n\n\nc"))
	assert.Equal(t, template.HTML(""), Linebreaks("  "))
}
