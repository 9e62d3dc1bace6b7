// Package views renders the blog's HTML pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"inkwell/app/forms"
	"inkwell/app/models"
	"inkwell/app/pagination"
)

//go:embed templates
var embeddedTemplates embed.FS

//go:embed static
var embeddedStatic embed.FS

// Page names accepted by Render.
const (
	PageList   = "list"
	PageDetail = "detail"
	PageShare  = "share"
	PageSearch = "search"
)

var pageFiles = map[string][]string{
	PageList:   {"layout.html", "posts/list.html", "posts/pagination.html"},
	PageDetail: {"layout.html", "posts/detail.html"},
	PageShare:  {"layout.html", "posts/share.html"},
	PageSearch: {"layout.html", "posts/search.html"},
}

// ListPage is the data of the post listing.
type ListPage struct {
	Posts []*models.Post  `json:"posts"`
	Page  pagination.Page `json:"page"`
	Tag   *models.Tag     `json:"tag,omitempty"`
}

// DetailPage is the data of a post page and its comment form.
type DetailPage struct {
	Post       *models.Post           `json:"post"`
	Comments   []*models.Comment      `json:"comments"`
	NewComment *models.Comment        `json:"new_comment,omitempty"`
	Form       *forms.CommentForm     `json:"form"`
	Errors     forms.ValidationErrors `json:"errors,omitempty"`
	Similar    []*models.Post         `json:"similar_posts"`
}

// SharePage is the data of the share-by-email page.
type SharePage struct {
	Post   *models.Post           `json:"post"`
	Form   *forms.ShareForm       `json:"form"`
	Errors forms.ValidationErrors `json:"errors,omitempty"`
	Sent   bool                   `json:"sent"`
}

// SearchPage is the data of the search page. Query is empty until a valid
// query has been submitted.
type SearchPage struct {
	Form    *forms.SearchForm      `json:"form"`
	Query   string                 `json:"query,omitempty"`
	Results []*models.SearchResult `json:"results"`
	Errors  forms.ValidationErrors `json:"errors,omitempty"`
}

// Renderer holds the parsed page templates.
type Renderer struct {
	pages  map[string]*template.Template
	static fs.FS
}

// New parses the page templates from dir, or from the embedded set when dir is
// empty. Static files are served from staticDir, or the embedded set.
func New(dir, staticDir, siteName string) (*Renderer, error) {
	var tfs fs.FS
	if dir != "" {
		tfs = os.DirFS(dir)
	} else {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, err
		}
		tfs = sub
	}

	funcs := Funcs(siteName)
	r := &Renderer{pages: make(map[string]*template.Template, len(pageFiles))}
	for name, files := range pageFiles {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(tfs, files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s templates: %w", name, err)
		}
		r.pages[name] = tmpl
	}

	if staticDir != "" {
		r.static = os.DirFS(staticDir)
	} else {
		sub, err := fs.Sub(embeddedStatic, "static")
		if err != nil {
			return nil, err
		}
		r.static = sub
	}
	return r, nil
}

// Render executes the named page into w. Nothing is written when execution fails.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the stylesheet and other static assets.
func (r *Renderer) Static() http.Handler {
	return http.FileServer(http.FS(r.static))
}

// Funcs returns the template helpers used by the page templates.
func Funcs(siteName string) template.FuncMap {
	return template.FuncMap{
		"site":          func() string { return siteName },
		"date":          formatDate,
		"truncatewords": TruncateWords,
		"linebreaks":    Linebreaks,
		"pluralize":     pluralize,
		"add":           func(a, b int) int { return a + b },
	}
}

func formatDate(t time.Time) string {
	return t.Format("January 2, 2006, 3:04 pm")
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// TruncateWords keeps the first n words of s, appending an ellipsis when words
// were dropped.
func TruncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ") + " …"
}

// Linebreaks escapes s and turns blank-line separated blocks into paragraphs
// and single newlines into <br>.
func Linebreaks(s string) template.HTML {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\r\n", "\n")
	if s == "" {
		return ""
	}
	var b strings.Builder
	for _, para := range strings.Split(s, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		lines := strings.Split(para, "\n")
		for i, line := range lines {
			lines[i] = template.HTMLEscapeString(line)
		}
		b.WriteString("<p>")
		b.WriteString(strings.Join(lines, "<br>"))
		b.WriteString("</p>\n")
	}
	return template.HTML(b.String())
}
